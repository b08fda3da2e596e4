// Package handler exposes the inventory HTTP surface.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"logitrack/internal/inventory"
	"logitrack/internal/platform/middleware"
	dErrors "logitrack/pkg/domain-errors"
	"logitrack/pkg/platform/httputil"
)

// RoleManager gates inventory mutations.
const RoleManager = "manager"

// Handler handles inventory endpoints. It delegates to the service without
// embedding business logic so transport concerns remain isolated.
type Handler struct {
	logger       *slog.Logger
	service      *inventory.Service
	jwtValidator middleware.JWTValidator
}

func New(service *inventory.Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the inventory routes. Listing requires authentication;
// mutations additionally require the manager role.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/inventory", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Get("/", h.handleList)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(RoleManager, h.logger))
			r.Post("/", h.handleCreate)
			r.Delete("/{id}", h.handleDelete)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, result, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list inventory",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	cacheState := "MISS"
	if result.Hit {
		cacheState = "HIT"
	}
	w.Header().Set("X-Cache", cacheState)
	w.Header().Set("X-Elapsed-ms", strconv.FormatInt(result.Elapsed.Milliseconds(), 10))
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req inventory.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid create item request",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	item, err := h.service.Create(ctx, req)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create item",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid item id"))
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to delete item",
				"error", err.Error(),
				"item_id", id,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"logitrack/internal/platform/metrics"
	"logitrack/internal/platform/middleware"
	dErrors "logitrack/pkg/domain-errors"
	"logitrack/pkg/platform/audit"
	"logitrack/pkg/platform/sentinel"
)

// AuditRecorder is the slice of the audit recorder the service needs.
type AuditRecorder interface {
	Record(ctx context.Context, event audit.Event)
}

// Service owns inventory reads and mutations. It is also the consistency
// rule: every successful create or delete invalidates the listing cache
// before the call returns, so the next listing is guaranteed to recompute.
// Order creation and deletion never touch this cache.
type Service struct {
	store   Store
	cache   ListCache
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditRecorder
}

func NewService(store Store, cache ListCache, logger *slog.Logger, m *metrics.Metrics, recorder AuditRecorder) *Service {
	return &Service{
		store:   store,
		cache:   cache,
		logger:  logger,
		metrics: m,
		audit:   recorder,
	}
}

// List serves the inventory listing through the read-through cache.
func (s *Service) List(ctx context.Context) ([]Item, CacheResult, error) {
	items, result, err := s.cache.GetOrLoad(ctx)
	if err != nil {
		return nil, CacheResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load inventory")
	}
	return items, result, nil
}

// Create validates and persists a new item, then invalidates the cache.
func (s *Service) Create(ctx context.Context, req CreateItemRequest) (Item, error) {
	item := Item{
		Name:     strings.TrimSpace(req.Name),
		Quantity: req.Quantity,
		Location: strings.TrimSpace(req.Location),
	}
	if err := validateItem(item); err != nil {
		return Item{}, err
	}

	created, err := s.store.Insert(ctx, item)
	if err != nil {
		return Item{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create item")
	}

	if err := s.invalidate(ctx); err != nil {
		return Item{}, err
	}

	if s.metrics != nil {
		s.metrics.ItemsCreated.Inc()
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.Event{
			Action:    audit.ActionItemCreated,
			EntityID:  created.ID,
			ActorID:   middleware.GetUserID(ctx),
			RequestID: middleware.GetRequestID(ctx),
		})
	}
	return created, nil
}

// Delete removes an item. Deletion is refused while order lines reference it,
// so the weak Order Line -> Item reference can never dangle.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "inventory item not found")
	case errors.Is(err, sentinel.ErrReferenced):
		return dErrors.New(dErrors.CodeConflict, "inventory item is referenced by existing orders")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete item")
	}

	if err := s.invalidate(ctx); err != nil {
		return err
	}

	if s.audit != nil {
		s.audit.Record(ctx, audit.Event{
			Action:    audit.ActionItemDeleted,
			EntityID:  id,
			ActorID:   middleware.GetUserID(ctx),
			RequestID: middleware.GetRequestID(ctx),
		})
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		// The mutation committed but the cache may now serve a stale
		// snapshot past its invalidation point. Surface the failure.
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to invalidate inventory cache")
	}
	return nil
}

func validateItem(item Item) error {
	switch {
	case item.Name == "":
		return dErrors.New(dErrors.CodeValidation, "name is required")
	case len(item.Name) > MaxNameLen:
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("name exceeds %d characters", MaxNameLen))
	case item.Location == "":
		return dErrors.New(dErrors.CodeValidation, "location is required")
	case len(item.Location) > MaxLocationLen:
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("location exceeds %d characters", MaxLocationLen))
	case item.Quantity < 0:
		return dErrors.New(dErrors.CodeValidation, "quantity cannot be negative")
	}
	return nil
}

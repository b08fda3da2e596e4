package orders

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"logitrack/internal/inventory"
	"logitrack/internal/platform/metrics"
	"logitrack/internal/platform/middleware"
	dErrors "logitrack/pkg/domain-errors"
	"logitrack/pkg/platform/audit"
	"logitrack/pkg/platform/sentinel"
)

var tracer = otel.Tracer("logitrack/orders")

// AuditRecorder is the slice of the audit recorder the service needs.
type AuditRecorder interface {
	Record(ctx context.Context, event audit.Event)
}

// Service assembles and persists order aggregates and builds their read-time
// projections. Existence validation reads the inventory store directly, not
// the listing cache, so a stale cached snapshot can never admit a deleted
// item id.
type Service struct {
	store     Store
	inventory inventory.Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	audit     AuditRecorder
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, inv inventory.Store, logger *slog.Logger, m *metrics.Metrics, recorder AuditRecorder, opts ...Option) *Service {
	s := &Service{
		store:     store,
		inventory: inv,
		logger:    logger,
		metrics:   m,
		audit:     recorder,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the request against current inventory, persists the
// aggregate atomically, and returns a fresh joined projection. A rejected
// request leaves the store untouched.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (Projection, error) {
	ctx, span := tracer.Start(ctx, "orders.create")
	defer span.End()

	order, err := s.assemble(ctx, req)
	if err != nil {
		if s.metrics != nil {
			s.metrics.OrdersRejected.Inc()
		}
		span.RecordError(err)
		return Projection{}, err
	}

	orderID, err := s.store.Create(ctx, order)
	if err != nil {
		span.RecordError(err)
		return Projection{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist order")
	}
	span.SetAttributes(attribute.Int64("order.id", orderID))

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.Event{
			Action:    audit.ActionOrderCreated,
			EntityID:  orderID,
			ActorID:   middleware.GetUserID(ctx),
			RequestID: middleware.GetRequestID(ctx),
		})
	}

	// Re-read so the response is the same joined projection any later read
	// would produce.
	return s.GetByID(ctx, orderID)
}

// assemble validates the request and constructs the aggregate. One batch
// existence check covers the distinct referenced ids.
func (s *Service) assemble(ctx context.Context, req CreateOrderRequest) (Order, error) {
	customer := strings.TrimSpace(req.CustomerName)
	switch {
	case customer == "":
		return Order{}, dErrors.New(dErrors.CodeValidation, "customer name is required")
	case len(customer) > MaxCustomerNameLen:
		return Order{}, dErrors.New(dErrors.CodeValidation, "customer name too long")
	case len(req.Items) == 0:
		return Order{}, dErrors.New(dErrors.CodeValidation, "at least one item is required")
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return Order{}, dErrors.New(dErrors.CodeValidation, "item quantities must be positive")
		}
	}

	distinct := distinctItemIDs(req.Items)
	existing, err := s.inventory.ExistingIDs(ctx, distinct)
	if err != nil {
		return Order{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate item ids")
	}
	if len(existing) != len(distinct) {
		return Order{}, dErrors.New(dErrors.CodeValidation, "one or more item ids do not exist")
	}

	placedAt := s.now()
	if req.PlacedAt != nil {
		placedAt = *req.PlacedAt
	}

	order := Order{
		CustomerName: customer,
		PlacedAt:     placedAt,
		Lines:        make([]Line, 0, len(req.Items)),
	}
	for _, line := range req.Items {
		order.Lines = append(order.Lines, Line{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return order, nil
}

// GetByID returns the joined projection for one order.
func (s *Service) GetByID(ctx context.Context, id int64) (Projection, error) {
	order, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Projection{}, dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return Projection{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load order")
	}
	projections, err := s.project(ctx, []Order{order})
	if err != nil {
		return Projection{}, err
	}
	return projections[0], nil
}

// ListAll returns all orders, newest placement first.
func (s *Service) ListAll(ctx context.Context) ([]Projection, error) {
	orders, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list orders")
	}
	return s.project(ctx, orders)
}

// Delete removes an order and its lines. Inventory and its cache are
// untouched: order deletion never invalidates the inventory listing.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete order")
	}

	if s.audit != nil {
		s.audit.Record(ctx, audit.Event{
			Action:    audit.ActionOrderDeleted,
			EntityID:  id,
			ActorID:   middleware.GetUserID(ctx),
			RequestID: middleware.GetRequestID(ctx),
		})
	}
	return nil
}

// project joins lines against the inventory store, resolving current item
// names at read time. One batch lookup covers all orders.
func (s *Service) project(ctx context.Context, orders []Order) ([]Projection, error) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, order := range orders {
		for _, line := range order.Lines {
			if !seen[line.ItemID] {
				seen[line.ItemID] = true
				ids = append(ids, line.ItemID)
			}
		}
	}

	names, err := s.inventory.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve item names")
	}

	projections := make([]Projection, 0, len(orders))
	for _, order := range orders {
		p := Projection{
			ID:           order.ID,
			CustomerName: order.CustomerName,
			PlacedAt:     order.PlacedAt,
			Items:        make([]LineProjection, 0, len(order.Lines)),
		}
		for _, line := range order.Lines {
			p.Items = append(p.Items, LineProjection{
				ItemID:   line.ItemID,
				ItemName: names[line.ItemID],
				Quantity: line.Quantity,
			})
		}
		projections = append(projections, p)
	}
	return projections, nil
}

func distinctItemIDs(items []LineRequest) []int64 {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, line := range items {
		if !seen[line.ItemID] {
			seen[line.ItemID] = true
			ids = append(ids, line.ItemID)
		}
	}
	return ids
}

package orders_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"logitrack/internal/inventory"
	"logitrack/internal/memstore"
	"logitrack/internal/orders"
	dErrors "logitrack/pkg/domain-errors"
	"logitrack/pkg/platform/audit"
)

type spyRecorder struct {
	events []audit.Event
}

func (r *spyRecorder) Record(_ context.Context, event audit.Event) {
	r.events = append(r.events, event)
}

type ServiceSuite struct {
	suite.Suite
	items    *memstore.ItemStore
	store    *memstore.OrderStore
	recorder *spyRecorder
	now      time.Time
	service  *orders.Service
}

func (s *ServiceSuite) SetupTest() {
	mem := memstore.New()
	s.items = mem.Items()
	s.store = mem.Orders()
	s.recorder = &spyRecorder{}
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = orders.NewService(s.store, s.items, logger, nil, s.recorder,
		orders.WithClock(func() time.Time { return s.now }))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) seedItem(name string) inventory.Item {
	item, err := s.items.Insert(context.Background(), inventory.Item{Name: name, Quantity: 10, Location: "A1"})
	s.Require().NoError(err)
	return item
}

func (s *ServiceSuite) storedOrderCount() int {
	listed, err := s.store.ListAll(context.Background())
	s.Require().NoError(err)
	return len(listed)
}

func (s *ServiceSuite) TestCreateValidation() {
	item := s.seedItem("Crate")

	cases := map[string]orders.CreateOrderRequest{
		"empty customer name": {
			CustomerName: "",
			Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: 1}},
		},
		"whitespace customer name": {
			CustomerName: "   ",
			Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: 1}},
		},
		"no items": {
			CustomerName: "Acme",
		},
		"zero quantity": {
			CustomerName: "Acme",
			Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: 0}},
		},
		"negative quantity": {
			CustomerName: "Acme",
			Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: -2}},
		},
		"unknown item id": {
			CustomerName: "Acme",
			Items:        []orders.LineRequest{{ItemID: 999, Quantity: 1}},
		},
		"one known one unknown": {
			CustomerName: "Acme",
			Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: 1}, {ItemID: 999, Quantity: 1}},
		},
	}

	for name, req := range cases {
		s.Run(name, func() {
			_, err := s.service.Create(context.Background(), req)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}

	s.Zero(s.storedOrderCount(), "rejected requests leave no rows behind")
	s.Empty(s.recorder.events)
}

// vanishingItems deletes an item right after the existence check passes, to
// exercise an item delete racing an order create.
type vanishingItems struct {
	inventory.Store
	deleteAfterCheck func()
}

func (v *vanishingItems) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing, err := v.Store.ExistingIDs(ctx, ids)
	if v.deleteAfterCheck != nil {
		v.deleteAfterCheck()
	}
	return existing, err
}

func (s *ServiceSuite) TestCreateRefusesItemDeletedAfterExistenceCheck() {
	item := s.seedItem("Crate")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	racing := &vanishingItems{
		Store: s.items,
		deleteAfterCheck: func() {
			s.Require().NoError(s.items.Delete(context.Background(), item.ID))
		},
	}
	service := orders.NewService(s.store, racing, logger, nil, nil)

	_, err := service.Create(context.Background(), orders.CreateOrderRequest{
		CustomerName: "Acme",
		Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: 1}},
	})
	s.Require().Error(err, "commit must re-check the reference, not trust the earlier read")

	s.Zero(s.storedOrderCount(), "nothing persisted for the refused order")

	referenced, checkErr := s.store.HasLinesForItem(context.Background(), item.ID)
	s.Require().NoError(checkErr)
	s.False(referenced, "no line may reference the deleted item")
}

func (s *ServiceSuite) TestCreateSuccess() {
	item := s.seedItem("Crate")

	projection, err := s.service.Create(context.Background(), orders.CreateOrderRequest{
		CustomerName: " Acme ",
		Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: 2}},
	})
	s.Require().NoError(err)
	s.Equal("Acme", projection.CustomerName)
	s.Equal(s.now, projection.PlacedAt)
	s.Require().Len(projection.Items, 1)
	s.Equal("Crate", projection.Items[0].ItemName)
	s.Equal(int64(2), projection.Items[0].Quantity)

	s.Require().Len(s.recorder.events, 1)
	s.Equal(audit.ActionOrderCreated, s.recorder.events[0].Action)
}

func (s *ServiceSuite) TestCreateHonorsPlacedAtOverride() {
	item := s.seedItem("Crate")
	override := s.now.Add(-48 * time.Hour)

	projection, err := s.service.Create(context.Background(), orders.CreateOrderRequest{
		CustomerName: "Acme",
		PlacedAt:     &override,
		Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: 1}},
	})
	s.Require().NoError(err)
	s.Equal(override, projection.PlacedAt)
}

func (s *ServiceSuite) TestCreateKeepsDuplicateLinesIndependent() {
	item := s.seedItem("Crate")

	projection, err := s.service.Create(context.Background(), orders.CreateOrderRequest{
		CustomerName: "Acme",
		Items: []orders.LineRequest{
			{ItemID: item.ID, Quantity: 1},
			{ItemID: item.ID, Quantity: 3},
		},
	})
	s.Require().NoError(err)
	s.Require().Len(projection.Items, 2, "duplicate ids stay separate lines")
	s.Equal(int64(1), projection.Items[0].Quantity)
	s.Equal(int64(3), projection.Items[1].Quantity)
}

func (s *ServiceSuite) TestProjectionResolvesNamesAtReadTime() {
	item := s.seedItem("Crate")

	projection, err := s.service.Create(context.Background(), orders.CreateOrderRequest{
		CustomerName: "Acme",
		Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: 2}},
	})
	s.Require().NoError(err)
	s.Equal("Crate", projection.Items[0].ItemName)

	s.Require().NoError(s.items.UpdateName(context.Background(), item.ID, "Box"))

	reread, err := s.service.GetByID(context.Background(), projection.ID)
	s.Require().NoError(err)
	s.Equal("Box", reread.Items[0].ItemName, "names resolve at read time, not creation time")
}

func (s *ServiceSuite) TestListAllNewestFirst() {
	item := s.seedItem("Crate")

	for _, offset := range []time.Duration{0, 2 * time.Hour, time.Hour} {
		placedAt := s.now.Add(offset)
		_, err := s.service.Create(context.Background(), orders.CreateOrderRequest{
			CustomerName: "Acme",
			PlacedAt:     &placedAt,
			Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: 1}},
		})
		s.Require().NoError(err)
	}

	projections, err := s.service.ListAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(projections, 3)
	for i := 1; i < len(projections); i++ {
		s.False(projections[i-1].PlacedAt.Before(projections[i].PlacedAt))
	}
}

func (s *ServiceSuite) TestGetByIDAbsent() {
	_, err := s.service.GetByID(context.Background(), 42)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDelete() {
	item := s.seedItem("Crate")
	projection, err := s.service.Create(context.Background(), orders.CreateOrderRequest{
		CustomerName: "Acme",
		Items:        []orders.LineRequest{{ItemID: item.ID, Quantity: 1}},
	})
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(context.Background(), projection.ID))
	s.Zero(s.storedOrderCount())

	err = s.service.Delete(context.Background(), projection.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

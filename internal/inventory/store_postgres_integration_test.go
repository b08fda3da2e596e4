//go:build integration

package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"logitrack/internal/inventory"
	"logitrack/internal/orders"
	"logitrack/pkg/platform/sentinel"
	"logitrack/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *inventory.PostgresStore
	orders   *orders.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = inventory.NewPostgresStore(s.postgres.DB)
	s.orders = orders.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	// Truncate in dependency order
	err := s.postgres.TruncateTables(ctx, "order_lines", "orders", "inventory_items")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestInsertAssignsSequentialIDs() {
	ctx := context.Background()

	first, err := s.store.Insert(ctx, inventory.Item{Name: "Pallet Jack", Quantity: 12, Location: "Warehouse A"})
	s.Require().NoError(err)
	second, err := s.store.Insert(ctx, inventory.Item{Name: "Forklift", Quantity: 3, Location: "Warehouse B"})
	s.Require().NoError(err)

	s.Equal(first.ID+1, second.ID)

	listed, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal("Pallet Jack", listed[0].Name)
	s.Equal("Forklift", listed[1].Name)
}

func (s *PostgresStoreSuite) TestDeleteUnknownID() {
	err := s.store.Delete(context.Background(), 9999)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteReferencedItemIsRestricted() {
	ctx := context.Background()

	item, err := s.store.Insert(ctx, inventory.Item{Name: "Pallet Jack", Quantity: 12, Location: "Warehouse A"})
	s.Require().NoError(err)

	_, err = s.orders.Create(ctx, orders.Order{
		CustomerName: "Acme Corp",
		PlacedAt:     time.Now().UTC(),
		Lines:        []orders.Line{{ItemID: item.ID, Quantity: 2}},
	})
	s.Require().NoError(err)

	err = s.store.Delete(ctx, item.ID)
	s.ErrorIs(err, sentinel.ErrReferenced)

	// The row survived the refused delete.
	ids, err := s.store.ExistingIDs(ctx, []int64{item.ID})
	s.Require().NoError(err)
	s.True(ids[item.ID])
}

func (s *PostgresStoreSuite) TestExistingIDsAndNames() {
	ctx := context.Background()

	item, err := s.store.Insert(ctx, inventory.Item{Name: "Pallet Jack", Quantity: 12, Location: "Warehouse A"})
	s.Require().NoError(err)

	ids, err := s.store.ExistingIDs(ctx, []int64{item.ID, 9999})
	s.Require().NoError(err)
	s.True(ids[item.ID])
	s.False(ids[9999])

	names, err := s.store.NamesByIDs(ctx, []int64{item.ID})
	s.Require().NoError(err)
	s.Equal("Pallet Jack", names[item.ID])
}

func (s *PostgresStoreSuite) TestUpdateName() {
	ctx := context.Background()

	item, err := s.store.Insert(ctx, inventory.Item{Name: "Pallet Jack", Quantity: 12, Location: "Warehouse A"})
	s.Require().NoError(err)

	s.Require().NoError(s.store.UpdateName(ctx, item.ID, "Electric Pallet Jack"))

	names, err := s.store.NamesByIDs(ctx, []int64{item.ID})
	s.Require().NoError(err)
	s.Equal("Electric Pallet Jack", names[item.ID])

	s.ErrorIs(s.store.UpdateName(ctx, 9999, "Ghost"), sentinel.ErrNotFound)
}

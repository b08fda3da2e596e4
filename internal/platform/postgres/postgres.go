// Package postgres opens the shared database handle and owns the schema the
// stores rely on.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to Postgres through the pgx stdlib driver and verifies the
// connection before returning.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Schema is the DDL for the three related record sets. The FK from
// order_lines to inventory_items is RESTRICT: an item cannot be deleted while
// lines reference it. The FK to orders is CASCADE: deleting an order deletes
// its lines.
const Schema = `
CREATE TABLE IF NOT EXISTS inventory_items (
	id        BIGSERIAL PRIMARY KEY,
	name      TEXT NOT NULL,
	quantity  BIGINT NOT NULL CHECK (quantity >= 0),
	location  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	id            BIGSERIAL PRIMARY KEY,
	customer_name TEXT NOT NULL,
	placed_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_lines (
	id        BIGSERIAL PRIMARY KEY,
	order_id  BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	item_id   BIGINT NOT NULL REFERENCES inventory_items(id) ON DELETE RESTRICT,
	quantity  BIGINT NOT NULL CHECK (quantity >= 1)
);

CREATE INDEX IF NOT EXISTS idx_order_lines_order_id ON order_lines(order_id);
CREATE INDEX IF NOT EXISTS idx_order_lines_item_id ON order_lines(item_id);
CREATE INDEX IF NOT EXISTS idx_orders_placed_at ON orders(placed_at DESC, id);
`

// EnsureSchema applies the schema. Idempotent; meant for dev and tests, real
// deployments run migrations out of band.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"logitrack/pkg/platform/sentinel"
)

// PostgresStore persists order aggregates. Create runs in one transaction so
// the header and lines become visible together or not at all; line removal on
// order delete is the ON DELETE CASCADE foreign key.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, order Order) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_name, placed_at)
		VALUES ($1, $2)
		RETURNING id`,
		order.CustomerName, order.PlacedAt,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	for _, line := range order.Lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, item_id, quantity)
			VALUES ($1, $2, $3)`,
			orderID, line.ItemID, line.Quantity,
		)
		if err != nil {
			return 0, fmt.Errorf("insert order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit order: %w", err)
	}
	return orderID, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (Order, error) {
	var order Order
	err := s.db.QueryRowContext(ctx, `
		SELECT id, customer_name, placed_at
		FROM orders WHERE id = $1`, id,
	).Scan(&order.ID, &order.CustomerName, &order.PlacedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("query order: %w", err)
	}

	order.Lines, err = s.linesFor(ctx, id)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Order, error) {
	// Surrogate id ascending is insertion order, breaking placement ties
	// deterministically.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_name, placed_at
		FROM orders
		ORDER BY placed_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.PlacedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	for i := range orders {
		orders[i].Lines, err = s.linesFor(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) HasLinesForItem(ctx context.Context, itemID int64) (bool, error) {
	var referenced bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM order_lines WHERE item_id = $1)`, itemID,
	).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("check item references: %w", err)
	}
	return referenced, nil
}

func (s *PostgresStore) linesFor(ctx context.Context, orderID int64) ([]Line, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, item_id, quantity
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	return lines, nil
}

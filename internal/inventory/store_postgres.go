package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"logitrack/pkg/platform/sentinel"
)

// PostgresStore persists inventory items in PostgreSQL. The referential guard
// on delete is the ON DELETE RESTRICT foreign key from order_lines, so the
// check and the delete are one statement.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, item Item) (Item, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO inventory_items (name, quantity, location)
		VALUES ($1, $2, $3)
		RETURNING id`,
		item.Name, item.Quantity, item.Location,
	).Scan(&item.ID)
	if err != nil {
		return Item{}, fmt.Errorf("insert inventory item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: foreign_key_violation, raised by the RESTRICT constraint.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return sentinel.ErrReferenced
		}
		return fmt.Errorf("delete inventory item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, quantity, location
		FROM inventory_items
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Location); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	if len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM inventory_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("check inventory ids: %w", err)
	}
	defer rows.Close()

	existing := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan inventory id: %w", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("check inventory ids: %w", err)
	}
	return existing, nil
}

func (s *PostgresStore) NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM inventory_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve item names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan item name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve item names: %w", err)
	}
	return names, nil
}

func (s *PostgresStore) UpdateName(ctx context.Context, id int64, name string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE inventory_items SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("update item name: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item name: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

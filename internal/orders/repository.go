package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tagteamprinting/printquote/internal/httpx"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const orderColumns = `id, reference, quote_id, customer_id, status, rush_order,
	subtotal, total_with_tax, COALESCE(notes, ''), hub_synced_at, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, o *Order) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (reference, quote_id, customer_id, status, rush_order, subtotal, total_with_tax, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, o.Reference, o.QuoteID, o.CustomerID, string(o.Status), o.RushOrder, o.Subtotal, o.TotalWithTax, o.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read order id: %w", err)
	}
	return id, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = ?
	`, id).Scan(
		&o.ID, &o.Reference, &o.QuoteID, &o.CustomerID, &o.Status, &o.RushOrder,
		&o.Subtotal, &o.TotalWithTax, &o.Notes, &o.HubSyncedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	return &o, nil
}

func (r *Repository) List(ctx context.Context, status Status) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE (? = '' OR status = ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, string(status), string(status))
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.Reference, &o.QuoteID, &o.CustomerID, &o.Status, &o.RushOrder,
			&o.Subtotal, &o.TotalWithTax, &o.Notes, &o.HubSyncedAt, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("order %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

// MarkHubSynced records the moment the order was relayed to the external
// order-management backend.
func (r *Repository) MarkHubSynced(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET hub_synced_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("mark order synced: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark order synced: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("order %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

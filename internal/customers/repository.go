package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tagteamprinting/printquote/internal/httpx"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const customerColumns = `id, name, email, COALESCE(phone, ''), COALESCE(company, ''), COALESCE(notes, ''), created_at, updated_at`

func (r *Repository) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (name, email, phone, company, notes)
		VALUES (?, ?, ?, ?, ?)
	`, req.Name, strings.ToLower(req.Email), req.Phone, req.Company, req.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email already registered: %w", httpx.ErrConflict)
		}
		return nil, fmt.Errorf("insert customer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read customer id: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Get(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}
	return &c, nil
}

func (r *Repository) List(ctx context.Context, query string) ([]Customer, error) {
	search := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE (? = '' OR name LIKE ? OR email LIKE ? OR COALESCE(company, '') LIKE ?)
		ORDER BY name ASC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	return customers, nil
}

func (r *Repository) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	assignments := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if req.Name != nil {
		assignments = append(assignments, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Email != nil {
		assignments = append(assignments, "email = ?")
		args = append(args, strings.ToLower(*req.Email))
	}
	if req.Phone != nil {
		assignments = append(assignments, "phone = ?")
		args = append(args, *req.Phone)
	}
	if req.Company != nil {
		assignments = append(assignments, "company = ?")
		args = append(args, *req.Company)
	}
	if req.Notes != nil {
		assignments = append(assignments, "notes = ?")
		args = append(args, *req.Notes)
	}
	if len(assignments) == 0 {
		return r.Get(ctx, id)
	}

	assignments = append(assignments, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET `+strings.Join(assignments, ", ")+` WHERE id = ?
	`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email already registered: %w", httpx.ErrConflict)
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("customer %d: %w", id, httpx.ErrNotFound)
	}

	return r.Get(ctx, id)
}

// isUniqueViolation matches the sqlite unique-constraint error without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

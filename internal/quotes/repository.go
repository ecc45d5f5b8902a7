package quotes

import (
	"context"
	"database/sql"
	"encoding/json"
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

// Insert stores the quote snapshot and returns its id.
func (r *Repository) Insert(ctx context.Context, q *Quote) (int64, error) {
	jobJSON, err := json.Marshal(q.Job)
	if err != nil {
		return 0, fmt.Errorf("marshal job: %w", err)
	}
	resultJSON, err := json.Marshal(q.Result)
	if err != nil {
		return 0, fmt.Errorf("marshal result: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO quotes (reference, title, notes, job_json, result_json, total)
		VALUES (?, ?, ?, ?, ?, ?)
	`, q.Reference, q.Title, q.Notes, string(jobJSON), string(resultJSON), q.Result.TotalWithTax)
	if err != nil {
		return 0, fmt.Errorf("insert quote: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read quote id: %w", err)
	}
	return id, nil
}

// Get loads one stored quote by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Quote, error) {
	var q Quote
	var jobJSON, resultJSON string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, reference, created_at, COALESCE(title, ''), COALESCE(notes, ''), job_json, result_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &q.Reference, &q.CreatedAt, &q.Title, &q.Notes, &jobJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quote %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query quote: %w", err)
	}

	if err := json.Unmarshal([]byte(jobJSON), &q.Job); err != nil {
		return nil, fmt.Errorf("unmarshal stored job: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &q.Result); err != nil {
		return nil, fmt.Errorf("unmarshal stored result: %w", err)
	}

	return &q, nil
}

// List returns quotes newest first, optionally filtered by a title/notes
// substring match.
func (r *Repository) List(ctx context.Context, query string) ([]ListItem, error) {
	search := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, reference, created_at, COALESCE(title, ''), total
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	items := make([]ListItem, 0)
	for rows.Next() {
		var item ListItem
		if err := rows.Scan(&item.ID, &item.Reference, &item.CreatedAt, &item.Title, &item.Total); err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote rows: %w", err)
	}

	return items, nil
}

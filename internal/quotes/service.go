package quotes

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tagteamprinting/printquote/internal/pricing"
)

// TablesLoader supplies the current pricing tables; the pricebook repository
// satisfies it.
type TablesLoader interface {
	Load(ctx context.Context) (pricing.Tables, error)
}

type Service struct {
	repo   *Repository
	tables TablesLoader
}

func NewService(repo *Repository, tables TablesLoader) *Service {
	return &Service{repo: repo, tables: tables}
}

// Create prices the submitted job and persists the snapshot. An invalid job
// (no garments or no colors) still returns a Quote carrying the rejection
// result but is never persisted; the caller checks Result.Valid.
func (s *Service) Create(ctx context.Context, title, notes string, wire map[string]any) (*Quote, error) {
	tables, err := s.tables.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pricing tables: %w", err)
	}

	job := pricing.FromWire(wire)
	result := pricing.Calculate(job, tables)

	q := &Quote{
		Reference: uuid.NewString(),
		Title:     title,
		Notes:     notes,
		Job:       job,
		Result:    result,
	}
	if !result.Valid {
		return q, nil
	}

	id, err := s.repo.Insert(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store quote: %w", err)
	}
	q.ID = id

	return q, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Quote, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, query string) ([]ListItem, error) {
	return s.repo.List(ctx, query)
}

// RenderText produces the plain-text customer-facing rendering of a stored
// quote, suitable for pasting into an email reply.
func RenderText(q *Quote) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Print Quote %s\n", q.Reference)
	if q.Title != "" {
		fmt.Fprintf(&b, "Job: %s\n", q.Title)
	}
	fmt.Fprintf(&b, "Date: %s\n\n", q.CreatedAt)

	fmt.Fprintf(&b, "Garments: %d", q.Job.GarmentQty)
	if q.Job.BrandName != "" {
		fmt.Fprintf(&b, " (%s)", q.Job.BrandName)
	}
	b.WriteString("\n")
	if q.Job.GarmentColor != "" {
		fmt.Fprintf(&b, "Garment color: %s\n", q.Job.GarmentColor)
	}
	if len(q.Job.InkColors) > 0 {
		fmt.Fprintf(&b, "Ink colors: %s\n", strings.Join(q.Job.InkColors, ", "))
	}
	fmt.Fprintf(&b, "Screens: %s\n", q.Result.ScreenBreakdown)
	if q.Job.LocationCount > 1 {
		fmt.Fprintf(&b, "Print locations: %d\n", q.Job.LocationCount)
	}
	if q.Job.RushOrder {
		b.WriteString("Rush order\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Screen setup:      %10.2f\n", q.Result.SetupTotal)
	fmt.Fprintf(&b, "Printing:          %10.2f\n", q.Result.PrintingTotal)
	fmt.Fprintf(&b, "Garments (each):   %10.2f\n", q.Result.GarmentUnitPrice)
	fmt.Fprintf(&b, "Subtotal:          %10.2f\n", q.Result.Subtotal)
	fmt.Fprintf(&b, "Total with tax:    %10.2f\n", q.Result.TotalWithTax)

	if q.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", q.Notes)
	}

	return b.String()
}

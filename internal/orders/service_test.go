package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/tagteamprinting/printquote/internal/customers"
	"github.com/tagteamprinting/printquote/internal/httpx"
	"github.com/tagteamprinting/printquote/internal/pricing"
	"github.com/tagteamprinting/printquote/internal/quotes"
)

type stubQuotes struct {
	byID map[int64]*quotes.Quote
}

func (s stubQuotes) Get(_ context.Context, id int64) (*quotes.Quote, error) {
	q, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("quote %d: %w", id, httpx.ErrNotFound)
	}
	return q, nil
}

type stubCustomers struct {
	byID map[int64]*customers.Customer
}

func (s stubCustomers) Get(_ context.Context, id int64) (*customers.Customer, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, httpx.ErrNotFound)
	}
	return c, nil
}

func newOrdersTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT NOT NULL UNIQUE,
			quote_id INTEGER NOT NULL,
			customer_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'new',
			rush_order BOOLEAN NOT NULL DEFAULT FALSE,
			subtotal REAL NOT NULL DEFAULT 0,
			total_with_tax REAL NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			hub_synced_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		t.Fatalf("failed creating orders table: %v", err)
	}
	return db
}

func newOrdersTestService(t *testing.T) *Service {
	t.Helper()

	validQuote := &quotes.Quote{
		ID:        1,
		Reference: "quote-ref",
		Job:       pricing.JobSpec{GarmentQty: 50, ColorCount: 2, RushOrder: true},
		Result: pricing.QuoteResult{
			Valid:        true,
			Subtotal:     2120,
			TotalWithTax: 2395.60,
		},
	}
	rejectedQuote := &quotes.Quote{
		ID:     2,
		Result: pricing.QuoteResult{Valid: false, Message: "You must select at least 1 garment and 1 print color."},
	}

	return NewService(
		NewRepository(newOrdersTestDB(t)),
		stubQuotes{byID: map[int64]*quotes.Quote{1: validQuote, 2: rejectedQuote}},
		stubCustomers{byID: map[int64]*customers.Customer{10: {ID: 10, Name: "Dana", Email: "dana@example.com"}}},
	)
}

func TestCreateSnapshotsQuoteTotals(t *testing.T) {
	service := newOrdersTestService(t)

	order, err := service.Create(context.Background(), CreateOrderRequest{
		QuoteID:    1,
		CustomerID: 10,
		Notes:      "deliver friday",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if order.Status != StatusNew {
		t.Fatalf("expected new order status, got %q", order.Status)
	}
	if order.Subtotal != 2120 || order.TotalWithTax != 2395.60 {
		t.Fatalf("quote totals were not snapshotted: %+v", order)
	}
	if !order.RushOrder {
		t.Fatal("expected rush flag carried over from the quote")
	}
	if order.Reference == "" {
		t.Fatal("expected a generated reference")
	}
	if order.HubSyncedAt != nil {
		t.Fatalf("new order should not be hub-synced, got %v", *order.HubSyncedAt)
	}
}

func TestCreateFromRejectedQuoteFails(t *testing.T) {
	service := newOrdersTestService(t)

	_, err := service.Create(context.Background(), CreateOrderRequest{QuoteID: 2, CustomerID: 10})
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected ErrValidation for rejected quote, got %v", err)
	}
}

func TestCreateWithUnknownQuoteOrCustomerFails(t *testing.T) {
	service := newOrdersTestService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, CreateOrderRequest{QuoteID: 99, CustomerID: 10})
	if !errors.Is(err, httpx.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown quote, got %v", err)
	}

	_, err = service.Create(ctx, CreateOrderRequest{QuoteID: 1, CustomerID: 99})
	if !errors.Is(err, httpx.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown customer, got %v", err)
	}
}

func TestUpdateStatusFollowsProductionFlow(t *testing.T) {
	service := newOrdersTestService(t)
	ctx := context.Background()

	order, err := service.Create(ctx, CreateOrderRequest{QuoteID: 1, CustomerID: 10})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	order, err = service.UpdateStatus(ctx, order.ID, StatusInProduction)
	if err != nil {
		t.Fatalf("UpdateStatus to in_production returned error: %v", err)
	}
	if order.Status != StatusInProduction {
		t.Fatalf("expected in_production, got %q", order.Status)
	}

	order, err = service.UpdateStatus(ctx, order.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus to completed returned error: %v", err)
	}
	if order.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q", order.Status)
	}

	// Completed is terminal.
	_, err = service.UpdateStatus(ctx, order.ID, StatusNew)
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected ErrValidation for reopening a completed order, got %v", err)
	}
}

func TestUpdateStatusRejectsSkippedStep(t *testing.T) {
	service := newOrdersTestService(t)
	ctx := context.Background()

	order, err := service.Create(ctx, CreateOrderRequest{QuoteID: 1, CustomerID: 10})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	_, err = service.UpdateStatus(ctx, order.ID, StatusCompleted)
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected ErrValidation for new -> completed, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	service := newOrdersTestService(t)
	ctx := context.Background()

	first, err := service.Create(ctx, CreateOrderRequest{QuoteID: 1, CustomerID: 10})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := service.Create(ctx, CreateOrderRequest{QuoteID: 1, CustomerID: 10}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := service.UpdateStatus(ctx, first.ID, StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	all, err := service.List(ctx, "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}

	cancelled, err := service.List(ctx, StatusCancelled)
	if err != nil {
		t.Fatalf("List status filter returned error: %v", err)
	}
	if len(cancelled) != 1 || cancelled[0].ID != first.ID {
		t.Fatalf("expected only the cancelled order, got %+v", cancelled)
	}
}

func TestMarkHubSyncedStampsOrder(t *testing.T) {
	service := newOrdersTestService(t)
	ctx := context.Background()

	order, err := service.Create(ctx, CreateOrderRequest{QuoteID: 1, CustomerID: 10})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	synced, err := service.MarkHubSynced(ctx, order.ID)
	if err != nil {
		t.Fatalf("MarkHubSynced returned error: %v", err)
	}
	if synced.HubSyncedAt == nil || *synced.HubSyncedAt == "" {
		t.Fatalf("expected hub_synced_at to be set, got %+v", synced)
	}
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusNew, StatusInProduction, true},
		{StatusNew, StatusCancelled, true},
		{StatusNew, StatusCompleted, false},
		{StatusInProduction, StatusCompleted, true},
		{StatusInProduction, StatusCancelled, true},
		{StatusInProduction, StatusNew, false},
		{StatusCompleted, StatusInProduction, false},
		{StatusCancelled, StatusNew, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

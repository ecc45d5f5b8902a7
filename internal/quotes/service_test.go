package quotes

import (
	"context"
	"strings"
	"testing"

	"github.com/tagteamprinting/printquote/internal/pricing"
)

type staticTables struct{}

func (staticTables) Load(context.Context) (pricing.Tables, error) {
	return pricing.DefaultTables(), nil
}

func TestCreatePersistsValidQuote(t *testing.T) {
	db := newQuotesTestDB(t)
	service := NewService(NewRepository(db), staticTables{})

	quote, err := service.Create(context.Background(), "Team shirts", "front print", map[string]any{
		"garmentQty":   float64(50),
		"colorCount":   float64(2),
		"garmentColor": "black",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if !quote.Result.Valid {
		t.Fatalf("expected a valid quote, got %+v", quote.Result)
	}
	if quote.ID <= 0 {
		t.Fatalf("expected persisted quote to carry an id, got %d", quote.ID)
	}
	if quote.Reference == "" {
		t.Fatal("expected a generated reference")
	}
	if quote.Result.TotalScreens != 3 {
		t.Fatalf("expected 2 colors on dark to need 3 screens, got %d", quote.Result.TotalScreens)
	}

	stored, err := service.Get(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.Result.TotalWithTax != quote.Result.TotalWithTax {
		t.Fatalf("stored total %v does not match created total %v",
			stored.Result.TotalWithTax, quote.Result.TotalWithTax)
	}
}

func TestCreateRejectedJobIsNotPersisted(t *testing.T) {
	db := newQuotesTestDB(t)
	service := NewService(NewRepository(db), staticTables{})

	quote, err := service.Create(context.Background(), "", "", map[string]any{
		"garmentQty": float64(0),
		"colorCount": float64(2),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if quote.Result.Valid {
		t.Fatalf("expected rejection, got %+v", quote.Result)
	}
	if quote.Result.Message != "You must select at least 1 garment and 1 print color." {
		t.Fatalf("unexpected rejection message: %q", quote.Result.Message)
	}
	if quote.ID != 0 {
		t.Fatalf("rejected quote should not be persisted, got id %d", quote.ID)
	}

	items, err := service.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty quote list, got %+v", items)
	}
}

func TestRenderTextIncludesTotalsAndScreens(t *testing.T) {
	q := &Quote{
		Reference: "ref-123",
		CreatedAt: "2024-05-01 09:00:00",
		Title:     "Festival tees",
		Notes:     "deliver by friday",
		Job: pricing.JobSpec{
			GarmentQty:   24,
			ColorCount:   1,
			GarmentColor: "black",
			InkColors:    []string{"white"},
			BrandName:    "Gildan",
			RushOrder:    true,
		},
		Result: pricing.QuoteResult{
			Valid:           true,
			TotalScreens:    1,
			ScreenBreakdown: "1 color (white ink) = 1 screen",
			SetupTotal:      30,
			PrintingTotal:   14.40,
			Subtotal:        200,
			TotalWithTax:    226,
		},
	}

	text := RenderText(q)

	for _, want := range []string{
		"Print Quote ref-123",
		"Job: Festival tees",
		"Garments: 24 (Gildan)",
		"Ink colors: white",
		"Screens: 1 color (white ink) = 1 screen",
		"Rush order",
		"Total with tax:",
		"226.00",
		"Notes: deliver by friday",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered text missing %q:\n%s", want, text)
		}
	}
}

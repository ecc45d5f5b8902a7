package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/tagteamprinting/printquote/internal/db"
	"github.com/tagteamprinting/printquote/internal/migrations"
)

// 1 config row + 7 premium brackets + 7 quality brackets + 10 sizes + 4 brands
const firstRunInserts = 29

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	for i := 0; i < 5; i++ {
		stats, err := Run(database)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != firstRunInserts {
				t.Fatalf("expected %d inserts in first run, got %d", firstRunInserts, stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM pricing_config WHERE id = 1`, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM price_tiers WHERE tier = 'premium'`, 7)
	assertCount(t, database, `SELECT COUNT(*) FROM price_tiers WHERE tier = 'quality'`, 7)
	assertCount(t, database, `SELECT COUNT(*) FROM size_surcharges`, 10)
	assertCount(t, database, `SELECT COUNT(*) FROM premium_brands`, 4)
}

func TestRunKeepsAdminEdits(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-edit-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := Run(database); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	if _, err := database.Exec(`UPDATE pricing_config SET screen_fee = 35 WHERE id = 1`); err != nil {
		t.Fatalf("edit screen fee: %v", err)
	}

	if _, err := Run(database); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	var fee float64
	if err := database.QueryRow(`SELECT screen_fee FROM pricing_config WHERE id = 1`).Scan(&fee); err != nil {
		t.Fatalf("query screen fee: %v", err)
	}
	if fee != 35 {
		t.Fatalf("expected admin edit to survive re-seed, got fee %v", fee)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, expected int) {
	t.Helper()

	var count int
	if err := database.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d (query: %s)", expected, count, query)
	}
}

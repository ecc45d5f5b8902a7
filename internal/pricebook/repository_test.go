package pricebook

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/tagteamprinting/printquote/internal/migrations"
	"github.com/tagteamprinting/printquote/internal/pricing"
	"github.com/tagteamprinting/printquote/internal/seed"
)

func newPricebookTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "pricebook_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Up(db, "../../migrations"))
	_, err = seed.Run(db)
	require.NoError(t, err)

	return db
}

func TestLoadAfterSeedMatchesDefaults(t *testing.T) {
	repo := NewRepository(newPricebookTestDB(t))
	defaults := pricing.DefaultTables()

	tables, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, defaults.ScreenFee, tables.ScreenFee)
	assert.Equal(t, defaults.TaxRate, tables.TaxRate)
	assert.Equal(t, defaults.FallbackWholesale, tables.FallbackWholesale)
	assert.Equal(t, defaults.PrintCostPerScreen, tables.PrintCostPerScreen)
	assert.Equal(t, defaults.PremiumWholesaleMin, tables.PremiumWholesaleMin)
	assert.Equal(t, defaults.QualityWholesaleMin, tables.QualityWholesaleMin)
	assert.Equal(t, defaults.LowCostMax, tables.LowCostMax)
	assert.Equal(t, defaults.MidRangeMax, tables.MidRangeMax)
	assert.Equal(t, defaults.PremiumTier, tables.PremiumTier)
	assert.Equal(t, defaults.QualityTier, tables.QualityTier)
	assert.Equal(t, defaults.SizeSurcharges, tables.SizeSurcharges)
	assert.ElementsMatch(t, defaults.PremiumBrands, tables.PremiumBrands)
}

func TestLoadUnseededDatabaseFallsBackToDefaults(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "empty_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Up(db, "../../migrations"))

	tables, err := NewRepository(db).Load(context.Background())
	require.NoError(t, err)

	defaults := pricing.DefaultTables()
	assert.Equal(t, defaults.ScreenFee, tables.ScreenFee)
	assert.Equal(t, defaults.PremiumTier, tables.PremiumTier)
}

func TestSaveConfigRoundTrips(t *testing.T) {
	repo := NewRepository(newPricebookTestDB(t))

	tables, err := repo.Load(context.Background())
	require.NoError(t, err)

	tables.ScreenFee = 35
	tables.TaxRate = 0.15
	require.NoError(t, repo.SaveConfig(context.Background(), tables))

	reloaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 35.0, reloaded.ScreenFee)
	assert.Equal(t, 0.15, reloaded.TaxRate)
	assert.Equal(t, tables.PremiumTier, reloaded.PremiumTier)
}

func TestReplaceTiersSwapsBracketsAtomically(t *testing.T) {
	repo := NewRepository(newPricebookTestDB(t))

	rows := []pricing.TierRow{
		{MinQty: 1, MaxQty: 47, UnitPrice: 18.00},
		{MinQty: 48, MaxQty: 0, UnitPrice: 12.00},
	}
	require.NoError(t, repo.ReplaceTiers(context.Background(), "premium", rows))

	tables, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, tables.PremiumTier)

	// The other tier table is untouched.
	assert.Equal(t, pricing.DefaultTables().QualityTier, tables.QualityTier)
}

package seed

import (
	"database/sql"
	"fmt"

	"github.com/tagteamprinting/printquote/internal/pricing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run loads the default pricebook into an empty database. It is idempotent:
// existing rows are never touched, so admin edits survive restarts.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	defaults := pricing.DefaultTables()

	if err := ensurePricingConfig(tx, defaults, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureTier(tx, "premium", defaults.PremiumTier, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureTier(tx, "quality", defaults.QualityTier, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureSizeSurcharges(tx, defaults, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensurePremiumBrands(tx, defaults, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensurePricingConfig(tx *sql.Tx, defaults pricing.Tables, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM pricing_config WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check pricing config existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO pricing_config (
			id,
			screen_fee,
			tax_rate,
			fallback_wholesale,
			print_cost_per_screen,
			premium_wholesale_min,
			quality_wholesale_min,
			low_cost_max,
			low_cost_multiplier,
			mid_range_max,
			mid_range_multiplier,
			premium_multiplier
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		defaults.ScreenFee,
		defaults.TaxRate,
		defaults.FallbackWholesale,
		defaults.PrintCostPerScreen,
		defaults.PremiumWholesaleMin,
		defaults.QualityWholesaleMin,
		defaults.LowCostMax,
		defaults.LowCostMultiplier,
		defaults.MidRangeMax,
		defaults.MidRangeMultiplier,
		defaults.PremiumMultiplier,
	); err != nil {
		return fmt.Errorf("insert pricing config singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureTier(tx *sql.Tx, tier string, rows []pricing.TierRow, stats *Stats) error {
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM price_tiers WHERE tier = ?`, tier).Scan(&count); err != nil {
		return fmt.Errorf("check %s tier existence: %w", tier, err)
	}
	if count > 0 {
		return nil
	}

	for _, row := range rows {
		if _, err := tx.Exec(`
			INSERT INTO price_tiers (tier, min_qty, max_qty, unit_price)
			VALUES (?, ?, ?, ?)
		`, tier, row.MinQty, row.MaxQty, row.UnitPrice); err != nil {
			return fmt.Errorf("insert %s tier row: %w", tier, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureSizeSurcharges(tx *sql.Tx, defaults pricing.Tables, stats *Stats) error {
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM size_surcharges`).Scan(&count); err != nil {
		return fmt.Errorf("check size surcharges existence: %w", err)
	}
	if count > 0 {
		return nil
	}

	for order, size := range pricing.SizeOrder {
		if _, err := tx.Exec(`
			INSERT INTO size_surcharges (size, surcharge, sort_order)
			VALUES (?, ?, ?)
		`, size, defaults.SizeSurcharges[size], order); err != nil {
			return fmt.Errorf("insert size surcharge %s: %w", size, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensurePremiumBrands(tx *sql.Tx, defaults pricing.Tables, stats *Stats) error {
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM premium_brands`).Scan(&count); err != nil {
		return fmt.Errorf("check premium brands existence: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, pattern := range defaults.PremiumBrands {
		if _, err := tx.Exec(`INSERT INTO premium_brands (pattern) VALUES (?)`, pattern); err != nil {
			return fmt.Errorf("insert premium brand %q: %w", pattern, err)
		}
		stats.Inserts++
	}
	return nil
}

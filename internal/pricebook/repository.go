package pricebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tagteamprinting/printquote/internal/pricing"
)

// Repository persists the pricing tables the calculator reads. The pricebook
// is small enough to load whole on every quote.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Load assembles a pricing.Tables from the database. A database that was
// never seeded yields the shop defaults so quoting keeps working.
func (r *Repository) Load(ctx context.Context) (pricing.Tables, error) {
	tables := pricing.Tables{}

	err := r.db.QueryRowContext(ctx, `
		SELECT screen_fee, tax_rate, fallback_wholesale, print_cost_per_screen,
		       premium_wholesale_min, quality_wholesale_min,
		       low_cost_max, low_cost_multiplier,
		       mid_range_max, mid_range_multiplier, premium_multiplier
		FROM pricing_config
		WHERE id = 1
	`).Scan(
		&tables.ScreenFee,
		&tables.TaxRate,
		&tables.FallbackWholesale,
		&tables.PrintCostPerScreen,
		&tables.PremiumWholesaleMin,
		&tables.QualityWholesaleMin,
		&tables.LowCostMax,
		&tables.LowCostMultiplier,
		&tables.MidRangeMax,
		&tables.MidRangeMultiplier,
		&tables.PremiumMultiplier,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.DefaultTables(), nil
	}
	if err != nil {
		return pricing.Tables{}, fmt.Errorf("query pricing config: %w", err)
	}

	if tables.PremiumTier, err = r.loadTier(ctx, "premium"); err != nil {
		return pricing.Tables{}, err
	}
	if tables.QualityTier, err = r.loadTier(ctx, "quality"); err != nil {
		return pricing.Tables{}, err
	}
	if tables.SizeSurcharges, err = r.loadSurcharges(ctx); err != nil {
		return pricing.Tables{}, err
	}
	if tables.PremiumBrands, err = r.loadBrands(ctx); err != nil {
		return pricing.Tables{}, err
	}

	return tables, nil
}

func (r *Repository) loadTier(ctx context.Context, tier string) ([]pricing.TierRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT min_qty, max_qty, unit_price
		FROM price_tiers
		WHERE tier = ?
		ORDER BY min_qty ASC
	`, tier)
	if err != nil {
		return nil, fmt.Errorf("query %s tier: %w", tier, err)
	}
	defer rows.Close()

	var result []pricing.TierRow
	for rows.Next() {
		var row pricing.TierRow
		if err := rows.Scan(&row.MinQty, &row.MaxQty, &row.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan %s tier row: %w", tier, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s tier rows: %w", tier, err)
	}

	return result, nil
}

func (r *Repository) loadSurcharges(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT size, surcharge FROM size_surcharges`)
	if err != nil {
		return nil, fmt.Errorf("query size surcharges: %w", err)
	}
	defer rows.Close()

	surcharges := make(map[string]float64)
	for rows.Next() {
		var size string
		var surcharge float64
		if err := rows.Scan(&size, &surcharge); err != nil {
			return nil, fmt.Errorf("scan size surcharge: %w", err)
		}
		surcharges[size] = surcharge
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate size surcharges: %w", err)
	}

	return surcharges, nil
}

func (r *Repository) loadBrands(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT pattern FROM premium_brands ORDER BY pattern ASC`)
	if err != nil {
		return nil, fmt.Errorf("query premium brands: %w", err)
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var pattern string
		if err := rows.Scan(&pattern); err != nil {
			return nil, fmt.Errorf("scan premium brand: %w", err)
		}
		brands = append(brands, pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate premium brands: %w", err)
	}

	return brands, nil
}

// SaveConfig updates the scalar rates of the pricing_config singleton.
func (r *Repository) SaveConfig(ctx context.Context, tables pricing.Tables) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE pricing_config
		SET
			screen_fee = ?,
			tax_rate = ?,
			fallback_wholesale = ?,
			print_cost_per_screen = ?,
			premium_wholesale_min = ?,
			quality_wholesale_min = ?,
			low_cost_max = ?,
			low_cost_multiplier = ?,
			mid_range_max = ?,
			mid_range_multiplier = ?,
			premium_multiplier = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`,
		tables.ScreenFee,
		tables.TaxRate,
		tables.FallbackWholesale,
		tables.PrintCostPerScreen,
		tables.PremiumWholesaleMin,
		tables.QualityWholesaleMin,
		tables.LowCostMax,
		tables.LowCostMultiplier,
		tables.MidRangeMax,
		tables.MidRangeMultiplier,
		tables.PremiumMultiplier,
	)
	if err != nil {
		return fmt.Errorf("update pricing config: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pricing config: %w", err)
	}
	if affected == 0 {
		return errors.New("pricing config singleton not found")
	}

	return nil
}

// ReplaceTiers swaps out every bracket of one tier table atomically.
func (r *Repository) ReplaceTiers(ctx context.Context, tier string, rows []pricing.TierRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tier replacement: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_tiers WHERE tier = ?`, tier); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear %s tier: %w", tier, err)
	}
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO price_tiers (tier, min_qty, max_qty, unit_price)
			VALUES (?, ?, ?, ?)
		`, tier, row.MinQty, row.MaxQty, row.UnitPrice); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s tier row: %w", tier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tier replacement: %w", err)
	}

	return nil
}

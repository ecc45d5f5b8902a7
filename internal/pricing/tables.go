package pricing

// TierRow is one quantity bracket of a blank-garment price table.
// MaxQty = 0 marks the open-ended terminal bracket.
type TierRow struct {
	MinQty    int     `json:"min_qty"`
	MaxQty    int     `json:"max_qty"`
	UnitPrice float64 `json:"unit_price"`
}

// Tables holds every rate and lookup the calculator reads. The decision logic
// never hard-codes a price: tables are loaded from the pricebook (or
// DefaultTables for tests and seeding) and passed in per calculation.
type Tables struct {
	ScreenFee          float64 `json:"screen_fee"`
	TaxRate            float64 `json:"tax_rate"`
	FallbackWholesale  float64 `json:"fallback_wholesale"`
	PrintCostPerScreen float64 `json:"print_cost_per_screen"`

	// Wholesale cutoffs selecting the quantity-tier tables.
	PremiumWholesaleMin float64 `json:"premium_wholesale_min"`
	QualityWholesaleMin float64 `json:"quality_wholesale_min"`

	PremiumTier []TierRow `json:"premium_tier"`
	QualityTier []TierRow `json:"quality_tier"`

	// Legacy multiplier bands for wholesale costs outside the tier tables.
	LowCostMax         float64 `json:"low_cost_max"`
	LowCostMultiplier  float64 `json:"low_cost_multiplier"`
	MidRangeMax        float64 `json:"mid_range_max"`
	MidRangeMultiplier float64 `json:"mid_range_multiplier"`
	PremiumMultiplier  float64 `json:"premium_multiplier"`

	// Per-size additive adjustment applied to the wholesale price.
	SizeSurcharges map[string]float64 `json:"size_surcharges"`

	// Brand name substrings that force the premium blank tier.
	PremiumBrands []string `json:"premium_brands"`
}

// SizeOrder is the canonical garment size ordering for display.
var SizeOrder = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL", "4XL", "5XL", "6XL"}

// DefaultTables returns the shop's standard rates.
func DefaultTables() Tables {
	return Tables{
		ScreenFee:          30.00,
		TaxRate:            0.13,
		FallbackWholesale:  25.00,
		PrintCostPerScreen: 0.60,

		PremiumWholesaleMin: 7.00,
		QualityWholesaleMin: 4.30,

		PremiumTier: []TierRow{
			{MinQty: 1, MaxQty: 11, UnitPrice: 19.95},
			{MinQty: 12, MaxQty: 23, UnitPrice: 16.95},
			{MinQty: 24, MaxQty: 47, UnitPrice: 14.95},
			{MinQty: 48, MaxQty: 71, UnitPrice: 12.95},
			{MinQty: 72, MaxQty: 143, UnitPrice: 11.95},
			{MinQty: 144, MaxQty: 287, UnitPrice: 10.95},
			{MinQty: 288, MaxQty: 0, UnitPrice: 9.95},
		},
		QualityTier: []TierRow{
			{MinQty: 1, MaxQty: 11, UnitPrice: 14.95},
			{MinQty: 12, MaxQty: 23, UnitPrice: 12.95},
			{MinQty: 24, MaxQty: 47, UnitPrice: 10.95},
			{MinQty: 48, MaxQty: 71, UnitPrice: 9.95},
			{MinQty: 72, MaxQty: 143, UnitPrice: 8.95},
			{MinQty: 144, MaxQty: 287, UnitPrice: 7.95},
			{MinQty: 288, MaxQty: 0, UnitPrice: 6.95},
		},

		LowCostMax:         4.25,
		LowCostMultiplier:  2.5,
		MidRangeMax:        6.99,
		MidRangeMultiplier: 2.0,
		PremiumMultiplier:  1.6,

		SizeSurcharges: map[string]float64{
			"XS": 0, "S": 0, "M": 0, "L": 0, "XL": 0,
			"XXL": 2, "XXXL": 4, "4XL": 6, "5XL": 8, "6XL": 10,
		},

		PremiumBrands: []string{"bella", "canvas", "as colour", "next level"},
	}
}

// lookupTier returns the bracket price matching qty, or false when no
// bracket matches (only possible with a broken table).
func lookupTier(rows []TierRow, qty int) (float64, bool) {
	for _, row := range rows {
		if qty < row.MinQty {
			continue
		}
		if row.MaxQty == 0 || qty <= row.MaxQty {
			return row.UnitPrice, true
		}
	}
	return 0, false
}

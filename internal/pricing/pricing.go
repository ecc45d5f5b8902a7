package pricing

import (
	"fmt"
	"math"
	"strings"
)

// JobSpec describes one print job to be quoted. It is constructed per request
// and never mutated by the calculator.
type JobSpec struct {
	GarmentQty            int      `json:"garmentQty"`
	ColorCount            int      `json:"colorCount"`
	LocationCount         int      `json:"locationCount"`
	GarmentColor          string   `json:"garmentColor"`
	InkColors             []string `json:"inkColors"`
	NeedsUnderbase        *bool    `json:"needsUnderbase"`
	GarmentWholesalePrice float64  `json:"garmentWholesalePrice"`
	BrandName             string   `json:"brandName"`
	Size                  string   `json:"size"`

	// Pass-through modifiers: rush flags downstream order handling, the rest
	// are carried for forward compatibility and do not affect pricing.
	RushOrder        bool    `json:"rushOrder"`
	IsPremiumInk     bool    `json:"isPremiumInk"`
	PolyesterPercent float64 `json:"polyesterPercent"`
}

// QuoteResult is the computed quote. It has no identity of its own and is
// recomputed fresh on every call.
type QuoteResult struct {
	Valid            bool    `json:"valid"`
	Message          string  `json:"message,omitempty"`
	NeedsUnderbase   bool    `json:"needsUnderbase"`
	TotalScreens     int     `json:"totalScreens"`
	SetupTotal       float64 `json:"setupTotal"`
	ScreenBreakdown  string  `json:"screenBreakdown"`
	GarmentUnitPrice float64 `json:"garmentUnitPrice"`
	PrintingTotal    float64 `json:"printingTotal"`
	Subtotal         float64 `json:"subtotal"`
	TotalWithTax     float64 `json:"totalWithTax"`
}

const invalidJobMessage = "You must select at least 1 garment and 1 print color."

// Garment colors that print without an underbase. Everything else is treated
// as dark unless the caller overrides.
var lightGarmentColors = map[string]bool{
	"white":      true,
	"yellow":     true,
	"light-grey": true,
	"light-gray": true,
	"natural":    true,
	"cream":      true,
	"beige":      true,
}

// Calculate produces a quote for job using the given rate tables. It is a
// pure function: no I/O, no mutation of inputs, same output for same input.
func Calculate(job JobSpec, tables Tables) QuoteResult {
	if job.GarmentQty < 1 || job.ColorCount < 1 {
		return QuoteResult{Valid: false, Message: invalidJobMessage}
	}

	locations := job.LocationCount
	if locations < 1 {
		locations = 1
	}

	dark := !lightGarmentColors[strings.ToLower(strings.TrimSpace(job.GarmentColor))]
	underbase := dark
	if job.NeedsUnderbase != nil {
		underbase = *job.NeedsUnderbase
	}

	var screens int
	var breakdown string
	switch {
	case dark && job.ColorCount == 1 && whiteInkOnly(job.InkColors):
		// A single white print on a dark garment is its own coverage layer.
		// This wins over an explicit needsUnderbase override on purpose.
		screens = 1
		underbase = false
		breakdown = "1 color (white ink) = 1 screen"
	case underbase:
		screens = job.ColorCount + 1
		breakdown = fmt.Sprintf("%s + underbase = %s", colorPhrase(job.ColorCount), screenPhrase(screens))
	default:
		screens = job.ColorCount
		breakdown = fmt.Sprintf("%s = %s", colorPhrase(job.ColorCount), screenPhrase(screens))
	}

	setupTotal := float64(screens) * float64(locations) * tables.ScreenFee
	unitPrice := garmentUnitPrice(job, tables)

	printPerUnit := float64(screens) * float64(locations) * tables.PrintCostPerScreen
	printingTotal := printPerUnit * float64(job.GarmentQty)
	garmentTotal := unitPrice * float64(job.GarmentQty)

	// Full precision until here; round only when assembling the result.
	subtotal := setupTotal + printingTotal + garmentTotal
	totalWithTax := subtotal * (1 + tables.TaxRate)

	return QuoteResult{
		Valid:            true,
		NeedsUnderbase:   underbase,
		TotalScreens:     screens,
		SetupTotal:       round2(setupTotal),
		ScreenBreakdown:  breakdown,
		GarmentUnitPrice: round2(unitPrice),
		PrintingTotal:    round2(printingTotal),
		Subtotal:         round2(subtotal),
		TotalWithTax:     round2(totalWithTax),
	}
}

// whiteInkOnly reports whether every named ink is white or opaque white.
// An empty ink list does not count.
func whiteInkOnly(inks []string) bool {
	if len(inks) == 0 {
		return false
	}
	for _, ink := range inks {
		if !strings.Contains(strings.ToLower(ink), "white") {
			return false
		}
	}
	return true
}

// garmentUnitPrice computes the retail price for one blank garment using
// either the quantity-tier tables or the legacy wholesale multipliers.
func garmentUnitPrice(job JobSpec, tables Tables) float64 {
	wholesale := job.GarmentWholesalePrice
	if wholesale < 0 {
		wholesale = 0
	}
	if wholesale > 0 {
		if surcharge, ok := tables.SizeSurcharges[normalizeSize(job.Size)]; ok {
			wholesale += surcharge
		}
	}

	if isPremiumBrand(job.BrandName, tables.PremiumBrands) || wholesale >= tables.PremiumWholesaleMin {
		if price, ok := lookupTier(tables.PremiumTier, job.GarmentQty); ok {
			return price
		}
	} else if wholesale >= tables.QualityWholesaleMin {
		if price, ok := lookupTier(tables.QualityTier, job.GarmentQty); ok {
			return price
		}
	}

	if wholesale <= 0 {
		wholesale = tables.FallbackWholesale
	}
	switch {
	case wholesale <= tables.LowCostMax:
		return wholesale * tables.LowCostMultiplier
	case wholesale <= tables.MidRangeMax:
		return wholesale * tables.MidRangeMultiplier
	default:
		return wholesale * tables.PremiumMultiplier
	}
}

func isPremiumBrand(brand string, patterns []string) bool {
	if brand == "" {
		return false
	}
	lowered := strings.ToLower(brand)
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

func normalizeSize(size string) string {
	return strings.ToUpper(strings.TrimSpace(size))
}

func colorPhrase(n int) string {
	if n == 1 {
		return "1 color"
	}
	return fmt.Sprintf("%d colors", n)
}

func screenPhrase(n int) string {
	if n == 1 {
		return "1 screen"
	}
	return fmt.Sprintf("%d screens", n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package pricing

import (
	"strconv"
	"strings"
)

// FromWire builds a JobSpec from a decoded JSON object. Every field is
// coerced with a permissive default so the calculator stays total over any
// JSON-representable input: a bad value degrades the estimate instead of
// failing the request.
func FromWire(m map[string]any) JobSpec {
	return JobSpec{
		GarmentQty:            coerceInt(m["garmentQty"], 1),
		ColorCount:            coerceInt(m["colorCount"], 1),
		LocationCount:         coerceInt(m["locationCount"], 1),
		GarmentColor:          coerceString(m["garmentColor"]),
		InkColors:             coerceStrings(m["inkColors"]),
		NeedsUnderbase:        coerceBool(m["needsUnderbase"]),
		GarmentWholesalePrice: coerceFloat(m["garmentWholesalePrice"], 0),
		BrandName:             coerceString(m["brandName"]),
		Size:                  coerceString(m["size"]),
		RushOrder:             coerceFlag(m["rushOrder"]),
		IsPremiumInk:          coerceFlag(m["isPremiumInk"]),
		PolyesterPercent:      coerceFloat(m["polyesterPercent"], 0),
	}
}

// coerceFloat is the one numeric-parsing rule for job input: numbers pass
// through, numeric strings are parsed, everything else (including parse
// failures) becomes def.
func coerceFloat(v any, def float64) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

func coerceInt(v any, def int) int {
	f := coerceFloat(v, float64(def))
	return int(f)
}

// coerceBool returns nil unless the value is an actual boolean or one of the
// usual string spellings, preserving the tri-state needsUnderbase override.
func coerceBool(v any) *bool {
	switch val := v.(type) {
	case bool:
		b := val
		return &b
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "1":
			b := true
			return &b
		case "false", "no", "0":
			b := false
			return &b
		}
	}
	return nil
}

func coerceFlag(v any) bool {
	b := coerceBool(v)
	return b != nil && *b
}

func coerceString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

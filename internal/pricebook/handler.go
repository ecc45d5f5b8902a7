package pricebook

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tagteamprinting/printquote/internal/httpx"
	"github.com/tagteamprinting/printquote/internal/pricing"
)

type Handler struct {
	logger   *slog.Logger
	repo     *Repository
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, repo *Repository) *Handler {
	return &Handler{
		logger:   logger,
		repo:     repo,
		validate: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/pricebook", h.Show)
	r.Put("/pricebook/config", h.UpdateConfig)
	r.Put("/pricebook/tiers", h.ReplaceTiers)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	tables, err := h.repo.Load(r.Context())
	if err != nil {
		h.logger.Error("load pricebook failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tables)
}

// UpdateConfigRequest carries the scalar rates of the pricebook.
type UpdateConfigRequest struct {
	ScreenFee           float64 `json:"screen_fee" validate:"gt=0"`
	TaxRate             float64 `json:"tax_rate" validate:"gte=0,lt=1"`
	FallbackWholesale   float64 `json:"fallback_wholesale" validate:"gt=0"`
	PrintCostPerScreen  float64 `json:"print_cost_per_screen" validate:"gte=0"`
	PremiumWholesaleMin float64 `json:"premium_wholesale_min" validate:"gt=0"`
	QualityWholesaleMin float64 `json:"quality_wholesale_min" validate:"gt=0"`
	LowCostMax          float64 `json:"low_cost_max" validate:"gt=0"`
	LowCostMultiplier   float64 `json:"low_cost_multiplier" validate:"gte=1"`
	MidRangeMax         float64 `json:"mid_range_max" validate:"gt=0"`
	MidRangeMultiplier  float64 `json:"mid_range_multiplier" validate:"gte=1"`
	PremiumMultiplier   float64 `json:"premium_multiplier" validate:"gte=1"`
}

func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	tables := pricing.Tables{
		ScreenFee:           req.ScreenFee,
		TaxRate:             req.TaxRate,
		FallbackWholesale:   req.FallbackWholesale,
		PrintCostPerScreen:  req.PrintCostPerScreen,
		PremiumWholesaleMin: req.PremiumWholesaleMin,
		QualityWholesaleMin: req.QualityWholesaleMin,
		LowCostMax:          req.LowCostMax,
		LowCostMultiplier:   req.LowCostMultiplier,
		MidRangeMax:         req.MidRangeMax,
		MidRangeMultiplier:  req.MidRangeMultiplier,
		PremiumMultiplier:   req.PremiumMultiplier,
	}
	if err := h.repo.SaveConfig(r.Context(), tables); err != nil {
		h.logger.Error("save pricing config failed", "error", err)
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("pricing config updated")
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ReplaceTiersRequest replaces every bracket of one tier table.
type ReplaceTiersRequest struct {
	Tier string           `json:"tier" validate:"required,oneof=premium quality"`
	Rows []TierRowRequest `json:"rows" validate:"required,min=1,dive"`
}

type TierRowRequest struct {
	MinQty    int     `json:"min_qty" validate:"gte=1"`
	MaxQty    int     `json:"max_qty" validate:"gte=0"`
	UnitPrice float64 `json:"unit_price" validate:"gt=0"`
}

func (h *Handler) ReplaceTiers(w http.ResponseWriter, r *http.Request) {
	var req ReplaceTiersRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rows := make([]pricing.TierRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, pricing.TierRow{MinQty: row.MinQty, MaxQty: row.MaxQty, UnitPrice: row.UnitPrice})
	}
	if err := validateBrackets(rows); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.repo.ReplaceTiers(r.Context(), req.Tier, rows); err != nil {
		h.logger.Error("replace price tiers failed", "tier", req.Tier, "error", err)
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("price tiers replaced", "tier", req.Tier, "rows", len(rows))
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// validateBrackets checks that rows form an ordered, non-overlapping table
// that starts at qty 1 and ends with an open bracket.
func validateBrackets(rows []pricing.TierRow) error {
	if rows[0].MinQty != 1 {
		return fmt.Errorf("first bracket must start at quantity 1")
	}
	for i, row := range rows {
		last := i == len(rows)-1
		if last {
			if row.MaxQty != 0 {
				return fmt.Errorf("last bracket must be open-ended (max_qty = 0)")
			}
			continue
		}
		if row.MaxQty < row.MinQty {
			return fmt.Errorf("bracket %d-%d is inverted", row.MinQty, row.MaxQty)
		}
		if rows[i+1].MinQty != row.MaxQty+1 {
			return fmt.Errorf("bracket after %d-%d must start at %d", row.MinQty, row.MaxQty, row.MaxQty+1)
		}
	}
	return nil
}

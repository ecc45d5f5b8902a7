package quotes

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/tagteamprinting/printquote/internal/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	// The quote endpoint is the public storefront surface; cap per-IP volume.
	limiter := httprate.Limit(30, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))
	r.With(limiter).Post("/quotes", h.Create)

	r.Get("/quotes", h.List)
	r.Get("/quotes/{id}", h.Show)
	r.Get("/quotes/{id}/text", h.Text)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	// Decode into a plain map: job fields are coerced with permissive
	// defaults rather than rejected, so any JSON object quotes something.
	var body map[string]any
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	title, _ := body["title"].(string)
	notes, _ := body["notes"].(string)

	quote, err := h.service.Create(r.Context(), strings.TrimSpace(title), strings.TrimSpace(notes), body)
	if err != nil {
		h.logger.Error("create quote failed", "error", err)
		httpx.RespondError(w, err)
		return
	}

	if !quote.Result.Valid {
		httpx.JSON(w, http.StatusOK, quote.Result)
		return
	}

	h.logger.Info("quote created",
		"quote_id", quote.ID,
		"reference", quote.Reference,
		"screens", quote.Result.TotalScreens,
		"total", quote.Result.TotalWithTax,
	)
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	items, err := h.service.List(r.Context(), query)
	if err != nil {
		h.logger.Error("list quotes failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	quote, ok := h.loadQuote(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) Text(w http.ResponseWriter, r *http.Request) {
	quote, ok := h.loadQuote(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(RenderText(quote)))
}

func (h *Handler) loadQuote(w http.ResponseWriter, r *http.Request) (*Quote, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Quote ID", "")
		return nil, false
	}

	quote, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get quote failed", "quote_id", id, "error", err)
		httpx.RespondError(w, err)
		return nil, false
	}
	return quote, true
}

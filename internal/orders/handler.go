package orders

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tagteamprinting/printquote/internal/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Get("/orders", h.List)
	r.Get("/orders/{id}", h.Show)
	r.Post("/orders/{id}/status", h.UpdateStatus)
	r.Post("/orders/{id}/hub-sync", h.HubSync)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	order, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create order failed", "quote_id", req.QuoteID, "error", err)
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("order created",
		"order_id", order.ID,
		"reference", order.Reference,
		"rush", order.RushOrder,
		"total", order.TotalWithTax,
	)
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := Status(strings.TrimSpace(r.URL.Query().Get("status")))
	orders, err := h.service.List(r.Context(), status)
	if err != nil {
		h.logger.Error("list orders failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("update order status failed", "order_id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("order status updated", "order_id", id, "status", order.Status)
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) HubSync(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	order, err := h.service.MarkHubSynced(r.Context(), id)
	if err != nil {
		h.logger.Error("mark order hub-synced failed", "order_id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("order hub-synced", "order_id", id)
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Order ID", "")
		return 0, false
	}
	return id, true
}

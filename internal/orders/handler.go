package orders

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/minimart-pos/minimart-pos/internal/platform/httpx"
	"github.com/minimart-pos/minimart-pos/internal/shared"
	"github.com/minimart-pos/minimart-pos/internal/users"
)

// Handler wires HTTP endpoints for the order lifecycle.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/shift-report", h.shiftReport)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
	r.Delete("/{id}", h.remove)
}

type orderLineRequest struct {
	ProductID int64    `json:"product_id" validate:"required,gt=0"`
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
	Price     *float64 `json:"price" validate:"omitempty,gte=0"`
}

type createOrderRequest struct {
	UserID     int64              `json:"user_id" validate:"required,gt=0"`
	LocationID int64              `json:"location_id" validate:"required,gt=0"`
	CustomerID *int64             `json:"customer_id"`
	Discount   float64            `json:"discount" validate:"gte=0"`
	Status     string             `json:"payment_status"`
	OrderDate  string             `json:"order_date"`
	Lines      []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	orderDate, err := parseDate(req.OrderDate)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	input := CreateOrderInput{
		UserID:     req.UserID,
		LocationID: req.LocationID,
		CustomerID: req.CustomerID,
		Discount:   req.Discount,
		Status:     PaymentStatus(strings.ToUpper(req.Status)),
		OrderDate:  orderDate,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, LineInput{ProductID: line.ProductID, Quantity: line.Quantity, Price: line.Price})
	}
	order, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create order failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list orders failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status string `json:"payment_status" validate:"required"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req updateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	order, err := h.service.UpdatePaymentStatus(r.Context(), id, PaymentStatus(strings.ToUpper(req.Status)))
	if err != nil {
		h.logger.Error("update payment status failed", slog.Int64("order_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("cancel order failed", slog.Int64("order_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) shiftReport(w http.ResponseWriter, r *http.Request) {
	shift := users.Shift(strings.ToUpper(r.URL.Query().Get("shift")))
	date, err := httpx.QueryDate(r, "date")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.ShiftReport(r.Context(), shift, date)
	if err != nil {
		h.logger.Error("shift report failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, shared.ErrValidation)
	}
	return t, nil
}

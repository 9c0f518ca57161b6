package purchasing

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/minimart-pos/minimart-pos/internal/platform/httpx"
	"github.com/minimart-pos/minimart-pos/internal/shared"
)

// Handler wires HTTP endpoints for purchase intake.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers purchase order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

type purchaseLineRequest struct {
	ProductID int64    `json:"product_id" validate:"required,gt=0"`
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
	Price     *float64 `json:"price" validate:"omitempty,gte=0"`
}

type createPurchaseRequest struct {
	SupplierID *int64                `json:"supplier_id"`
	LocationID int64                 `json:"location_id" validate:"required,gt=0"`
	Total      *float64              `json:"total" validate:"omitempty,gte=0"`
	OrderDate  string                `json:"order_date"`
	Lines      []purchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	var orderDate time.Time
	if req.OrderDate != "" {
		parsed, err := time.Parse("2006-01-02", req.OrderDate)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("invalid order_date %q: %w", req.OrderDate, shared.ErrValidation))
			return
		}
		orderDate = parsed
	}
	input := CreateInput{
		SupplierID: req.SupplierID,
		LocationID: req.LocationID,
		Total:      req.Total,
		OrderDate:  orderDate,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, LineInput{ProductID: line.ProductID, Quantity: line.Quantity, Price: line.Price})
	}
	po, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create purchase order failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, po)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	start, err := httpx.QueryDate(r, "start_date")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	end, err := httpx.QueryDate(r, "end_date")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	orders, err := h.service.List(r.Context(), start, end)
	if err != nil {
		h.logger.Error("list purchase orders failed", slog.Any("error", err))
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
	po, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

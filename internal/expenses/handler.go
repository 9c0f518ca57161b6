package expenses

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
)

// Handler wires HTTP endpoints for expenses.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers expense routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.remove)
}

type createExpenseRequest struct {
	LocationID  int64   `json:"location_id" validate:"required,gt=0"`
	UserID      *int64  `json:"user_id"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	ExpenseDate string  `json:"expense_date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	var expenseDate time.Time
	if req.ExpenseDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpenseDate)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("invalid expense_date %q: %w", req.ExpenseDate, shared.ErrValidation))
			return
		}
		expenseDate = parsed
	}
	expense, err := h.service.Create(r.Context(), CreateInput{
		LocationID:  req.LocationID,
		UserID:      req.UserID,
		Category:    Category(strings.ToUpper(req.Category)),
		Description: req.Description,
		Amount:      req.Amount,
		ExpenseDate: expenseDate,
	})
	if err != nil {
		h.logger.Error("create expense failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, expense)
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
	list, err := h.service.List(r.Context(), start, end)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	expense, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, expense)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete expense failed", slog.Int64("expense_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package ledger

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/minimart-pos/minimart-pos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the stock ledger.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/adjust", h.adjust)
	r.Get("/levels", h.levels)
	r.Get("/movements", h.movements)
}

type adjustRequest struct {
	ProductID  int64   `json:"product_id" validate:"required,gt=0"`
	LocationID int64   `json:"location_id" validate:"required,gt=0"`
	Type       string  `json:"type"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	Reference  string  `json:"reference"`
	Note       string  `json:"note"`
}

type adjustResponse struct {
	Movement Movement `json:"movement"`
	Quantity int      `json:"quantity"`
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	movement, quantity, err := h.service.Post(r.Context(), Posting{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Type:       MovementType(req.Type),
		Quantity:   req.Quantity,
		Reference:  req.Reference,
		Note:       req.Note,
	})
	if err != nil {
		h.logger.Error("stock adjustment failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, adjustResponse{Movement: movement, Quantity: quantity})
}

func (h *Handler) levels(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.QueryInt64Ptr(r, "product_id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	locationID, err := httpx.QueryInt64Ptr(r, "location_id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	levels, err := h.service.Levels(r.Context(), productID, locationID)
	if err != nil {
		h.logger.Error("stock levels failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, levels)
}

func (h *Handler) movements(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.QueryInt64Ptr(r, "product_id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	from, err := httpx.QueryDate(r, "start_date")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	to, err := httpx.QueryDate(r, "end_date")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	movements, err := h.service.Movements(r.Context(), MovementFilter{ProductID: productID, From: from, To: to})
	if err != nil {
		h.logger.Error("stock movements failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, movements)
}

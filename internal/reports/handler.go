package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/minimart-pos/minimart-pos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for reporting.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/daily-sales", h.dailySales)
	r.Get("/top-products", h.topProducts)
	r.Get("/inventory", h.inventory)
	r.Get("/profit-loss", h.profitLoss)
	r.Get("/dashboard", h.dashboard)
}

func (h *Handler) dailySales(w http.ResponseWriter, r *http.Request) {
	start, end, locationID, err := reportParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	summary, err := h.service.DailySales(r.Context(), start, end, locationID)
	if err != nil {
		h.logger.Error("daily sales report failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) topProducts(w http.ResponseWriter, r *http.Request) {
	start, end, locationID, err := reportParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	limit, err := httpx.QueryInt(r, "limit", 0)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	top, err := h.service.TopProducts(r.Context(), start, end, limit, locationID)
	if err != nil {
		h.logger.Error("top products report failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, top)
}

func (h *Handler) inventory(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Inventory(r.Context())
	if err != nil {
		h.logger.Error("inventory report failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) profitLoss(w http.ResponseWriter, r *http.Request) {
	start, end, locationID, err := reportParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	statement, err := h.service.ProfitAndLoss(r.Context(), start, end, locationID)
	if err != nil {
		h.logger.Error("profit and loss report failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, statement)
}

type dashboardResponse struct {
	DailySales  DailySalesSummary `json:"daily_sales"`
	TopProducts []TopProduct      `json:"top_products"`
	Inventory   InventoryReport   `json:"inventory"`
}

// dashboard loads the landing-page sections in parallel.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	start, end, locationID, err := reportParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var resp dashboardResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		summary, err := h.service.DailySales(ctx, start, end, locationID)
		if err != nil {
			return err
		}
		resp.DailySales = summary
		return nil
	})
	g.Go(func() error {
		top, err := h.service.TopProducts(ctx, start, end, 0, locationID)
		if err != nil {
			return err
		}
		resp.TopProducts = top
		return nil
	})
	g.Go(func() error {
		report, err := h.service.Inventory(ctx)
		if err != nil {
			return err
		}
		resp.Inventory = report
		return nil
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("dashboard failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func reportParams(r *http.Request) (start, end time.Time, locationID *int64, err error) {
	start, err = httpx.QueryDate(r, "start_date")
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	end, err = httpx.QueryDate(r, "end_date")
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	locationID, err = httpx.QueryInt64Ptr(r, "location_id")
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	return start, end, locationID, nil
}

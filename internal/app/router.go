package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/minimart-pos/minimart-pos/internal/catalog"
	"github.com/minimart-pos/minimart-pos/internal/expenses"
	"github.com/minimart-pos/minimart-pos/internal/ledger"
	"github.com/minimart-pos/minimart-pos/internal/orders"
	"github.com/minimart-pos/minimart-pos/internal/purchasing"
	"github.com/minimart-pos/minimart-pos/internal/reports"
	"github.com/minimart-pos/minimart-pos/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	CatalogHandler    *catalog.Handler
	UsersHandler      *users.Handler
	LedgerHandler     *ledger.Handler
	OrdersHandler     *orders.Handler
	PurchasingHandler *purchasing.Handler
	ExpensesHandler   *expenses.Handler
	ReportsHandler    *reports.Handler
}

// NewRouter constructs the chi.Router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: params.Logger, Config: params.Config}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", params.CatalogHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/stock", params.LedgerHandler.MountRoutes)
		r.Route("/orders", params.OrdersHandler.MountRoutes)
		r.Route("/purchase-orders", params.PurchasingHandler.MountRoutes)
		r.Route("/expenses", params.ExpensesHandler.MountRoutes)
		r.Route("/reports", params.ReportsHandler.MountRoutes)
	})

	return r
}

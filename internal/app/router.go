package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	ledgerhttp "github.com/lendplan/lendplan/internal/ledger/http"
	planhttp "github.com/lendplan/lendplan/internal/plan/http"
	reporthttp "github.com/lendplan/lendplan/internal/report/http"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	PlanHandler   *planhttp.Handler
	ReportHandler *reporthttp.Handler
	LedgerHandler *ledgerhttp.Handler
}

// NewRouter constructs the chi.Router with lendplan defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/plans", func(r chi.Router) {
		params.PlanHandler.MountRoutes(r)
		params.ReportHandler.MountRoutes(r)
	})
	r.Route("/customers", params.LedgerHandler.MountRoutes)

	return r
}

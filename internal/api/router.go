package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/pdie/internal/api/handlers"
	"github.com/wonny/pdie/internal/metrics"
	"github.com/wonny/pdie/pkg/config"
	"github.com/wonny/pdie/pkg/logger"
)

// Deps are the collaborators the router serves
type Deps struct {
	Portfolio *handlers.PortfolioHandler
	Health    *handlers.HealthHandler
	Hub       *Hub
	Logger    *logger.Logger
}

// NewRouter wires routes and middleware
// ⭐ SSOT: every HTTP route is declared here
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	r := mux.NewRouter()

	r.HandleFunc("/health", deps.Health.Health).Methods(http.MethodGet)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(rateLimitMiddleware(cfg.API.RateLimitRPS, cfg.API.RateLimitBurst))

	api.HandleFunc("/customers/{id}", deps.Portfolio.GetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/snapshot", deps.Portfolio.GetSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/kpis", deps.Portfolio.GetKPIs).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/queue", deps.Portfolio.GetQueue).Methods(http.MethodGet)
	api.HandleFunc("/impact/simulate", deps.Portfolio.Simulate).Methods(http.MethodPost)
	if deps.Hub != nil {
		api.HandleFunc("/stream", deps.Hub.ServeWS).Methods(http.MethodGet)
	}

	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))

	return r
}

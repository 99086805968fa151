package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/portfolio"
	"github.com/wonny/pdie/pkg/logger"
	"github.com/wonny/pdie/pkg/redis"
)

// PortfolioHandler serves customer and portfolio views
// ⭐ SSOT: handlers only translate HTTP; every number comes from portfolio.Service
type PortfolioHandler struct {
	service *portfolio.Service
	cache   *redis.Cache
	limiter *redis.RateLimiter
	logger  *logger.Logger
}

// NewPortfolioHandler creates the handler; cache and limiter may be disabled clients
func NewPortfolioHandler(service *portfolio.Service, cache *redis.Cache, limiter *redis.RateLimiter, log *logger.Logger) *PortfolioHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PortfolioHandler{
		service: service,
		cache:   cache,
		limiter: limiter,
		logger:  log.WithComponent("api"),
	}
}

// GetCustomer returns the full customer view
// GET /api/customers/{id}?week=N
func (h *PortfolioHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	week := 0
	if raw := r.URL.Query().Get("week"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "week must be a positive integer")
			return
		}
		week = n
	}

	ds, _, err := h.service.Current(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}

	view, err := h.service.Analyzer().CustomerView(ds, id, week)
	switch {
	case errors.Is(err, portfolio.ErrCustomerNotFound), errors.Is(err, portfolio.ErrWeekNotFound):
		respondError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		h.serviceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GetSnapshot returns the latest-week snapshot
// GET /api/portfolio/snapshot
func (h *PortfolioHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report.Snapshot)
}

// GetKPIs returns the portfolio KPIs
// GET /api/portfolio/kpis
func (h *PortfolioHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report.Snapshot.KPIs)
}

// GetQueue returns the RM case queue
// GET /api/portfolio/queue
func (h *PortfolioHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	queue := report.Queue
	if queue == nil {
		queue = []contracts.CaseQueueItem{}
	}
	respondJSON(w, http.StatusOK, queue)
}

func (h *PortfolioHandler) report(w http.ResponseWriter, r *http.Request) (*portfolio.Report, bool) {
	_, report, err := h.service.Current(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return nil, false
	}
	return report, true
}

// serviceError maps feed and validation failures onto HTTP statuses
func (h *PortfolioHandler) serviceError(w http.ResponseWriter, err error) {
	if errors.Is(err, contracts.ErrInvalidInput) {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.logger.WithError(err).Error("portfolio request failed")
	respondError(w, http.StatusServiceUnavailable, "portfolio data unavailable")
}

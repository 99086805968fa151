package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/impact"
	"github.com/wonny/pdie/pkg/redis"
)

// Simulate runs the impact simulator on the latest-week tier counts
// POST /api/impact/simulate with a (partial) ImpactParams body; omitted fields
// keep the engine defaults.
func (h *PortfolioHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.limiter != nil {
		allowed, remaining, err := h.limiter.Allow(ctx, redis.SimulateRateLimit, clientIP(r))
		if err != nil {
			h.logger.WithError(err).Warn("shared rate limiter unavailable")
		} else {
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				respondError(w, http.StatusTooManyRequests, "simulation rate limit exceeded")
				return
			}
		}
	}

	analyzer := h.service.Analyzer()
	params := analyzer.Config().Impact
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := impact.ValidateParams(params); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, _, err := h.service.Current(ctx)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	key := redis.ImpactKey(analyzer.ConfigHash(), ds.Fingerprint(), paramsHash(params))
	run, err := redis.GetOrSet(ctx, h.cache, key, 0, func() (*contracts.ImpactRun, error) {
		return analyzer.SimulateImpact(ctx, ds, &params)
	})
	if errors.Is(err, impact.ErrInvalidParams) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.serviceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func paramsHash(p contracts.ImpactParams) string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

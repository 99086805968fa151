package risk

import (
	"sort"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
)

// Engine bundles the history-based estimators (pure calculator)
// ⭐ SSOT: history assembly belongs to the portfolio layer; this package only computes
type Engine struct {
	trend     *TrendClassifier
	stability *StabilityEstimator
}

// NewEngine builds the trend classifier and stability estimator from cfg
func NewEngine(cfg *engineconfig.Config) (*Engine, error) {
	if err := engineconfig.Validate(cfg); err != nil {
		return nil, err
	}
	return &Engine{
		trend:     NewTrendClassifier(cfg.Trend),
		stability: NewStabilityEstimator(cfg.Stability),
	}, nil
}

// Trend classifies the trajectory of history
func (e *Engine) Trend(history []contracts.ScorePoint) contracts.TrendResult {
	return e.trend.Classify(history)
}

// Stability estimates the volatility of history
func (e *Engine) Stability(history []contracts.ScorePoint) contracts.StabilityResult {
	return e.stability.Estimate(history)
}

// tail returns the last n points in ascending week order
// The input is never reordered in place.
func tail(history []contracts.ScorePoint, n int) []contracts.ScorePoint {
	sorted := make([]contracts.ScorePoint, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Week < sorted[j].Week
	})

	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

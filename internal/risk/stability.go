package risk

import (
	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
)

// StabilityEstimator labels confidence in a customer's score from its volatility
type StabilityEstimator struct {
	window    int
	highBelow float64
	mediumMax float64
}

// NewStabilityEstimator builds an estimator from the stability config
func NewStabilityEstimator(cfg engineconfig.Stability) *StabilityEstimator {
	return &StabilityEstimator{window: cfg.Window, highBelow: cfg.HighBelow, mediumMax: cfg.MediumMax}
}

// Estimate computes the sample std of the last window scores
// Fewer than 2 observations → std 0 (High stability), flagged Degraded.
func (e *StabilityEstimator) Estimate(history []contracts.ScorePoint) contracts.StabilityResult {
	recent := tail(history, e.window)

	scores := make([]float64, len(recent))
	for i, p := range recent {
		scores[i] = p.Score
	}
	std := StdDev(scores)

	return contracts.StabilityResult{
		Label:        e.label(std),
		StdDev:       std,
		Observations: len(recent),
		Degraded:     len(recent) < e.window,
	}
}

func (e *StabilityEstimator) label(std float64) contracts.StabilityLabel {
	if std < e.highBelow {
		return contracts.StabilityHigh
	}
	if std <= e.mediumMax {
		return contracts.StabilityMedium
	}
	return contracts.StabilityLow
}

package risk

import (
	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
)

// TrendClassifier labels the direction of a customer's recent scores
type TrendClassifier struct {
	window       int
	risingSlope  float64
	fallingSlope float64
}

// NewTrendClassifier builds a classifier from the trend config
func NewTrendClassifier(cfg engineconfig.Trend) *TrendClassifier {
	return &TrendClassifier{window: cfg.Window, risingSlope: cfg.RisingSlope, fallingSlope: cfg.FallingSlope}
}

// Classify fits a line over the last window weeks of history
// History shorter than the window degrades to Stable.
func (c *TrendClassifier) Classify(history []contracts.ScorePoint) contracts.TrendResult {
	recent := tail(history, c.window)
	if len(recent) < c.window {
		return contracts.TrendResult{
			Label:        contracts.TrendStable,
			Observations: len(recent),
			Degraded:     true,
		}
	}

	weeks := make([]float64, len(recent))
	scores := make([]float64, len(recent))
	for i, p := range recent {
		weeks[i] = float64(p.Week)
		scores[i] = p.Score
	}
	slope := Slope(weeks, scores)

	label := contracts.TrendStable
	switch {
	case slope > c.risingSlope:
		label = contracts.TrendRising
	case slope < c.fallingSlope:
		label = contracts.TrendFalling
	}

	return contracts.TrendResult{
		Label:        label,
		Slope:        slope,
		Observations: len(recent),
	}
}

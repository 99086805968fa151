package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(engineconfig.Default())
	require.NoError(t, err)
	return e
}

func points(scores ...float64) []contracts.ScorePoint {
	out := make([]contracts.ScorePoint, len(scores))
	for i, s := range scores {
		out[i] = contracts.ScorePoint{Week: i + 1, Score: s}
	}
	return out
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{0.5}))
	assert.InDelta(t, math.Sqrt(0.5), StdDev([]float64{1, 2}), 1e-12)
	assert.InDelta(t, 1.2909944487, StdDev([]float64{1, 2, 3, 4}), 1e-9)
}

func TestSlope(t *testing.T) {
	assert.InDelta(t, 0.1, Slope([]float64{1, 2, 3}, []float64{0.2, 0.3, 0.4}), 1e-12)
	assert.InDelta(t, -0.05, Slope([]float64{10, 11, 12}, []float64{0.5, 0.45, 0.4}), 1e-12)
	assert.Equal(t, 0.0, Slope([]float64{1}, []float64{1}))
	assert.Equal(t, 0.0, Slope([]float64{2, 2}, []float64{1, 3}))
}

func TestTrend_Labels(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name    string
		history []contracts.ScorePoint
		want    contracts.Trend
	}{
		{"constant", points(0.5, 0.5, 0.5), contracts.TrendStable},
		{"rising", points(0.30, 0.35, 0.40), contracts.TrendRising},
		{"falling", points(0.60, 0.50, 0.40), contracts.TrendFalling},
		{"small drift", points(0.40, 0.41, 0.42), contracts.TrendStable},
		{"only last three count", points(0.9, 0.1, 0.30, 0.35, 0.40), contracts.TrendRising},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Trend(tt.history)
			assert.Equal(t, tt.want, res.Label, "slope=%v", res.Slope)
			assert.False(t, res.Degraded)
			assert.Equal(t, 3, res.Observations)
		})
	}
}

func TestTrend_InsufficientHistoryDegradesToStable(t *testing.T) {
	e := newTestEngine(t)

	for _, h := range [][]contracts.ScorePoint{nil, points(0.9), points(0.1, 0.9)} {
		res := e.Trend(h)
		assert.Equal(t, contracts.TrendStable, res.Label)
		assert.True(t, res.Degraded)
		assert.Equal(t, len(h), res.Observations)
		assert.Equal(t, 0.0, res.Slope)
	}
}

func TestTrend_UsesWeekOrderNotInsertionOrder(t *testing.T) {
	e := newTestEngine(t)
	shuffled := []contracts.ScorePoint{
		{Week: 3, Score: 0.40},
		{Week: 1, Score: 0.30},
		{Week: 2, Score: 0.35},
	}

	assert.Equal(t, contracts.TrendRising, e.Trend(shuffled).Label)
	// input left untouched
	assert.Equal(t, 3, shuffled[0].Week)
}

func TestStability_Labels(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name    string
		history []contracts.ScorePoint
		want    contracts.StabilityLabel
	}{
		{"flat", points(0.5, 0.5, 0.5, 0.5), contracts.StabilityHigh},
		{"mild noise", points(0.40, 0.50, 0.40, 0.50), contracts.StabilityMedium},
		{"volatile", points(0.1, 0.6, 0.1, 0.6), contracts.StabilityLow},
		{"only last four count", points(0.0, 1.0, 0.5, 0.5, 0.5, 0.5), contracts.StabilityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Stability(tt.history)
			assert.Equal(t, tt.want, res.Label, "std=%v", res.StdDev)
			assert.Equal(t, 4, res.Observations)
			assert.False(t, res.Degraded)
		})
	}
}

func TestStability_ShortHistory(t *testing.T) {
	e := newTestEngine(t)

	res := e.Stability(points(0.7))
	assert.Equal(t, contracts.StabilityHigh, res.Label)
	assert.Equal(t, 0.0, res.StdDev)
	assert.True(t, res.Degraded)

	res = e.Stability(nil)
	assert.Equal(t, contracts.StabilityHigh, res.Label)
	assert.True(t, res.Degraded)

	// two observations still yield a sample std
	res = e.Stability(points(0.2, 0.6))
	assert.InDelta(t, math.Sqrt(0.08), res.StdDev, 1e-12)
	assert.Equal(t, contracts.StabilityLow, res.Label)
	assert.True(t, res.Degraded)
}

func TestStability_Boundaries(t *testing.T) {
	est := NewStabilityEstimator(engineconfig.Stability{Window: 4, HighBelow: 0.05, MediumMax: 0.12})

	assert.Equal(t, contracts.StabilityMedium, est.label(0.05))
	assert.Equal(t, contracts.StabilityHigh, est.label(0.0499))
	assert.Equal(t, contracts.StabilityMedium, est.label(0.12))
	assert.Equal(t, contracts.StabilityLow, est.label(0.1201))
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := engineconfig.Default()
	cfg.Trend.Window = 1

	e, err := NewEngine(cfg)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, engineconfig.ErrInvalidConfig)
}

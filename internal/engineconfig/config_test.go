package engineconfig

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pdie/internal/contracts"
)

func TestLoad(t *testing.T) {
	path := "../../config/engine/pdie_v1.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)

	// sample file mirrors the built-in defaults
	assert.Equal(t, Default(), cfg)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	hash2, _ := Hash(Default())
	assert.Equal(t, hash, hash2, "hash not deterministic")
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Empty(t, Warn(cfg))

	assert.Len(t, cfg.Scoring.Weights(), contracts.SignalCount)
	assert.Equal(t, []float64{0.18, 0.17, 0.14, 0.14, 0.12, 0.10, 0.15}, cfg.Scoring.Weights())
}

func TestDefault_WeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range Default().Scoring.Weights() {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, WeightsEpsilon)
}

func TestDefault_IsFreshCopy(t *testing.T) {
	a := Default()
	a.Scoring.Signals[0].Weight = 0.9
	assert.Equal(t, 0.18, Default().Scoring.Signals[0].Weight)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"missing engine id", func(c *Config) { c.Meta.EngineID = "" }, "meta.engine_id"},
		{"weights off by 0.01", func(c *Config) { c.Scoring.Signals[0].Weight = 0.19 }, "scoring.signals.weight"},
		{"negative weight", func(c *Config) { c.Scoring.Signals[1].Weight = -0.17 }, "scoring.signals[1].weight"},
		{"six signals", func(c *Config) { c.Scoring.Signals = c.Scoring.Signals[:6] }, "scoring.signals"},
		{"duplicate signal", func(c *Config) { c.Scoring.Signals[1].Signal = contracts.SignalSalaryDelay }, "scoring.signals[1].signal"},
		{"unknown signal", func(c *Config) { c.Scoring.Signals[2].Signal = "credit_score" }, "scoring.signals[2].signal"},
		{"zero span", func(c *Config) { c.Scoring.Signals[0].Span = 0 }, "scoring.signals[0].span"},
		{"nan span", func(c *Config) { c.Scoring.Signals[0].Span = math.NaN() }, "scoring.signals[0].span"},
		{"infinite span", func(c *Config) { c.Scoring.Signals[1].Span = math.Inf(1) }, "scoring.signals[1].span"},
		{"nan threshold", func(c *Config) { c.Scoring.Signals[0].Threshold = math.NaN() }, "scoring.signals[0].threshold"},
		{"infinite threshold", func(c *Config) { c.Scoring.Signals[2].Threshold = math.Inf(-1) }, "scoring.signals[2].threshold"},
		{"nan weight", func(c *Config) { c.Scoring.Signals[3].Weight = math.NaN() }, "scoring.signals[3].weight"},
		{"nan rising slope", func(c *Config) { c.Trend.RisingSlope = math.NaN() }, "trend.rising_slope"},
		{"infinite falling slope", func(c *Config) { c.Trend.FallingSlope = math.Inf(-1) }, "trend.falling_slope"},
		{"nan stability high", func(c *Config) { c.Stability.HighBelow = math.NaN() }, "stability.high_below"},
		{"nan stability medium", func(c *Config) { c.Stability.MediumMax = math.NaN() }, "stability.medium_max"},
		{"unknown direction", func(c *Config) { c.Scoring.Signals[0].Direction = "sideways" }, "scoring.signals[0].direction"},
		{"inverted tiers", func(c *Config) { c.Tiers.MediumMin = 0.8 }, "tiers"},
		{"tier above one", func(c *Config) { c.Tiers.HighAbove = 1.2 }, "tiers.high_above"},
		{"trend window", func(c *Config) { c.Trend.Window = 1 }, "trend.window"},
		{"stability window", func(c *Config) { c.Stability.Window = 0 }, "stability.window"},
		{"stability bounds", func(c *Config) { c.Stability.HighBelow = 0.2 }, "stability"},
		{"rationale drivers", func(c *Config) { c.Intervention.RationaleDrivers = 0 }, "intervention.rationale_drivers"},
		{"missing channel", func(c *Config) { c.Intervention.Channels.Low = "" }, "intervention.channels"},
		{"reduction above one", func(c *Config) { c.Projection.ReductionHigh = 1.5 }, "projection.reduction_high"},
		{"negative capacity", func(c *Config) { c.Impact.WeeklyCapacity = -1 }, "impact.weekly_capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var ve ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestParse_UnknownField(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	typo := strings.Replace(string(data), "medium_min:", "mediun_min:", 1)
	_, err = Parse([]byte(typo))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mediun_min")
}

func TestParse_RejectsNonFiniteThreshold(t *testing.T) {
	data, err := os.ReadFile("../../config/engine/pdie_v1.yaml")
	require.NoError(t, err)

	nan := strings.Replace(string(data), "threshold: 3\n", "threshold: .nan\n", 1)
	require.NotEqual(t, string(data), nan)

	_, err = Parse([]byte(nan))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "scoring.signals[0].threshold")
}

func TestMarshal_RoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, mustHash(t, Default()), mustHash(t, cfg))
}

func TestHash_ChangesWithParameters(t *testing.T) {
	a := Default()
	b := Default()
	b.Impact.WeeklyCapacity = 60

	assert.NotEqual(t, mustHash(t, a), mustHash(t, b))
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEngineID, cfg.Meta.EngineID)

	_, err = LoadOrDefault("does/not/exist.yaml")
	assert.Error(t, err)
}

func TestWarn(t *testing.T) {
	cfg := Default()
	cfg.Impact.WeeklyCapacity = 0
	cfg.Tiers.MediumMin = 0.65

	codes := make([]string, 0)
	for _, w := range Warn(cfg) {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, "ZERO_CAPACITY")
	assert.Contains(t, codes, "NARROW_MEDIUM_BAND")
}

func TestChannelsAndReductions(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "Phone call + In-app notification", cfg.Intervention.Channels.For(contracts.TierHigh))
	assert.Equal(t, "In-app notification + SMS", cfg.Intervention.Channels.For(contracts.TierMedium))
	assert.Equal(t, "Monitor only", cfg.Intervention.Channels.For(contracts.TierLow))

	assert.Equal(t, 0.40, cfg.Projection.Reduction(contracts.TierHigh))
	assert.Equal(t, 0.20, cfg.Projection.Reduction(contracts.TierMedium))
	assert.Equal(t, 0.05, cfg.Projection.Reduction(contracts.TierLow))
}

func mustHash(t *testing.T, cfg *Config) string {
	t.Helper()
	h, err := Hash(cfg)
	require.NoError(t, err)
	return h
}

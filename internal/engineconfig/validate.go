package engineconfig

import (
	"errors"
	"fmt"
	"math"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/impact"
)

// ErrInvalidConfig is wrapped by every ValidationError
var ErrInvalidConfig = errors.New("invalid engine config")

// WeightsEpsilon is the tolerance of the weight sum check
const WeightsEpsilon = 1e-9

// ValidationError is a fatal configuration error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// Warning flags a legal but questionable setting
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validate checks all required constraints
// A failure here must stop construction of any engine component.
func Validate(cfg *Config) error {
	if cfg == nil {
		return ValidationError{"config", "required"}
	}

	// === Meta ===
	if cfg.Meta.EngineID == "" {
		return ValidationError{"meta.engine_id", "required"}
	}

	// === Scoring ===
	if err := validateScoring(cfg.Scoring); err != nil {
		return err
	}

	// === Tiers ===
	if err := validatePctRange(cfg.Tiers.MediumMin, "tiers.medium_min"); err != nil {
		return err
	}
	if err := validatePctRange(cfg.Tiers.HighAbove, "tiers.high_above"); err != nil {
		return err
	}
	if cfg.Tiers.MediumMin > cfg.Tiers.HighAbove {
		return ValidationError{"tiers", "medium_min must be <= high_above"}
	}

	// === Trend / Stability ===
	if err := validateFinite(cfg.Trend.RisingSlope, "trend.rising_slope"); err != nil {
		return err
	}
	if err := validateFinite(cfg.Trend.FallingSlope, "trend.falling_slope"); err != nil {
		return err
	}
	if err := validateFinite(cfg.Stability.HighBelow, "stability.high_below"); err != nil {
		return err
	}
	if err := validateFinite(cfg.Stability.MediumMax, "stability.medium_max"); err != nil {
		return err
	}
	if cfg.Trend.Window < 2 {
		return ValidationError{"trend.window", fmt.Sprintf("must be >= 2, got %d", cfg.Trend.Window)}
	}
	if cfg.Trend.FallingSlope > cfg.Trend.RisingSlope {
		return ValidationError{"trend", "falling_slope must be <= rising_slope"}
	}
	if cfg.Stability.Window < 2 {
		return ValidationError{"stability.window", fmt.Sprintf("must be >= 2, got %d", cfg.Stability.Window)}
	}
	if cfg.Stability.HighBelow < 0 || cfg.Stability.HighBelow > cfg.Stability.MediumMax {
		return ValidationError{"stability", "must satisfy 0 <= high_below <= medium_max"}
	}

	// === Intervention ===
	iv := cfg.Intervention
	if iv.SalaryDelayAbove < 0 {
		return ValidationError{"intervention.salary_delay_above", "must be >= 0"}
	}
	if iv.LendingTxnMin < 0 {
		return ValidationError{"intervention.lending_txn_min", "must be >= 0"}
	}
	if iv.RationaleDrivers < 1 || iv.RationaleDrivers > contracts.SignalCount {
		return ValidationError{"intervention.rationale_drivers", fmt.Sprintf("must be in [1, %d]", contracts.SignalCount)}
	}
	if iv.DetailDrivers < 1 || iv.DetailDrivers > contracts.SignalCount {
		return ValidationError{"intervention.detail_drivers", fmt.Sprintf("must be in [1, %d]", contracts.SignalCount)}
	}
	if iv.Channels.High == "" || iv.Channels.Medium == "" || iv.Channels.Low == "" {
		return ValidationError{"intervention.channels", "high, medium and low are required"}
	}

	// === Projection ===
	p := cfg.Projection
	if err := validatePctRange(p.ReductionHigh, "projection.reduction_high"); err != nil {
		return err
	}
	if err := validatePctRange(p.ReductionMedium, "projection.reduction_medium"); err != nil {
		return err
	}
	if err := validatePctRange(p.ReductionLow, "projection.reduction_low"); err != nil {
		return err
	}
	if err := validatePctRange(p.AcceptanceRate, "projection.acceptance_rate"); err != nil {
		return err
	}

	// === Impact ===
	if err := impact.ValidateParams(cfg.Impact); err != nil {
		var pe *impact.ParamError
		if errors.As(err, &pe) {
			return ValidationError{"impact." + pe.Field, pe.Message}
		}
		return ValidationError{"impact", err.Error()}
	}

	return nil
}

func validateScoring(s Scoring) error {
	if len(s.Signals) != contracts.SignalCount {
		return ValidationError{"scoring.signals", fmt.Sprintf("must define %d signals, got %d", contracts.SignalCount, len(s.Signals))}
	}

	seen := make(map[contracts.SignalName]bool, len(s.Signals))
	weights := make([]float64, 0, len(s.Signals))
	for i, r := range s.Signals {
		field := fmt.Sprintf("scoring.signals[%d]", i)
		if !r.Signal.Valid() {
			return ValidationError{field + ".signal", fmt.Sprintf("unknown signal %q", r.Signal)}
		}
		if seen[r.Signal] {
			return ValidationError{field + ".signal", fmt.Sprintf("duplicate signal %q", r.Signal)}
		}
		seen[r.Signal] = true

		if err := validateFinite(r.Weight, field+".weight"); err != nil {
			return err
		}
		if r.Weight < 0 {
			return ValidationError{field + ".weight", "must be >= 0"}
		}
		switch r.Direction {
		case DirectionIncreasing, DirectionDecreasing:
			if err := validateFinite(r.Threshold, field+".threshold"); err != nil {
				return err
			}
			if err := validateFinite(r.Span, field+".span"); err != nil {
				return err
			}
			if r.Span <= 0 {
				return ValidationError{field + ".span", "must be > 0"}
			}
		case DirectionFlag:
		default:
			return ValidationError{field + ".direction", fmt.Sprintf("unknown direction %q", r.Direction)}
		}
		weights = append(weights, r.Weight)
	}

	if err := validateWeightsSum(weights, 1.0, WeightsEpsilon); err != nil {
		return ValidationError{"scoring.signals.weight", err.Error()}
	}
	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	for _, r := range cfg.Scoring.Signals {
		if r.Weight > 0.30 {
			warnings = append(warnings, Warning{
				Code:    "DOMINANT_SIGNAL",
				Message: fmt.Sprintf("%s weight %.2f > 0.30: one signal can move a customer across a tier alone", r.Signal, r.Weight),
			})
		}
	}

	if cfg.Tiers.HighAbove-cfg.Tiers.MediumMin < 0.10 {
		warnings = append(warnings, Warning{
			Code:    "NARROW_MEDIUM_BAND",
			Message: "medium tier band < 0.10: soft-nudge population will be very small",
		})
	}

	if cfg.Impact.WeeklyCapacity == 0 {
		warnings = append(warnings, Warning{
			Code:    "ZERO_CAPACITY",
			Message: "weekly_capacity = 0: impact simulation will contact nobody",
		})
	}

	if cfg.Impact.AcceptanceRate != cfg.Projection.AcceptanceRate {
		warnings = append(warnings, Warning{
			Code:    "ACCEPTANCE_MISMATCH",
			Message: "impact.acceptance_rate differs from projection.acceptance_rate",
		})
	}

	return warnings
}

// === Helper Functions ===

func validateWeightsSum(weights []float64, target float64, epsilon float64) error {
	if len(weights) == 0 {
		return errors.New("must not be empty")
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-target) > epsilon {
		return fmt.Errorf("must sum to %.2f, got %.10f", target, sum)
	}
	return nil
}

// validateFinite rejects NaN and ±Inf
func validateFinite(v float64, field string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ValidationError{field, "must be a finite number"}
	}
	return nil
}

// validatePctRange checks a fraction lies in [0, 1]
func validatePctRange(pct float64, field string) error {
	if math.IsNaN(pct) || pct < 0 || pct > 1 {
		return ValidationError{field, "must be in range [0, 1]"}
	}
	return nil
}

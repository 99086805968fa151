package impact

import (
	"errors"
	"fmt"
	"math"

	"github.com/wonny/pdie/internal/contracts"
)

// ErrInvalidParams is wrapped by every ParamError
var ErrInvalidParams = errors.New("invalid impact params")

// ParamError is a configuration error detected at simulator construction
type ParamError struct {
	Field   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidParams, e.Field, e.Message)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParams
}

// ValidateParams checks the domain of every economic parameter
func ValidateParams(p contracts.ImpactParams) error {
	if err := nonNegative(p.AvgExposure, "avg_exposure"); err != nil {
		return err
	}

	fractions := []struct {
		v     float64
		field string
	}{
		{p.DefaultRateHigh, "default_rate_high"},
		{p.DefaultRateMedium, "default_rate_medium"},
		{p.CollectionCostPct, "collection_cost_pct"},
		{p.EffectHigh, "effect_high"},
		{p.EffectMedium, "effect_medium"},
		{p.LGD, "lgd"},
		{p.RecoveryRate, "recovery_rate"},
		{p.RecoveryUplift, "recovery_uplift"},
		{p.AcceptanceRate, "acceptance_rate"},
	}
	for _, f := range fractions {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return &ParamError{Field: f.field, Message: fmt.Sprintf("must be in [0, 1], got %v", f.v)}
		}
	}

	if err := nonNegative(p.CostPerHigh, "cost_per_high"); err != nil {
		return err
	}
	if err := nonNegative(p.CostPerMedium, "cost_per_medium"); err != nil {
		return err
	}
	if p.WeeklyCapacity < 0 {
		return &ParamError{Field: "weekly_capacity", Message: fmt.Sprintf("must be >= 0, got %d", p.WeeklyCapacity)}
	}
	return nil
}

func nonNegative(v float64, field string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return &ParamError{Field: field, Message: fmt.Sprintf("must be a finite value >= 0, got %v", v)}
	}
	return nil
}

func validateCounts(c contracts.TierCounts) error {
	if c.High < 0 || c.Medium < 0 || c.Low < 0 {
		return &ParamError{Field: "counts", Message: fmt.Sprintf("tier counts must be >= 0, got %+v", c)}
	}
	return nil
}

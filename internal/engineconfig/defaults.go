package engineconfig

import "github.com/wonny/pdie/internal/contracts"

// DefaultEngineID names the built-in parameterization
const DefaultEngineID = "pdie_v1"

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Meta: Meta{EngineID: DefaultEngineID, Version: "1.0.0"},
		Scoring: Scoring{
			Signals: []SignalRule{
				{Signal: contracts.SignalSalaryDelay, Weight: 0.18, Direction: DirectionIncreasing, Threshold: 3, Span: 4},
				{Signal: contracts.SignalSavingsDrop, Weight: 0.17, Direction: DirectionIncreasing, Threshold: 20, Span: 20},
				{Signal: contracts.SignalDiscretionary, Weight: 0.14, Direction: DirectionDecreasing, Threshold: -40, Span: 30},
				{Signal: contracts.SignalUtilityDelay, Weight: 0.14, Direction: DirectionIncreasing, Threshold: 5, Span: 5},
				{Signal: contracts.SignalLendingApp, Weight: 0.12, Direction: DirectionIncreasing, Threshold: 3, Span: 5},
				{Signal: contracts.SignalATMSpike, Weight: 0.10, Direction: DirectionIncreasing, Threshold: 30, Span: 30},
				{Signal: contracts.SignalAutodebit, Weight: 0.15, Direction: DirectionFlag},
			},
		},
		Tiers: Tiers{MediumMin: 0.40, HighAbove: 0.70},
		Trend: Trend{Window: 3, RisingSlope: 0.015, FallingSlope: -0.015},
		Stability: Stability{
			Window:    4,
			HighBelow: 0.05,
			MediumMax: 0.12,
		},
		Intervention: Intervention{
			SalaryDelayAbove: 3,
			SavingsDropAbove: 20,
			LendingTxnMin:    3,
			RationaleDrivers: 2,
			DetailDrivers:    3,
			Channels: Channels{
				High:   "Phone call + In-app notification",
				Medium: "In-app notification + SMS",
				Low:    "Monitor only",
			},
		},
		Projection: Projection{
			ReductionHigh:   0.40,
			ReductionMedium: 0.20,
			ReductionLow:    0.05,
			AcceptanceRate:  0.60,
			LeadTimeCrossed: "3 weeks (simulated)",
			LeadTimeDefault: "2–4 weeks (simulated)",
		},
		Impact: DefaultImpactParams(),
	}
}

// DefaultImpactParams returns the default economic parameter set
func DefaultImpactParams() contracts.ImpactParams {
	return contracts.ImpactParams{
		AvgExposure:       50000,
		DefaultRateHigh:   0.15,
		DefaultRateMedium: 0.07,
		CollectionCostPct: 0.18,
		EffectHigh:        0.40,
		EffectMedium:      0.20,
		LGD:               0.55,
		RecoveryRate:      0.60,
		RecoveryUplift:    0.10,
		CostPerHigh:       60,
		CostPerMedium:     10,
		WeeklyCapacity:    120,
		AcceptanceRate:    0.60,
	}
}

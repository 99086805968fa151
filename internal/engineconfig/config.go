package engineconfig

import "github.com/wonny/pdie/internal/contracts"

// Config is the full named parameterization of the scoring engine
// ⭐ SSOT: every weight, clip range, boundary and rule threshold lives here
type Config struct {
	Meta         Meta                   `yaml:"meta" json:"meta"`
	Scoring      Scoring                `yaml:"scoring" json:"scoring"`
	Tiers        Tiers                  `yaml:"tiers" json:"tiers"`
	Trend        Trend                  `yaml:"trend" json:"trend"`
	Stability    Stability              `yaml:"stability" json:"stability"`
	Intervention Intervention           `yaml:"intervention" json:"intervention"`
	Projection   Projection             `yaml:"projection" json:"projection"`
	Impact       contracts.ImpactParams `yaml:"impact" json:"impact"`
}

// Meta identifies the configuration
type Meta struct {
	EngineID string `yaml:"engine_id" json:"engine_id"`
	Version  string `yaml:"version" json:"version"`
}

// Scoring holds one normalization rule per signal
type Scoring struct {
	Signals []SignalRule `yaml:"signals" json:"signals"` // weights sum to 1.0
}

// Direction selects how a raw value maps onto stress
type Direction string

const (
	// DirectionIncreasing: (x - threshold) / span
	DirectionIncreasing Direction = "increasing"
	// DirectionDecreasing: (threshold - x) / span
	DirectionDecreasing Direction = "decreasing"
	// DirectionFlag: x itself (0 or 1)
	DirectionFlag Direction = "flag"
)

// SignalRule normalizes one raw signal onto [0,1] and weights it
type SignalRule struct {
	Signal    contracts.SignalName `yaml:"signal" json:"signal"`
	Weight    float64              `yaml:"weight" json:"weight"`
	Direction Direction            `yaml:"direction" json:"direction"`
	Threshold float64              `yaml:"threshold" json:"threshold"`
	Span      float64              `yaml:"span" json:"span"`
}

// Rule returns the normalization rule of one signal
func (s Scoring) Rule(name contracts.SignalName) (SignalRule, bool) {
	for _, r := range s.Signals {
		if r.Signal == name {
			return r, true
		}
	}
	return SignalRule{}, false
}

// Weights returns the signal weights in declaration order
func (s Scoring) Weights() []float64 {
	out := make([]float64, 0, len(s.Signals))
	for _, name := range contracts.Signals() {
		if r, ok := s.Rule(name); ok {
			out = append(out, r.Weight)
		}
	}
	return out
}

// Tiers holds the score boundaries
// score < medium_min → Low, score <= high_above → Medium, else High
type Tiers struct {
	MediumMin float64 `yaml:"medium_min" json:"medium_min"`
	HighAbove float64 `yaml:"high_above" json:"high_above"`
}

// Trend configures the short-window slope classifier
type Trend struct {
	Window       int     `yaml:"window" json:"window"`
	RisingSlope  float64 `yaml:"rising_slope" json:"rising_slope"`
	FallingSlope float64 `yaml:"falling_slope" json:"falling_slope"`
}

// Stability configures the trailing volatility estimator
type Stability struct {
	Window    int     `yaml:"window" json:"window"`
	HighBelow float64 `yaml:"high_below" json:"high_below"`
	MediumMax float64 `yaml:"medium_max" json:"medium_max"`
}

// Intervention holds rule thresholds and channel labels
type Intervention struct {
	SalaryDelayAbove int      `yaml:"salary_delay_above" json:"salary_delay_above"`
	SavingsDropAbove float64  `yaml:"savings_drop_above" json:"savings_drop_above"`
	LendingTxnMin    int      `yaml:"lending_txn_min" json:"lending_txn_min"`
	RationaleDrivers int      `yaml:"rationale_drivers" json:"rationale_drivers"`
	DetailDrivers    int      `yaml:"detail_drivers" json:"detail_drivers"`
	Channels         Channels `yaml:"channels" json:"channels"`
}

// Channels maps each tier to its outreach channel
type Channels struct {
	High   string `yaml:"high" json:"high"`
	Medium string `yaml:"medium" json:"medium"`
	Low    string `yaml:"low" json:"low"`
}

// For returns the channel label of a tier
func (c Channels) For(tier contracts.Tier) string {
	switch tier {
	case contracts.TierHigh:
		return c.High
	case contracts.TierMedium:
		return c.Medium
	}
	return c.Low
}

// Projection configures the post-intervention projection and lead time labels
type Projection struct {
	ReductionHigh   float64 `yaml:"reduction_high" json:"reduction_high"`
	ReductionMedium float64 `yaml:"reduction_medium" json:"reduction_medium"`
	ReductionLow    float64 `yaml:"reduction_low" json:"reduction_low"`
	AcceptanceRate  float64 `yaml:"acceptance_rate" json:"acceptance_rate"`
	LeadTimeCrossed string  `yaml:"lead_time_crossed" json:"lead_time_crossed"`
	LeadTimeDefault string  `yaml:"lead_time_default" json:"lead_time_default"`
}

// Reduction returns the expected score reduction of a tier
func (p Projection) Reduction(tier contracts.Tier) float64 {
	switch tier {
	case contracts.TierHigh:
		return p.ReductionHigh
	case contracts.TierMedium:
		return p.ReductionMedium
	}
	return p.ReductionLow
}

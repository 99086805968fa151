package contracts

import "time"

// ImpactParams is the externally supplied economic/operational parameter set
// Rates and fractions are in [0, 1]; money is in rupees.
type ImpactParams struct {
	AvgExposure       float64 `yaml:"avg_exposure" json:"avg_exposure"`
	DefaultRateHigh   float64 `yaml:"default_rate_high" json:"default_rate_high"`
	DefaultRateMedium float64 `yaml:"default_rate_medium" json:"default_rate_medium"`
	CollectionCostPct float64 `yaml:"collection_cost_pct" json:"collection_cost_pct"`
	EffectHigh        float64 `yaml:"effect_high" json:"effect_high"`
	EffectMedium      float64 `yaml:"effect_medium" json:"effect_medium"`
	LGD               float64 `yaml:"lgd" json:"lgd"`
	RecoveryRate      float64 `yaml:"recovery_rate" json:"recovery_rate"`
	RecoveryUplift    float64 `yaml:"recovery_uplift" json:"recovery_uplift"`
	CostPerHigh       float64 `yaml:"cost_per_high" json:"cost_per_high"`
	CostPerMedium     float64 `yaml:"cost_per_medium" json:"cost_per_medium"`
	WeeklyCapacity    int     `yaml:"weekly_capacity" json:"weekly_capacity"`
	AcceptanceRate    float64 `yaml:"acceptance_rate" json:"acceptance_rate"`
}

// TierCounts is the number of at-risk customers per tier at the latest week
type TierCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Flagged returns the number of High + Medium customers
func (c TierCounts) Flagged() int {
	return c.High + c.Medium
}

// CapacityAllocation splits flagged cases by whether outreach capacity reached them
type CapacityAllocation struct {
	Capacity           int     `json:"capacity"`
	Eligible           int     `json:"eligible"`
	ContactedHigh      int     `json:"contacted_high"`
	ContactedMedium    int     `json:"contacted_medium"`
	NonContactedHigh   int     `json:"non_contacted_high"`
	NonContactedMedium int     `json:"non_contacted_medium"`
	Contacted          int     `json:"contacted"`
	Overflow           int     `json:"overflow"`
	Utilisation        float64 `json:"utilisation"`
}

// ScenarioOutcome is the expected loss picture of one scenario
type ScenarioOutcome struct {
	Defaults       float64 `json:"defaults"`
	EAD            float64 `json:"ead"`
	CreditLoss     float64 `json:"credit_loss"`
	Recoveries     float64 `json:"recoveries"`
	CollectionCost float64 `json:"collection_cost"`
	OutreachCost   float64 `json:"outreach_cost"`
}

// NetImpact compares the with-engine scenario against the baseline
type NetImpact struct {
	DefaultReduction    float64 `json:"default_reduction"` // fraction, 0.3125 = 31.25%
	CreditLossAvoided   float64 `json:"credit_loss_avoided"`
	CollectionCostSaved float64 `json:"collection_cost_saved"`
	OutreachCost        float64 `json:"outreach_cost"`
	NetSavings          float64 `json:"net_savings"`
}

// Funnel is the prevention funnel reporting view
type Funnel struct {
	Flagged         int     `json:"flagged"`
	Contacted       int     `json:"contacted"`
	Accepting       int     `json:"accepting"`
	DefaultsAvoided int     `json:"defaults_avoided"`
	AcceptanceRate  float64 `json:"acceptance_rate"`
}

// ImpactReport is the deterministic output of the portfolio impact simulator
type ImpactReport struct {
	Counts        TierCounts         `json:"counts"`
	Params        ImpactParams       `json:"params"`
	Allocation    CapacityAllocation `json:"allocation"`
	WithoutEngine ScenarioOutcome    `json:"without_engine"`
	WithEngine    ScenarioOutcome    `json:"with_engine"`
	Net           NetImpact          `json:"net"`
	Funnel        Funnel             `json:"funnel"`
}

// ImpactRun stamps a report with run identity for audit trails
type ImpactRun struct {
	RunID      string        `json:"run_id"`
	ConfigHash string        `json:"config_hash"`
	CreatedAt  time.Time     `json:"created_at"`
	Report     *ImpactReport `json:"report"`
}

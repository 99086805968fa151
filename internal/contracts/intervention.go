package contracts

// Recommendation is the intervention chosen for one customer-week
// Recomputed on demand, never persisted.
type Recommendation struct {
	RuleID    string `json:"rule_id"`
	Action    string `json:"action"`
	Message   string `json:"message"`
	Rationale string `json:"rationale"`
	Channel   string `json:"channel"`
}

// StrategyRow maps a triggered signal to its preventive mechanism
type StrategyRow struct {
	Signal    SignalName `json:"signal"`
	Label     string     `json:"triggered_signal"`
	Mechanism string     `json:"preventive_mechanism"`
}

// Projection is the expected post-intervention risk if the customer accepts
type Projection struct {
	Score          float64 `json:"score"`
	Tier           Tier    `json:"tier"`
	Reduction      float64 `json:"reduction"`
	AdjustedScore  float64 `json:"adjusted_score"`
	AdjustedTier   Tier    `json:"adjusted_tier"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// LeadTime is the simulated prediction horizon before an EMI miss
type LeadTime struct {
	CrossedThisWeek bool   `json:"crossed_this_week"`
	Horizon         string `json:"horizon"`
}

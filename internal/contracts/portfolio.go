package contracts

import "time"

// CustomerSnapshot is one row of the latest-week portfolio view
type CustomerSnapshot struct {
	CustomerID string  `json:"customer_id"`
	Week       int     `json:"week"`
	Score      float64 `json:"risk_score"` // rounded to 3 decimals for display
	Tier       Tier    `json:"risk_tier"`
	Trend      Trend   `json:"trend"`
	TopReason  string  `json:"top_reason"`
}

// PortfolioKPIs summarises the latest-week snapshot
type PortfolioKPIs struct {
	Week         int     `json:"week"`
	Monitored    int     `json:"monitored"`
	HighCount    int     `json:"high_count"`
	MediumCount  int     `json:"medium_count"`
	LowCount     int     `json:"low_count"`
	AverageScore float64 `json:"average_score"`
	Rising       int     `json:"rising"`
	Falling      int     `json:"falling"`
	Stable       int     `json:"stable"`
}

// PortfolioSnapshot is the whole-portfolio view at the latest week
// ⭐ SSOT: presentation layer renders these rows unchanged
type PortfolioSnapshot struct {
	Week        int                `json:"week"`
	ConfigHash  string             `json:"config_hash"`
	GeneratedAt time.Time          `json:"generated_at"`
	Rows        []CustomerSnapshot `json:"rows"`
	KPIs        PortfolioKPIs      `json:"kpis"`
}

// Counts returns the tier counts of the snapshot
func (s *PortfolioSnapshot) Counts() TierCounts {
	return TierCounts{High: s.KPIs.HighCount, Medium: s.KPIs.MediumCount, Low: s.KPIs.LowCount}
}

// Priority orders the RM case queue
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
)

// CaseQueueItem is one High-tier case awaiting relationship-manager outreach
type CaseQueueItem struct {
	CustomerID string   `json:"customer_id"`
	Score      float64  `json:"risk_score"`
	Trend      Trend    `json:"trend"`
	TopReason  string   `json:"top_reason"`
	Action     string   `json:"action"`
	Channel    string   `json:"channel"`
	Priority   Priority `json:"priority"`
}

// CustomerView is everything the presentation layer shows for one customer-week
type CustomerView struct {
	Result         ScoreResult     `json:"result"`
	Drivers        []Driver        `json:"drivers"`
	Trend          TrendResult     `json:"trend"`
	Stability      StabilityResult `json:"stability"`
	Recommendation Recommendation  `json:"recommendation"`
	Strategy       []StrategyRow   `json:"strategy"`
	Projection     Projection      `json:"projection"`
	LeadTime       LeadTime        `json:"lead_time"`
	History        []ScorePoint    `json:"history"`
}

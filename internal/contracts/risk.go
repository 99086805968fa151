package contracts

// Tier is the ordinal risk classification derived from a composite score
type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// Rank returns the ordinal position of the tier (Low=0, Medium=1, High=2)
func (t Tier) Rank() int {
	switch t {
	case TierLow:
		return 0
	case TierMedium:
		return 1
	case TierHigh:
		return 2
	}
	return -1
}

// Valid reports whether t is a known tier
func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

// Trend labels the direction of a customer's recent score trajectory
type Trend string

const (
	TrendRising  Trend = "Rising"
	TrendFalling Trend = "Falling"
	TrendStable  Trend = "Stable"
)

// Symbol returns the arrow used in portfolio listings
func (t Trend) Symbol() string {
	switch t {
	case TrendRising:
		return "↑"
	case TrendFalling:
		return "↓"
	}
	return "→"
}

// TrendResult is the output of the trend classifier
// Degraded is set when the history was shorter than the window.
type TrendResult struct {
	Label        Trend   `json:"label"`
	Slope        float64 `json:"slope"`
	Observations int     `json:"observations"`
	Degraded     bool    `json:"degraded"`
}

// StabilityLabel describes how noisy a customer's recent scores are
type StabilityLabel string

const (
	StabilityHigh   StabilityLabel = "High stability"
	StabilityMedium StabilityLabel = "Medium stability"
	StabilityLow    StabilityLabel = "Low stability"
)

// StabilityResult is the output of the stability estimator
type StabilityResult struct {
	Label        StabilityLabel `json:"label"`
	StdDev       float64        `json:"std_dev"`
	Observations int            `json:"observations"`
	Degraded     bool           `json:"degraded"`
}

package scoring

import (
	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
)

// Classifier maps a score to its risk tier
type Classifier struct {
	mediumMin float64
	highAbove float64
}

// NewClassifier builds a Classifier from tier boundaries
func NewClassifier(t engineconfig.Tiers) *Classifier {
	return &Classifier{mediumMin: t.MediumMin, highAbove: t.HighAbove}
}

// Classify returns Low below medium_min, Medium up to and including high_above, else High
// ⭐ exact operators: 0.40 → Medium, 0.70 → Medium, 0.7000001 → High
func (c *Classifier) Classify(score float64) contracts.Tier {
	if score < c.mediumMin {
		return contracts.TierLow
	}
	if score <= c.highAbove {
		return contracts.TierMedium
	}
	return contracts.TierHigh
}

// HighAbove returns the upper boundary of the Medium tier
func (c *Classifier) HighAbove() float64 {
	return c.highAbove
}

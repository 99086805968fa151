package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
)

func TestClassify_Boundaries(t *testing.T) {
	c := NewClassifier(engineconfig.Default().Tiers)

	tests := []struct {
		score float64
		want  contracts.Tier
	}{
		{0, contracts.TierLow},
		{0.399999, contracts.TierLow},
		{0.40, contracts.TierMedium},
		{0.400001, contracts.TierMedium},
		{0.4000001, contracts.TierMedium},
		{0.55, contracts.TierMedium},
		{0.70, contracts.TierMedium},
		{0.700001, contracts.TierHigh},
		{0.7000001, contracts.TierHigh},
		{1, contracts.TierHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.score), "score=%v", tt.score)
	}
}

func TestClassify_Monotonic(t *testing.T) {
	c := NewClassifier(engineconfig.Default().Tiers)

	prev := c.Classify(0)
	for i := 1; i <= 10000; i++ {
		tier := c.Classify(float64(i) / 10000)
		assert.GreaterOrEqual(t, tier.Rank(), prev.Rank())
		prev = tier
	}
}

func TestClassify_AlternativeBoundaries(t *testing.T) {
	c := NewClassifier(engineconfig.Tiers{MediumMin: 0.3, HighAbove: 0.5})

	assert.Equal(t, contracts.TierMedium, c.Classify(0.3))
	assert.Equal(t, contracts.TierHigh, c.Classify(0.55))
	assert.Equal(t, 0.5, c.HighAbove())
}

package intervention

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
	"github.com/wonny/pdie/internal/scoring"
)

func newTestProjector() *Projector {
	cfg := engineconfig.Default()
	return NewProjector(cfg.Projection, scoring.NewClassifier(cfg.Tiers))
}

func TestProject(t *testing.T) {
	p := newTestProjector()

	tests := []struct {
		score        float64
		tier         contracts.Tier
		reduction    float64
		adjusted     float64
		adjustedTier contracts.Tier
	}{
		{0.80, contracts.TierHigh, 0.40, 0.48, contracts.TierMedium},
		{0.95, contracts.TierHigh, 0.40, 0.57, contracts.TierMedium},
		{0.45, contracts.TierMedium, 0.20, 0.36, contracts.TierLow},
		{0.60, contracts.TierMedium, 0.20, 0.48, contracts.TierMedium},
		{0.20, contracts.TierLow, 0.05, 0.19, contracts.TierLow},
	}

	for _, tt := range tests {
		proj := p.Project(contracts.ScoreResult{Score: tt.score, Tier: tt.tier})
		assert.Equal(t, tt.reduction, proj.Reduction)
		assert.InDelta(t, tt.adjusted, proj.AdjustedScore, 1e-12)
		assert.Equal(t, tt.adjustedTier, proj.AdjustedTier)
		assert.Equal(t, 0.60, proj.AcceptanceRate)
	}
}

func TestLeadTime(t *testing.T) {
	p := newTestProjector()

	history := []contracts.ScorePoint{
		{Week: 1, Score: 0.30},
		{Week: 2, Score: 0.70},
		{Week: 3, Score: 0.75},
		{Week: 4, Score: 0.80},
	}

	crossed := p.LeadTime(history, 3)
	assert.True(t, crossed.CrossedThisWeek)
	assert.Equal(t, "3 weeks (simulated)", crossed.Horizon)

	stillHigh := p.LeadTime(history, 4)
	assert.False(t, stillHigh.CrossedThisWeek)
	assert.Equal(t, "2–4 weeks (simulated)", stillHigh.Horizon)

	notHigh := p.LeadTime(history, 2)
	assert.False(t, notHigh.CrossedThisWeek)

	// first week has no previous observation
	single := p.LeadTime([]contracts.ScorePoint{{Week: 1, Score: 0.9}}, 1)
	assert.False(t, single.CrossedThisWeek)

	// unordered history and missing week
	shuffled := []contracts.ScorePoint{history[2], history[0], history[1]}
	assert.True(t, p.LeadTime(shuffled, 3).CrossedThisWeek)
	assert.False(t, p.LeadTime(history, 9).CrossedThisWeek)
}

func TestStrategyTable(t *testing.T) {
	drivers := []contracts.Driver{
		{Signal: contracts.SignalAutodebit},
		{Signal: contracts.SignalSalaryDelay},
		{Signal: contracts.SignalLendingApp},
	}

	rows := StrategyTable(drivers)
	assert.Equal(t, []contracts.StrategyRow{
		{Signal: contracts.SignalAutodebit, Label: "Failed Autodebit", Mechanism: "Mandate re-authorization flow"},
		{Signal: contracts.SignalSalaryDelay, Label: "Salary Delay Days", Mechanism: "EMI date realignment / grace period"},
		{Signal: contracts.SignalLendingApp, Label: "Lending-App UPI Txn Count", Mechanism: "Offer lower-cost internal credit"},
	}, rows)

	for _, name := range contracts.Signals() {
		assert.NotEqual(t, "Custom intervention", Mechanism(name))
	}
	assert.Equal(t, "Custom intervention", Mechanism("unknown"))
	assert.Empty(t, StrategyTable(nil))
}

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pdie/internal/contracts"
)

func TestTopDrivers_SortedDescending(t *testing.T) {
	s := newTestScorer(t)
	r := calmRecord()
	r.SavingsDropPct = 40       // 0.17
	r.LendingAppUPITxnCount = 8 // 0.12
	r.SalaryDelayDays = 5       // 0.09

	c := s.Contributions(r)
	drivers := TopDrivers(c, 3)

	require.Len(t, drivers, 3)
	assert.Equal(t, contracts.SignalSavingsDrop, drivers[0].Signal)
	assert.Equal(t, contracts.SignalLendingApp, drivers[1].Signal)
	assert.Equal(t, contracts.SignalSalaryDelay, drivers[2].Signal)
	assert.Equal(t, "Savings Drop %", drivers[0].Label)
	assert.Equal(t, "Savings Drop %", TopReason(c))
}

func TestTopDrivers_Sizes(t *testing.T) {
	c := newTestScorer(t).Contributions(stressedRecord())

	for _, n := range []int{1, 2, 3, 7} {
		drivers := TopDrivers(c, n)
		assert.Len(t, drivers, n)
		for i := 1; i < len(drivers); i++ {
			assert.GreaterOrEqual(t, drivers[i-1].Contribution, drivers[i].Contribution)
		}
	}

	assert.Len(t, TopDrivers(c, 12), contracts.SignalCount)
	assert.Empty(t, TopDrivers(c, 0))
	assert.Empty(t, TopDrivers(c, -1))
}

func TestTopDrivers_TieBreakDeclarationOrder(t *testing.T) {
	// all zero: every pair ties, order must be declaration order
	var zero contracts.Contributions
	drivers := TopDrivers(zero, contracts.SignalCount)
	for i, name := range contracts.Signals() {
		assert.Equal(t, name, drivers[i].Signal)
	}

	// utility and discretionary share weight 0.14; both saturated
	var c contracts.Contributions
	c[contracts.SignalUtilityDelay.Index()] = 0.14
	c[contracts.SignalDiscretionary.Index()] = 0.14
	top := TopDrivers(c, 2)
	assert.Equal(t, contracts.SignalDiscretionary, top[0].Signal)
	assert.Equal(t, contracts.SignalUtilityDelay, top[1].Signal)
}

func TestTopDrivers_SubsetOfSignals(t *testing.T) {
	c := newTestScorer(t).Contributions(stressedRecord())
	seen := map[contracts.SignalName]bool{}
	for _, d := range TopDrivers(c, contracts.SignalCount) {
		assert.True(t, d.Signal.Valid())
		assert.False(t, seen[d.Signal], "duplicate driver %s", d.Signal)
		seen[d.Signal] = true
	}
}

func TestAttribute_FillsExplanations(t *testing.T) {
	r := stressedRecord()
	drivers := Attribute(r, newTestScorer(t).Contributions(r), 3)

	require.Len(t, drivers, 3)
	for _, d := range drivers {
		assert.NotEmpty(t, d.Explanation)
	}
	assert.Equal(t, "Salary credit was delayed by 7 days, indicating cashflow stress before EMI dates.", drivers[0].Explanation)
}

package portfolio

import (
	"context"

	"github.com/wonny/pdie/internal/contracts"
)

func calm(id string, week int) contracts.SignalRecord {
	return contracts.SignalRecord{CustomerID: id, Week: week}
}

// stressed saturates every signal (score 1.0, EMI rule)
func stressed(id string, week int) contracts.SignalRecord {
	return contracts.SignalRecord{
		CustomerID:                  id,
		Week:                        week,
		SalaryDelayDays:             7,
		SavingsDropPct:              40,
		DiscretionarySpendChangePct: -70,
		UtilityPaymentDelayDays:     10,
		LendingAppUPITxnCount:       8,
		ATMWithdrawalSpikePct:       60,
		FailedAutodebit:             true,
	}
}

// medium scores 0.18 + 0.17 + 0.12 = 0.47
func medium(id string, week int) contracts.SignalRecord {
	return contracts.SignalRecord{
		CustomerID:            id,
		Week:                  week,
		SalaryDelayDays:       7,
		SavingsDropPct:        40,
		LendingAppUPITxnCount: 8,
	}
}

func fixtureRecords() []contracts.SignalRecord {
	return []contracts.SignalRecord{
		calm("C001", 1), calm("C001", 2), stressed("C001", 3),
		stressed("C002", 1), stressed("C002", 2), stressed("C002", 3),
		calm("C003", 1), calm("C003", 2), calm("C003", 3),
		calm("C004", 1), stressed("C004", 2),
		medium("C005", 1), medium("C005", 2), medium("C005", 3),
	}
}

type staticSource struct {
	records []contracts.SignalRecord
	err     error
	calls   int
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) Load(context.Context) ([]contracts.SignalRecord, error) {
	s.calls++
	return s.records, s.err
}

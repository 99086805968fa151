package feed

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/wonny/pdie/internal/contracts"
)

// Synthetic demo defaults
const (
	DefaultCustomers        = 200
	DefaultWeeks            = 12
	DefaultSeed      uint64 = 42
	StressedShare           = 0.15
	rampWeeks               = 4
)

// Synthetic generates a deterministic demo portfolio
// ⭐ SSOT: the same (customers, weeks, seed) always yields the same records
type Synthetic struct {
	Customers int
	Weeks     int
	Seed      uint64
}

// NewSynthetic creates a generator; non-positive sizes fall back to the defaults
func NewSynthetic(customers, weeks int, seed uint64) *Synthetic {
	if customers <= 0 {
		customers = DefaultCustomers
	}
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	return &Synthetic{Customers: customers, Weeks: weeks, Seed: seed}
}

// Name implements contracts.SignalSource
func (s *Synthetic) Name() string {
	return "synthetic"
}

// Load implements contracts.SignalSource
func (s *Synthetic) Load(ctx context.Context) ([]contracts.SignalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Generate(), nil
}

// StressedCustomers returns the ids whose signals ramp over the last weeks
func (s *Synthetic) StressedCustomers() map[string]bool {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed))
	return pickStressed(rng, s.Customers)
}

// Generate builds customers × weeks records, ordered by customer then week
// Stressed customers ramp linearly over the last four weeks; every value is
// clipped to the documented signal range, so the output is always valid.
func (s *Synthetic) Generate() []contracts.SignalRecord {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed))
	stressed := pickStressed(rng, s.Customers)

	records := make([]contracts.SignalRecord, 0, s.Customers*s.Weeks)
	for i := 1; i <= s.Customers; i++ {
		id := CustomerID(i)
		records = append(records, s.customer(rng, id, stressed[id])...)
	}
	return records
}

type baseline struct {
	salaryDelay   int
	savingsDrop   float64
	discretionary float64
	utilityDelay  int
	lendingTxns   int
	atmSpike      float64
}

func (s *Synthetic) customer(rng *rand.Rand, id string, stressed bool) []contracts.SignalRecord {
	b := baseline{
		salaryDelay:   rng.IntN(4),
		savingsDrop:   uniform(rng, -5, 18),
		discretionary: uniform(rng, -35, 20),
		utilityDelay:  rng.IntN(5),
		lendingTxns:   rng.IntN(3),
		atmSpike:      uniform(rng, 0, 25),
	}

	out := make([]contracts.SignalRecord, 0, s.Weeks)
	for wk := 1; wk <= s.Weeks; wk++ {
		step := 0.0
		if stressed && wk > s.Weeks-rampWeeks {
			step = float64(wk - (s.Weeks - rampWeeks))
		}

		failProb := 0.06
		if stressed {
			failProb += 0.09 * step
		}

		out = append(out, contracts.SignalRecord{
			CustomerID:                  id,
			Week:                        wk,
			SalaryDelayDays:             clipInt(float64(b.salaryDelay)+normal(rng, 1.2)+step*uniform(rng, 0.8, 1.4), 0, 7),
			SavingsDropPct:              round2(clip(b.savingsDrop+normal(rng, 4)+step*uniform(rng, 5, 8), -5, 40)),
			DiscretionarySpendChangePct: round2(clip(b.discretionary+normal(rng, 6)-step*uniform(rng, 6, 9), -70, 30)),
			UtilityPaymentDelayDays:     clipInt(float64(b.utilityDelay)+normal(rng, 1.5)+step*uniform(rng, 1, 1.8), 0, 10),
			LendingAppUPITxnCount:       clipInt(float64(b.lendingTxns)+normal(rng, 1)+step*uniform(rng, 0.8, 1.3), 0, 8),
			ATMWithdrawalSpikePct:       round2(clip(b.atmSpike+normal(rng, 7)+step*uniform(rng, 6, 9), 0, 60)),
			FailedAutodebit:             rng.Float64() < min(0.9, failProb),
		})
	}
	return out
}

// CustomerID formats the synthetic id: 1 → "C001"
func CustomerID(n int) string {
	return fmt.Sprintf("C%03d", n)
}

func pickStressed(rng *rand.Rand, customers int) map[string]bool {
	k := int(float64(customers) * StressedShare)
	out := make(map[string]bool, k)
	for _, idx := range rng.Perm(customers)[:k] {
		out[CustomerID(idx+1)] = true
	}
	return out
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func normal(rng *rand.Rand, sd float64) float64 {
	return rng.NormFloat64() * sd
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clipInt(v float64, lo, hi int) int {
	return int(clip(math.RoundToEven(v), float64(lo), float64(hi)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

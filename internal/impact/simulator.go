package impact

import (
	"math"

	"github.com/wonny/pdie/internal/contracts"
)

// Simulator projects portfolio losses with and without capacity-constrained outreach
// ⭐ SSOT: pure and deterministic, same (counts, params) → bit-identical report
type Simulator struct {
	params contracts.ImpactParams
}

// NewSimulator validates params and returns a Simulator
func NewSimulator(params contracts.ImpactParams) (*Simulator, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	return &Simulator{params: params}, nil
}

// Params returns the parameter set the simulator was built with
func (s *Simulator) Params() contracts.ImpactParams {
	return s.params
}

// Run is NewSimulator followed by Simulate
func Run(counts contracts.TierCounts, params contracts.ImpactParams) (*contracts.ImpactReport, error) {
	sim, err := NewSimulator(params)
	if err != nil {
		return nil, err
	}
	return sim.Simulate(counts)
}

// Allocate serves High cases first, then Medium, up to capacity
func Allocate(counts contracts.TierCounts, capacity int) contracts.CapacityAllocation {
	if capacity < 0 {
		capacity = 0
	}
	high := max(counts.High, 0)
	medium := max(counts.Medium, 0)

	contactedHigh := min(high, capacity)
	contactedMedium := min(medium, max(0, capacity-contactedHigh))
	eligible := high + medium
	contacted := contactedHigh + contactedMedium

	utilisation := 0.0
	if capacity > 0 {
		utilisation = float64(contacted) / float64(capacity)
	}

	return contracts.CapacityAllocation{
		Capacity:           capacity,
		Eligible:           eligible,
		ContactedHigh:      contactedHigh,
		ContactedMedium:    contactedMedium,
		NonContactedHigh:   high - contactedHigh,
		NonContactedMedium: medium - contactedMedium,
		Contacted:          contacted,
		Overflow:           max(0, eligible-capacity),
		Utilisation:        utilisation,
	}
}

// Simulate computes the full impact report for the given tier counts
func (s *Simulator) Simulate(counts contracts.TierCounts) (*contracts.ImpactReport, error) {
	if err := validateCounts(counts); err != nil {
		return nil, err
	}

	p := s.params
	alloc := Allocate(counts, p.WeeklyCapacity)
	without := s.baseline(counts)
	with := s.withEngine(alloc)

	return &contracts.ImpactReport{
		Counts:        counts,
		Params:        p,
		Allocation:    alloc,
		WithoutEngine: without,
		WithEngine:    with,
		Net:           netImpact(without, with),
		Funnel:        s.funnel(alloc),
	}, nil
}

func (s *Simulator) baseline(counts contracts.TierCounts) contracts.ScenarioOutcome {
	p := s.params
	defaults := float64(counts.High)*p.DefaultRateHigh + float64(counts.Medium)*p.DefaultRateMedium
	ead := defaults * p.AvgExposure
	recoveries := ead * p.RecoveryRate

	return contracts.ScenarioOutcome{
		Defaults:       defaults,
		EAD:            ead,
		CreditLoss:     ead * p.LGD,
		Recoveries:     recoveries,
		CollectionCost: recoveries * p.CollectionCostPct,
	}
}

func (s *Simulator) withEngine(a contracts.CapacityAllocation) contracts.ScenarioOutcome {
	p := s.params

	contactedDefaults := float64(a.ContactedHigh)*p.DefaultRateHigh*(1-p.EffectHigh) +
		float64(a.ContactedMedium)*p.DefaultRateMedium*(1-p.EffectMedium)
	otherDefaults := float64(a.NonContactedHigh)*p.DefaultRateHigh +
		float64(a.NonContactedMedium)*p.DefaultRateMedium

	contactedEAD := contactedDefaults * p.AvgExposure
	otherEAD := otherDefaults * p.AvgExposure
	upliftedRecovery := math.Min(1, p.RecoveryRate+p.RecoveryUplift)

	recoveries := contactedEAD*upliftedRecovery + otherEAD*p.RecoveryRate

	return contracts.ScenarioOutcome{
		Defaults:       contactedDefaults + otherDefaults,
		EAD:            contactedEAD + otherEAD,
		CreditLoss:     contactedEAD*p.LGD + otherEAD*p.LGD,
		Recoveries:     recoveries,
		CollectionCost: recoveries * p.CollectionCostPct,
		OutreachCost:   float64(a.ContactedHigh)*p.CostPerHigh + float64(a.ContactedMedium)*p.CostPerMedium,
	}
}

func netImpact(without, with contracts.ScenarioOutcome) contracts.NetImpact {
	reduction := 0.0
	if without.Defaults != 0 {
		reduction = (without.Defaults - with.Defaults) / without.Defaults
	}

	return contracts.NetImpact{
		DefaultReduction:    reduction,
		CreditLossAvoided:   without.CreditLoss - with.CreditLoss,
		CollectionCostSaved: without.CollectionCost - with.CollectionCost,
		OutreachCost:        with.OutreachCost,
		NetSavings: (without.CreditLoss + without.CollectionCost) -
			(with.CreditLoss + with.CollectionCost) - with.OutreachCost,
	}
}

func (s *Simulator) funnel(a contracts.CapacityAllocation) contracts.Funnel {
	p := s.params
	contacted := min(a.Eligible, a.Capacity)
	avoided := float64(a.ContactedHigh)*p.EffectHigh*p.AcceptanceRate +
		float64(a.ContactedMedium)*p.EffectMedium*p.AcceptanceRate

	return contracts.Funnel{
		Flagged:         a.Eligible,
		Contacted:       contacted,
		Accepting:       int(math.Floor(float64(contacted) * p.AcceptanceRate)),
		DefaultsAvoided: int(math.Floor(avoided)),
		AcceptanceRate:  p.AcceptanceRate,
	}
}

package impact

import "github.com/wonny/pdie/internal/contracts"

// SweepPoint is the headline outcome at one capacity setting
type SweepPoint struct {
	Capacity        int     `json:"capacity"`
	Contacted       int     `json:"contacted"`
	Overflow        int     `json:"overflow"`
	DefaultsAvoided int     `json:"defaults_avoided"`
	NetSavings      float64 `json:"net_savings"`
}

// CapacitySweep re-runs the simulation for each capacity, keeping every other parameter
func (s *Simulator) CapacitySweep(counts contracts.TierCounts, capacities []int) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(capacities))
	for _, c := range capacities {
		params := s.params
		params.WeeklyCapacity = c

		report, err := Run(counts, params)
		if err != nil {
			return nil, err
		}
		points = append(points, SweepPoint{
			Capacity:        c,
			Contacted:       report.Allocation.Contacted,
			Overflow:        report.Allocation.Overflow,
			DefaultsAvoided: report.Funnel.DefaultsAvoided,
			NetSavings:      report.Net.NetSavings,
		})
	}
	return points, nil
}

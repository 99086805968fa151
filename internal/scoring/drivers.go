package scoring

import (
	"sort"

	"github.com/wonny/pdie/internal/contracts"
)

// TopDrivers ranks contributions descending and returns the first n
// Ties keep signal declaration order. n <= 0 returns an empty slice.
func TopDrivers(c contracts.Contributions, n int) []contracts.Driver {
	if n <= 0 {
		return []contracts.Driver{}
	}
	n = min(n, contracts.SignalCount)

	drivers := make([]contracts.Driver, 0, contracts.SignalCount)
	for _, name := range contracts.Signals() {
		drivers = append(drivers, contracts.Driver{
			Signal:       name,
			Label:        name.Label(),
			Contribution: c.Of(name),
		})
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Contribution > drivers[j].Contribution
	})
	return drivers[:n]
}

// Attribute returns the top n drivers with their explanations filled in
func Attribute(r contracts.SignalRecord, c contracts.Contributions, n int) []contracts.Driver {
	drivers := TopDrivers(c, n)
	for i := range drivers {
		drivers[i].Explanation = Explain(drivers[i].Signal, r)
	}
	return drivers
}

// TopReason returns the label of the strongest driver
func TopReason(c contracts.Contributions) string {
	return TopDrivers(c, 1)[0].Label
}

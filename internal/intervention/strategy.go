package intervention

import "github.com/wonny/pdie/internal/contracts"

var mechanisms = map[contracts.SignalName]string{
	contracts.SignalSalaryDelay:   "EMI date realignment / grace period",
	contracts.SignalSavingsDrop:   "Temporary liquidity support / short deferment",
	contracts.SignalDiscretionary: "Budget advisory + soft reminder",
	contracts.SignalUtilityDelay:  "Payment prioritization alert",
	contracts.SignalLendingApp:    "Offer lower-cost internal credit",
	contracts.SignalATMSpike:      "Liquidity stress outreach",
	contracts.SignalAutodebit:     "Mandate re-authorization flow",
}

// Mechanism returns the preventive mechanism for a triggered signal
func Mechanism(name contracts.SignalName) string {
	if m, ok := mechanisms[name]; ok {
		return m
	}
	return "Custom intervention"
}

// StrategyTable maps each driver to its preventive mechanism, in driver order
func StrategyTable(drivers []contracts.Driver) []contracts.StrategyRow {
	rows := make([]contracts.StrategyRow, 0, len(drivers))
	for _, d := range drivers {
		rows = append(rows, contracts.StrategyRow{
			Signal:    d.Signal,
			Label:     d.Signal.Label(),
			Mechanism: Mechanism(d.Signal),
		})
	}
	return rows
}

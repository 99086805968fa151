package intervention

import (
	"fmt"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
)

// Input is everything a rule may look at for one customer-week
type Input struct {
	Record  contracts.SignalRecord
	Tier    contracts.Tier
	Drivers []contracts.Driver // ranked, strongest first
}

// Rule is one (predicate, outcome) pair of the decision list
type Rule struct {
	ID      string
	Action  string
	When    func(Input) bool
	Message func(Input) string
}

// Rule IDs in priority order
const (
	RuleEMIRealignment = "emi_realignment"
	RuleAutodebitRetry = "autodebit_retry"
	RuleRestructure    = "restructure_credit"
	RuleSoftNudge      = "soft_nudge"
	RuleRMOutreach     = "rm_outreach"
	RuleMonitor        = "monitor"
)

// DefaultRules builds the ordered decision list from the intervention thresholds
// ⭐ SSOT: evaluated top to bottom, first match wins, the last rule always matches
func DefaultRules(cfg engineconfig.Intervention) []Rule {
	return []Rule{
		{
			ID:     RuleEMIRealignment,
			Action: "Offer EMI date shift / short grace period",
			When: func(in Input) bool {
				return in.Record.SalaryDelayDays > cfg.SalaryDelayAbove && in.Record.SavingsDropPct > cfg.SavingsDropAbove
			},
			Message: func(in Input) string {
				return fmt.Sprintf("We noticed temporary cashflow pressure after a %d-day salary delay. "+
					"We can shift your EMI date or provide a short grace period to avoid penalties.", in.Record.SalaryDelayDays)
			},
		},
		{
			ID:     RuleAutodebitRetry,
			Action: "Immediate proactive outreach + payment retry scheduling",
			When:   func(in Input) bool { return in.Record.FailedAutodebit },
			Message: fixed("Your last autodebit did not go through. " +
				"We can help schedule a retry at your preferred date and confirm account setup."),
		},
		{
			ID:     RuleRestructure,
			Action: "Offer restructuring / lower-cost credit line",
			When:   func(in Input) bool { return in.Record.LendingAppUPITxnCount >= cfg.LendingTxnMin },
			Message: func(in Input) string {
				return fmt.Sprintf("We noticed %d short-term credit app payments this week. "+
					"We can review your repayment plan and provide a lower-cost structured option to reduce monthly stress.",
					in.Record.LendingAppUPITxnCount)
			},
		},
		{
			ID:     RuleSoftNudge,
			Action: "Soft nudge + budgeting tips",
			When:   func(in Input) bool { return in.Tier == contracts.TierMedium },
			Message: fixed("You are still in control. " +
				"A quick budget tune-up and payment reminder can help keep your account healthy."),
		},
		{
			ID:     RuleRMOutreach,
			Action: "Priority relationship-manager outreach with repayment planning",
			When:   func(in Input) bool { return in.Tier == contracts.TierHigh },
			Message: fixed("A relationship manager can contact you today " +
				"to set up a sustainable repayment plan and avoid delinquency."),
		},
		{
			ID:      RuleMonitor,
			Action:  "Continue monitoring",
			When:    func(Input) bool { return true },
			Message: fixed("No urgent intervention needed right now. We will continue monitoring weekly patterns."),
		},
	}
}

func fixed(msg string) func(Input) string {
	return func(Input) string { return msg }
}

package scoring

import (
	"fmt"

	"github.com/wonny/pdie/internal/contracts"
)

// Explain renders the customer-facing explanation of one signal's raw value
func Explain(name contracts.SignalName, r contracts.SignalRecord) string {
	switch name {
	case contracts.SignalSalaryDelay:
		return fmt.Sprintf("Salary credit was delayed by %d days, indicating cashflow stress before EMI dates.", r.SalaryDelayDays)
	case contracts.SignalSavingsDrop:
		return fmt.Sprintf("Savings dropped by %.1f%%, reducing short-term repayment buffer.", r.SavingsDropPct)
	case contracts.SignalDiscretionary:
		return fmt.Sprintf("Discretionary spend changed by %.1f%%; sharp cutbacks can signal tightening liquidity.", r.DiscretionarySpendChangePct)
	case contracts.SignalUtilityDelay:
		return fmt.Sprintf("Utility payments were delayed by %d days, often preceding broader payment stress.", r.UtilityPaymentDelayDays)
	case contracts.SignalLendingApp:
		return fmt.Sprintf("%d lending-app UPI transactions suggest increased short-term borrowing behavior.", r.LendingAppUPITxnCount)
	case contracts.SignalATMSpike:
		return fmt.Sprintf("ATM withdrawals spiked by %.1f%%, which may indicate emergency cash dependence.", r.ATMWithdrawalSpikePct)
	case contracts.SignalAutodebit:
		if r.FailedAutodebit {
			return "Failed autodebit was observed, directly indicating repayment friction."
		}
		return "No failed autodebit this week."
	}
	return ""
}

package contracts

import (
	"encoding/json"
	"fmt"
	"math"
)

// SignalName identifies one of the seven behavioural stress signals
// ⭐ SSOT: declaration order below is the attribution tie-break order
type SignalName string

const (
	SignalSalaryDelay   SignalName = "salary_delay_days"
	SignalSavingsDrop   SignalName = "savings_drop_pct"
	SignalDiscretionary SignalName = "discretionary_spend_change_pct"
	SignalUtilityDelay  SignalName = "utility_payment_delay_days"
	SignalLendingApp    SignalName = "lending_app_upi_txn_count"
	SignalATMSpike      SignalName = "atm_withdrawal_spike_pct"
	SignalAutodebit     SignalName = "failed_autodebit"
)

// SignalCount is the number of behavioural signals
const SignalCount = 7

var signalOrder = [SignalCount]SignalName{
	SignalSalaryDelay,
	SignalSavingsDrop,
	SignalDiscretionary,
	SignalUtilityDelay,
	SignalLendingApp,
	SignalATMSpike,
	SignalAutodebit,
}

var signalLabels = map[SignalName]string{
	SignalSalaryDelay:   "Salary Delay Days",
	SignalSavingsDrop:   "Savings Drop %",
	SignalDiscretionary: "Discretionary Spend Change %",
	SignalUtilityDelay:  "Utility Payment Delay Days",
	SignalLendingApp:    "Lending-App UPI Txn Count",
	SignalATMSpike:      "ATM Withdrawal Spike %",
	SignalAutodebit:     "Failed Autodebit",
}

// Signals returns all signal names in declaration order
func Signals() []SignalName {
	out := make([]SignalName, SignalCount)
	copy(out, signalOrder[:])
	return out
}

// Index returns the declaration position of the signal, or -1 if unknown
func (s SignalName) Index() int {
	for i, name := range signalOrder {
		if name == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the seven signals
func (s SignalName) Valid() bool {
	return s.Index() >= 0
}

// Label returns the human-readable signal label
func (s SignalName) Label() string {
	if label, ok := signalLabels[s]; ok {
		return label
	}
	return string(s)
}

// SignalRecord is one customer-week of raw behavioural signals
// ⭐ SSOT: the only input unit of the scoring core (immutable value)
type SignalRecord struct {
	CustomerID string `json:"customer_id"`
	Week       int    `json:"week"`

	SalaryDelayDays             int     `json:"salary_delay_days"`
	SavingsDropPct              float64 `json:"savings_drop_pct"`               // negative = savings grew
	DiscretionarySpendChangePct float64 `json:"discretionary_spend_change_pct"` // negative = cutback
	UtilityPaymentDelayDays     int     `json:"utility_payment_delay_days"`
	LendingAppUPITxnCount       int     `json:"lending_app_upi_txn_count"`
	ATMWithdrawalSpikePct       float64 `json:"atm_withdrawal_spike_pct"`
	FailedAutodebit             bool    `json:"failed_autodebit"`
}

// Value returns the raw value of a signal as float64 (autodebit: 0 or 1)
func (r SignalRecord) Value(name SignalName) float64 {
	switch name {
	case SignalSalaryDelay:
		return float64(r.SalaryDelayDays)
	case SignalSavingsDrop:
		return r.SavingsDropPct
	case SignalDiscretionary:
		return r.DiscretionarySpendChangePct
	case SignalUtilityDelay:
		return float64(r.UtilityPaymentDelayDays)
	case SignalLendingApp:
		return float64(r.LendingAppUPITxnCount)
	case SignalATMSpike:
		return r.ATMWithdrawalSpikePct
	case SignalAutodebit:
		if r.FailedAutodebit {
			return 1
		}
		return 0
	}
	return 0
}

// Validate checks the record-level domain of every field
// Dataset-level rules (contiguous weeks, duplicates) live in the portfolio package.
func (r SignalRecord) Validate() error {
	if r.CustomerID == "" {
		return r.inputError("customer_id", "must not be empty")
	}
	if r.Week < 1 {
		return r.inputError("week", fmt.Sprintf("must be >= 1, got %d", r.Week))
	}
	if r.SalaryDelayDays < 0 {
		return r.inputError(string(SignalSalaryDelay), fmt.Sprintf("must be >= 0, got %d", r.SalaryDelayDays))
	}
	if r.UtilityPaymentDelayDays < 0 {
		return r.inputError(string(SignalUtilityDelay), fmt.Sprintf("must be >= 0, got %d", r.UtilityPaymentDelayDays))
	}
	if r.LendingAppUPITxnCount < 0 {
		return r.inputError(string(SignalLendingApp), fmt.Sprintf("must be >= 0, got %d", r.LendingAppUPITxnCount))
	}
	if !finite(r.SavingsDropPct) {
		return r.inputError(string(SignalSavingsDrop), "must be a finite number")
	}
	if !finite(r.DiscretionarySpendChangePct) {
		return r.inputError(string(SignalDiscretionary), "must be a finite number")
	}
	if !finite(r.ATMWithdrawalSpikePct) {
		return r.inputError(string(SignalATMSpike), "must be a finite number")
	}
	if r.ATMWithdrawalSpikePct < 0 {
		return r.inputError(string(SignalATMSpike), fmt.Sprintf("must be >= 0, got %.2f", r.ATMWithdrawalSpikePct))
	}
	return nil
}

func (r SignalRecord) inputError(field, msg string) *InputError {
	return &InputError{CustomerID: r.CustomerID, Week: r.Week, Field: field, Message: msg}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Contributions is the weighted, clipped stress contribution of each signal
// Indexed by SignalName.Index(); every value is in [0, weight].
type Contributions [SignalCount]float64

// Of returns the contribution of one signal
func (c Contributions) Of(name SignalName) float64 {
	idx := name.Index()
	if idx < 0 {
		return 0
	}
	return c[idx]
}

// Sum returns the unclamped sum of all contributions
func (c Contributions) Sum() float64 {
	var sum float64
	for _, v := range c {
		sum += v
	}
	return sum
}

// Map returns the contributions keyed by signal name
func (c Contributions) Map() map[SignalName]float64 {
	out := make(map[SignalName]float64, SignalCount)
	for i, name := range signalOrder {
		out[name] = c[i]
	}
	return out
}

// MarshalJSON encodes the vector as an object keyed by signal name
func (c Contributions) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Map())
}

// UnmarshalJSON decodes an object keyed by signal name
func (c *Contributions) UnmarshalJSON(data []byte) error {
	var m map[SignalName]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out Contributions
	for name, v := range m {
		idx := name.Index()
		if idx < 0 {
			return fmt.Errorf("unknown signal %q", name)
		}
		out[idx] = v
	}
	*c = out
	return nil
}

// Driver is one ranked signal contribution
type Driver struct {
	Signal       SignalName `json:"signal"`
	Label        string     `json:"label"`
	Contribution float64    `json:"contribution"`
	Explanation  string     `json:"explanation,omitempty"`
}

// DriverLabels returns the labels of the given drivers in order
func DriverLabels(drivers []Driver) []string {
	labels := make([]string, len(drivers))
	for i, d := range drivers {
		labels[i] = d.Label
	}
	return labels
}

// ScoreResult is the composite score of one customer-week
// Tier is derived from Score at construction and never set independently.
type ScoreResult struct {
	CustomerID    string        `json:"customer_id"`
	Week          int           `json:"week"`
	Score         float64       `json:"risk_score"`
	Tier          Tier          `json:"risk_tier"`
	Contributions Contributions `json:"contributions"`
}

// ScorePoint is one week of a customer's score history
type ScorePoint struct {
	Week  int     `json:"week"`
	Score float64 `json:"score"`
}

package portfolio

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/wonny/pdie/internal/contracts"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrWeekNotFound     = errors.New("week not found")
)

// Dataset is the validated, ordered collection of Signal Records keyed by (customer, week)
// ⭐ SSOT: immutable after NewDataset; every view is a read-only projection
type Dataset struct {
	customers  []string
	byCustomer map[string][]contracts.SignalRecord
	latestWeek int
	size       int
}

// NewDataset validates records and indexes them per customer in week order
// Rejects malformed records, duplicate (customer, week) pairs and gaps in a
// customer's weeks. Records may arrive in any order.
func NewDataset(records []contracts.SignalRecord) (*Dataset, error) {
	byCustomer := make(map[string][]contracts.SignalRecord)
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		byCustomer[r.CustomerID] = append(byCustomer[r.CustomerID], r)
	}

	ds := &Dataset{
		customers:  make([]string, 0, len(byCustomer)),
		byCustomer: byCustomer,
		size:       len(records),
	}

	for id, history := range byCustomer {
		sort.SliceStable(history, func(i, j int) bool { return history[i].Week < history[j].Week })

		for i, r := range history {
			expected := i + 1
			if r.Week == expected {
				continue
			}
			if i > 0 && r.Week == history[i-1].Week {
				return nil, &contracts.InputError{CustomerID: id, Week: r.Week, Field: "week", Message: "duplicate record"}
			}
			return nil, &contracts.InputError{
				CustomerID: id,
				Week:       r.Week,
				Field:      "week",
				Message:    fmt.Sprintf("non-contiguous weeks: expected week %d", expected),
			}
		}

		ds.customers = append(ds.customers, id)
		ds.latestWeek = max(ds.latestWeek, len(history))
	}
	sort.Strings(ds.customers)

	return ds, nil
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return d.size
}

// Customers returns customer ids in ascending order
func (d *Dataset) Customers() []string {
	out := make([]string, len(d.customers))
	copy(out, d.customers)
	return out
}

// LatestWeek returns the highest week present in the dataset (0 when empty)
func (d *Dataset) LatestWeek() int {
	return d.latestWeek
}

// History returns a customer's records in ascending week order
func (d *Dataset) History(customerID string) ([]contracts.SignalRecord, error) {
	history, ok := d.byCustomer[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}
	out := make([]contracts.SignalRecord, len(history))
	copy(out, history)
	return out, nil
}

// LastWeek returns the last week observed for a customer
func (d *Dataset) LastWeek(customerID string) (int, error) {
	history, ok := d.byCustomer[customerID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}
	return len(history), nil
}

// Record returns one customer-week
// Weeks are contiguous from 1, so week n sits at index n-1.
func (d *Dataset) Record(customerID string, week int) (contracts.SignalRecord, error) {
	history, ok := d.byCustomer[customerID]
	if !ok {
		return contracts.SignalRecord{}, fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}
	if week < 1 || week > len(history) {
		return contracts.SignalRecord{}, fmt.Errorf("%w: customer %s has weeks 1..%d, got %d", ErrWeekNotFound, customerID, len(history), week)
	}
	return history[week-1], nil
}

// Records returns every record ordered by customer then week
func (d *Dataset) Records() []contracts.SignalRecord {
	out := make([]contracts.SignalRecord, 0, d.size)
	for _, id := range d.customers {
		out = append(out, d.byCustomer[id]...)
	}
	return out
}

// Fingerprint is a stable SHA-256 digest of the dataset contents
// Used as part of derived-report cache keys.
func (d *Dataset) Fingerprint() string {
	h := sha256.New()
	buf := make([]byte, 8)
	putInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		h.Write(buf)
	}
	putFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}

	for _, r := range d.Records() {
		h.Write([]byte(r.CustomerID))
		h.Write([]byte{0})
		putInt(int64(r.Week))
		putInt(int64(r.SalaryDelayDays))
		putFloat(r.SavingsDropPct)
		putFloat(r.DiscretionarySpendChangePct)
		putInt(int64(r.UtilityPaymentDelayDays))
		putInt(int64(r.LendingAppUPITxnCount))
		putFloat(r.ATMWithdrawalSpikePct)
		if r.FailedAutodebit {
			putInt(1)
		} else {
			putInt(0)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

package portfolio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pdie/internal/contracts"
)

func TestNewDataset_IndexesAndOrders(t *testing.T) {
	records := fixtureRecords()
	// reverse to prove input order does not matter
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	ds, err := NewDataset(records)
	require.NoError(t, err)

	assert.Equal(t, 14, ds.Len())
	assert.Equal(t, 3, ds.LatestWeek())
	assert.Equal(t, []string{"C001", "C002", "C003", "C004", "C005"}, ds.Customers())

	history, err := ds.History("C001")
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, r := range history {
		assert.Equal(t, i+1, r.Week)
	}

	last, err := ds.LastWeek("C004")
	require.NoError(t, err)
	assert.Equal(t, 2, last)

	r, err := ds.Record("C001", 3)
	require.NoError(t, err)
	assert.True(t, r.FailedAutodebit)

	all := ds.Records()
	assert.Equal(t, "C001", all[0].CustomerID)
	assert.Equal(t, "C005", all[len(all)-1].CustomerID)
}

func TestNewDataset_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		records []contracts.SignalRecord
		field   string
		message string
	}{
		{
			name:    "duplicate week",
			records: []contracts.SignalRecord{calm("C1", 1), calm("C1", 2), calm("C1", 2)},
			field:   "week",
			message: "duplicate record",
		},
		{
			name:    "gap",
			records: []contracts.SignalRecord{calm("C1", 1), calm("C1", 3)},
			field:   "week",
			message: "non-contiguous weeks: expected week 2",
		},
		{
			name:    "does not start at week one",
			records: []contracts.SignalRecord{calm("C1", 2), calm("C1", 3)},
			field:   "week",
			message: "non-contiguous weeks: expected week 1",
		},
		{
			name: "negative delay",
			records: []contracts.SignalRecord{
				calm("C1", 1),
				{CustomerID: "C1", Week: 2, UtilityPaymentDelayDays: -3},
			},
			field: string(contracts.SignalUtilityDelay),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewDataset(tt.records)
			require.Error(t, err)
			assert.Nil(t, ds)
			assert.True(t, errors.Is(err, contracts.ErrInvalidInput))

			var inputErr *contracts.InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.field, inputErr.Field)
			if tt.message != "" {
				assert.Equal(t, tt.message, inputErr.Message)
			}
		})
	}
}

func TestDataset_Lookups(t *testing.T) {
	ds, err := NewDataset(fixtureRecords())
	require.NoError(t, err)

	_, err = ds.History("C999")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = ds.Record("C999", 1)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = ds.Record("C004", 3)
	assert.ErrorIs(t, err, ErrWeekNotFound)

	_, err = ds.Record("C001", 0)
	assert.ErrorIs(t, err, ErrWeekNotFound)
}

func TestDataset_ReadOnlyProjections(t *testing.T) {
	ds, err := NewDataset(fixtureRecords())
	require.NoError(t, err)

	history, _ := ds.History("C002")
	history[0].SalaryDelayDays = 99
	customers := ds.Customers()
	customers[0] = "X"

	again, _ := ds.History("C002")
	assert.Equal(t, 7, again[0].SalaryDelayDays)
	assert.Equal(t, "C001", ds.Customers()[0])
}

func TestDataset_Empty(t *testing.T) {
	ds, err := NewDataset(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.LatestWeek())
	assert.Empty(t, ds.Customers())
	assert.Len(t, ds.Fingerprint(), 64)
}

func TestDataset_Fingerprint(t *testing.T) {
	a, err := NewDataset(fixtureRecords())
	require.NoError(t, err)

	shuffled := fixtureRecords()
	shuffled[0], shuffled[5] = shuffled[5], shuffled[0]
	b, err := NewDataset(shuffled)
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	changed := fixtureRecords()
	changed[0].SavingsDropPct = 0.5
	c, err := NewDataset(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

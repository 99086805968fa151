package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wonny/pdie/internal/contracts"
)

// Columns is the canonical column order of a signal file or table
var Columns = []string{
	"customer_id",
	"week",
	string(contracts.SignalSalaryDelay),
	string(contracts.SignalSavingsDrop),
	string(contracts.SignalDiscretionary),
	string(contracts.SignalUtilityDelay),
	string(contracts.SignalLendingApp),
	string(contracts.SignalATMSpike),
	string(contracts.SignalAutodebit),
}

// CSVSource reads signal records from a CSV file with a header row
// Column order is free; every column of Columns must be present.
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV source
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name implements contracts.SignalSource
func (s *CSVSource) Name() string {
	return "csv"
}

// Load implements contracts.SignalSource
func (s *CSVSource) Load(ctx context.Context) ([]contracts.SignalRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open signal file: %w", err)
	}
	defer f.Close()
	return ReadCSV(ctx, f)
}

// ReadCSV parses records from r
func ReadCSV(ctx context.Context, r io.Reader) ([]contracts.SignalRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range Columns {
		if _, ok := idx[col]; !ok {
			return nil, &contracts.InputError{Field: col, Message: "missing column"}
		}
	}

	var records []contracts.SignalRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, idx map[string]int) (contracts.SignalRecord, error) {
	p := rowParser{row: row, idx: idx}
	rec := contracts.SignalRecord{CustomerID: p.str("customer_id")}
	rec.Week = p.int("week")
	p.rec = &rec

	rec.SalaryDelayDays = p.int(string(contracts.SignalSalaryDelay))
	rec.SavingsDropPct = p.float(string(contracts.SignalSavingsDrop))
	rec.DiscretionarySpendChangePct = p.float(string(contracts.SignalDiscretionary))
	rec.UtilityPaymentDelayDays = p.int(string(contracts.SignalUtilityDelay))
	rec.LendingAppUPITxnCount = p.int(string(contracts.SignalLendingApp))
	rec.ATMWithdrawalSpikePct = p.float(string(contracts.SignalATMSpike))
	rec.FailedAutodebit = p.flag(string(contracts.SignalAutodebit))

	if p.err != nil {
		return contracts.SignalRecord{}, p.err
	}
	return rec, nil
}

// rowParser keeps the first conversion error
type rowParser struct {
	row []string
	idx map[string]int
	rec *contracts.SignalRecord
	err error
}

func (p *rowParser) str(col string) string {
	i := p.idx[col]
	if i >= len(p.row) {
		return ""
	}
	return strings.TrimSpace(p.row[i])
}

func (p *rowParser) fail(col, msg string) {
	if p.err != nil {
		return
	}
	e := &contracts.InputError{Field: col, Message: msg}
	if p.rec != nil {
		e.CustomerID, e.Week = p.rec.CustomerID, p.rec.Week
	}
	p.err = e
}

func (p *rowParser) int(col string) int {
	v, err := strconv.Atoi(p.str(col))
	if err != nil {
		p.fail(col, fmt.Sprintf("not an integer: %q", p.str(col)))
	}
	return v
}

func (p *rowParser) float(col string) float64 {
	v, err := strconv.ParseFloat(p.str(col), 64)
	if err != nil {
		p.fail(col, fmt.Sprintf("not a number: %q", p.str(col)))
	}
	return v
}

func (p *rowParser) flag(col string) bool {
	switch strings.ToLower(p.str(col)) {
	case "1", "true":
		return true
	case "0", "false":
		return false
	}
	p.fail(col, fmt.Sprintf("must be 0 or 1, got %q", p.str(col)))
	return false
}

// WriteCSV writes records with the canonical header
func WriteCSV(w io.Writer, records []contracts.SignalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		autodebit := "0"
		if r.FailedAutodebit {
			autodebit = "1"
		}
		row := []string{
			r.CustomerID,
			strconv.Itoa(r.Week),
			strconv.Itoa(r.SalaryDelayDays),
			strconv.FormatFloat(r.SavingsDropPct, 'f', -1, 64),
			strconv.FormatFloat(r.DiscretionarySpendChangePct, 'f', -1, 64),
			strconv.Itoa(r.UtilityPaymentDelayDays),
			strconv.Itoa(r.LendingAppUPITxnCount),
			strconv.FormatFloat(r.ATMWithdrawalSpikePct, 'f', -1, 64),
			autodebit,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

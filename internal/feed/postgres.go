package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/pdie/internal/contracts"
)

// Querier is the subset of pgxpool.Pool used by the feed
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads weekly signal rows from a table (read-only)
// The table must expose the columns of Columns; autodebit may be boolean or 0/1.
type PostgresSource struct {
	db    Querier
	table string
}

// NewPostgresSource creates a source over table ("name" or "schema.name")
func NewPostgresSource(db Querier, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

// Name implements contracts.SignalSource
func (s *PostgresSource) Name() string {
	return "postgres"
}

// Query returns the SELECT statement, with the table name quoted
func (s *PostgresSource) Query() string {
	ident := pgx.Identifier(strings.Split(s.table, ".")).Sanitize()
	return fmt.Sprintf(`
		SELECT customer_id, week,
		       salary_delay_days, savings_drop_pct, discretionary_spend_change_pct,
		       utility_payment_delay_days, lending_app_upi_txn_count, atm_withdrawal_spike_pct,
		       failed_autodebit::int <> 0
		FROM %s
		ORDER BY customer_id, week
	`, ident)
}

// Load implements contracts.SignalSource
func (s *PostgresSource) Load(ctx context.Context) ([]contracts.SignalRecord, error) {
	rows, err := s.db.Query(ctx, s.Query())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.SignalRecord, error) {
		var r contracts.SignalRecord
		err := row.Scan(
			&r.CustomerID, &r.Week,
			&r.SalaryDelayDays, &r.SavingsDropPct, &r.DiscretionarySpendChangePct,
			&r.UtilityPaymentDelayDays, &r.LendingAppUPITxnCount, &r.ATMWithdrawalSpikePct,
			&r.FailedAutodebit,
		)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.table, err)
	}
	return records, nil
}

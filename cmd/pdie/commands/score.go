package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/pkg/money"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show the risk view of one customer-week",
	Long: `Scores one customer-week and prints the tier, top drivers, trend,
stability, recommended intervention, prevention strategy and projection.

Example:
  go run ./cmd/pdie score --customer C001
  go run ./cmd/pdie score --customer C001 --week 9 --json`,
	RunE: runScore,
}

var (
	scoreCustomer string
	scoreWeek     int
)

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreCustomer, "customer", "", "customer id (required)")
	scoreCmd.Flags().IntVar(&scoreWeek, "week", 0, "week number (default: customer's latest)")
	_ = scoreCmd.MarkFlagRequired("customer")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	ds, _, err := a.service.Current(ctx)
	if err != nil {
		return err
	}
	view, err := a.analyzer.CustomerView(ds, scoreCustomer, scoreWeek)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, view)
	}

	res := view.Result
	printHeader(w, fmt.Sprintf("Customer %s · week %d", res.CustomerID, res.Week))
	printKeyValue(w, "Risk score", fmt.Sprintf("%.3f", res.Score))
	printKeyValue(w, "Risk tier", tierIcon(res.Tier))
	printKeyValue(w, "Trend", fmt.Sprintf("%s (slope %+.3f/wk)", trendText(view.Trend.Label), view.Trend.Slope))
	printKeyValue(w, "Stability", fmt.Sprintf("%s (σ %.3f)", view.Stability.Label, view.Stability.StdDev))
	printKeyValue(w, "Lead time", view.LeadTime.Horizon)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  Top drivers")
	for i, d := range view.Drivers {
		fmt.Fprintf(w, "   %d. %-30s %.3f\n      %s\n", i+1, d.Label, d.Contribution, d.Explanation)
	}

	rec := view.Recommendation
	fmt.Fprintln(w, rule)
	printKeyValue(w, "Action", rec.Action)
	printKeyValue(w, "Channel", rec.Channel)
	printKeyValue(w, "Message", rec.Message)
	printKeyValue(w, "Rationale", rec.Rationale)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  Prevention strategy")
	for _, row := range view.Strategy {
		fmt.Fprintf(w, "   • %-30s → %s\n", row.Label, row.Mechanism)
	}

	p := view.Projection
	fmt.Fprintln(w, rule)
	printKeyValue(w, "Projected score", fmt.Sprintf("%.3f → %.3f (−%s)", p.Score, p.AdjustedScore, money.FormatPct(p.Reduction)))
	printKeyValue(w, "Projected tier", fmt.Sprintf("%s → %s", p.Tier, p.AdjustedTier))
	printKeyValue(w, "Expected acceptance", money.FormatPct(p.AcceptanceRate))
	printKeyValue(w, "History", historyLine(view.History))
	return nil
}

func historyLine(points []contracts.ScorePoint) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.2f", p.Score)
	}
	return strings.Join(parts, " ")
}

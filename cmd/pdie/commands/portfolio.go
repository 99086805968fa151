package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Latest-week portfolio snapshot and KPIs",
	Long: `Scores every customer at the latest week and prints the riskiest rows
(score descending) plus the portfolio KPIs.

Example:
  go run ./cmd/pdie snapshot --top 20`,
	RunE: runSnapshot,
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "RM case queue (High tier, P1 when rising)",
	RunE:  runQueue,
}

var snapshotTop int

func init() {
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(queueCmd)
	snapshotCmd.Flags().IntVar(&snapshotTop, "top", 15, "rows to print (0 = all)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	_, report, err := a.service.Current(ctx)
	if err != nil {
		return err
	}
	snap := report.Snapshot

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, snap)
	}

	k := snap.KPIs
	printHeader(w, fmt.Sprintf("Portfolio snapshot · week %d", snap.Week))
	printKeyValue(w, "Customers monitored", fmt.Sprintf("%d", k.Monitored))
	printKeyValue(w, "High / Medium / Low", fmt.Sprintf("%d / %d / %d", k.HighCount, k.MediumCount, k.LowCount))
	printKeyValue(w, "Average score", fmt.Sprintf("%.3f", k.AverageScore))
	printKeyValue(w, "Rising / Falling / Stable", fmt.Sprintf("%d / %d / %d", k.Rising, k.Falling, k.Stable))
	printKeyValue(w, "Config hash", snap.ConfigHash[:12])
	fmt.Fprintln(w, rule)

	rows := snap.Rows
	if snapshotTop > 0 && len(rows) > snapshotTop {
		rows = rows[:snapshotTop]
	}
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{r.CustomerID, fmt.Sprintf("%.3f", r.Score), tierIcon(r.Tier), trendText(r.Trend), r.TopReason}
	}
	printTable(w, []string{"Customer", "Score", "Tier", "Trend", "Top reason"}, []int{8, 6, 10, 10, 30}, table)
	return nil
}

func runQueue(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	_, report, err := a.service.Current(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, report.Queue)
	}

	printHeader(w, fmt.Sprintf("RM case queue · week %d · %d cases", report.Snapshot.Week, len(report.Queue)))
	table := make([][]string, len(report.Queue))
	for i, q := range report.Queue {
		table[i] = []string{string(q.Priority), q.CustomerID, fmt.Sprintf("%.3f", q.Score), trendText(q.Trend), q.TopReason, q.Action}
	}
	printTable(w, []string{"Prio", "Customer", "Score", "Trend", "Top reason", "Action"}, []int{4, 8, 6, 10, 28, 40}, table)
	return nil
}

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/pdie/internal/impact"
	"github.com/wonny/pdie/pkg/money"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project the portfolio impact of capacity-limited outreach",
	Long: `Runs the impact simulator on the latest-week tier counts with the engine's
impact parameters. --capacity overrides weekly outreach capacity; --sweep
prints net savings across several capacities.

Example:
  go run ./cmd/pdie simulate
  go run ./cmd/pdie simulate --capacity 40 --sweep 0,40,80,120`,
	RunE: runSimulate,
}

var (
	simCapacity int
	simSweep    string
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntVar(&simCapacity, "capacity", -1, "weekly outreach capacity (default: engine config)")
	simulateCmd.Flags().StringVar(&simSweep, "sweep", "", "comma-separated capacities to compare")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sweep, err := parseCapacities(simSweep)
	if err != nil {
		return err
	}

	a, err := loadApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	ds, _, err := a.service.Current(ctx)
	if err != nil {
		return err
	}

	params := a.engine.Impact
	if cmd.Flags().Changed("capacity") {
		params.WeeklyCapacity = simCapacity
	}

	run, err := a.analyzer.SimulateImpact(ctx, ds, &params)
	if err != nil {
		return err
	}

	var points []impact.SweepPoint
	if len(sweep) > 0 {
		sim, err := impact.NewSimulator(params)
		if err != nil {
			return err
		}
		if points, err = sim.CapacitySweep(run.Report.Counts, sweep); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, map[string]interface{}{"run": run, "sweep": points})
	}

	r := run.Report
	printHeader(w, "Portfolio impact simulation")
	printKeyValue(w, "Run ID", run.RunID)
	printKeyValue(w, "At-risk (High / Medium)", fmt.Sprintf("%d / %d", r.Counts.High, r.Counts.Medium))
	printKeyValue(w, "Weekly capacity", strconv.Itoa(r.Allocation.Capacity))
	printKeyValue(w, "Contacted this week", fmt.Sprintf("%d (High %d, Medium %d)", r.Allocation.Contacted, r.Allocation.ContactedHigh, r.Allocation.ContactedMedium))
	printKeyValue(w, "Overflow", strconv.Itoa(r.Allocation.Overflow))
	printKeyValue(w, "Capacity utilisation", money.FormatPct(r.Allocation.Utilisation))
	fmt.Fprintln(w, rule)
	printKeyValue(w, "Defaults without engine", fmt.Sprintf("%.1f", r.WithoutEngine.Defaults))
	printKeyValue(w, "Defaults with engine", fmt.Sprintf("%.1f", r.WithEngine.Defaults))
	printKeyValue(w, "Default reduction", money.FormatPct(r.Net.DefaultReduction))
	printKeyValue(w, "Credit loss avoided", money.FormatINR(r.Net.CreditLossAvoided))
	printKeyValue(w, "Collection cost saved", money.FormatINR(r.Net.CollectionCostSaved))
	printKeyValue(w, "Outreach cost", money.FormatINR(r.Net.OutreachCost))
	printKeyValue(w, "Net savings", money.FormatINR(r.Net.NetSavings))
	fmt.Fprintln(w, rule)
	f := r.Funnel
	printKeyValue(w, "Funnel", fmt.Sprintf("flagged %d → contacted %d → accepting %d → defaults avoided %d", f.Flagged, f.Contacted, f.Accepting, f.DefaultsAvoided))

	if len(points) > 0 {
		fmt.Fprintln(w, rule)
		table := make([][]string, len(points))
		for i, p := range points {
			table[i] = []string{strconv.Itoa(p.Capacity), strconv.Itoa(p.Contacted), strconv.Itoa(p.Overflow), strconv.Itoa(p.DefaultsAvoided), money.FormatINR(p.NetSavings)}
		}
		printTable(w, []string{"Capacity", "Contacted", "Overflow", "Avoided", "Net savings"}, []int{8, 9, 8, 7, 14}, table)
	}
	return nil
}

func parseCapacities(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid capacity %q in --sweep", p)
		}
		out = append(out, n)
	}
	return out, nil
}

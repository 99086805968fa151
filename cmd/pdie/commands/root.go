package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	engineConfigPath string
	feedSource       string
	jsonOutput       bool
	verbose          bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pdie",
	Short: "Pre-delinquency intervention engine",
	Long: `PDIE scores weekly financial-stress signals per customer, ranks the drivers,
recommends an intervention and projects the portfolio impact of outreach.

Usage:
  go run ./cmd/pdie [command]

Examples:
  go run ./cmd/pdie score --customer C001
  go run ./cmd/pdie snapshot --top 20
  go run ./cmd/pdie simulate --capacity 80 --sweep 0,40,80,120
  go run ./cmd/pdie config validate config/engine/pdie_v1.yaml
  go run ./cmd/pdie api`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&engineConfigPath, "engine-config", "", "engine YAML (default: ENGINE_CONFIG or built-in pdie_v1)")
	rootCmd.PersistentFlags().StringVar(&feedSource, "feed", "", "signal feed: synthetic|csv|postgres|http (default: FEED_SOURCE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

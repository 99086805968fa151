package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/pdie/internal/feed"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Signal feed utilities",
}

var feedExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current feed to CSV",
	Long: `Loads the configured feed and writes it as CSV. With the synthetic feed this
produces a reproducible sample that the csv feed can read back.

Example:
  go run ./cmd/pdie feed export --out data/signals.csv`,
	RunE: runFeedExport,
}

var feedOut string

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.AddCommand(feedExportCmd)
	feedExportCmd.Flags().StringVar(&feedOut, "out", "", "output file (default: stdout)")
}

func runFeedExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s feed: %w", a.source.Name(), err)
	}

	if feedOut == "" {
		return feed.WriteCSV(cmd.OutOrStdout(), records)
	}

	f, err := os.Create(feedOut)
	if err != nil {
		return err
	}
	if err := feed.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.log.Infof("exported %d %s feed rows to %s", len(records), a.source.Name(), feedOut)
	fmt.Fprintf(cmd.ErrOrStderr(), "✅ %d rows written to %s\n", len(records), feedOut)
	return nil
}

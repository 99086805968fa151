package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/pdie/internal/engineconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect engine configuration",
	Long: `Validates, hashes or prints the engine YAML (weights, thresholds,
intervention rules, impact defaults).

Example:
  go run ./cmd/pdie config validate config/engine/pdie_v1.yaml
  go run ./cmd/pdie config hash
  go run ./cmd/pdie config default > my_engine.yaml`,
}

var (
	configValidateCmd = &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate an engine YAML and print warnings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigValidate,
	}

	configHashCmd = &cobra.Command{
		Use:   "hash [path]",
		Short: "Print the canonical config hash",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigHash,
	}

	configDefaultCmd = &cobra.Command{
		Use:   "default",
		Short: "Print the built-in engine config as YAML",
		Args:  cobra.NoArgs,
		RunE:  runConfigDefault,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configHashCmd)
	configCmd.AddCommand(configDefaultCmd)
}

// engineFromArgs loads the positional path, then --engine-config, then built-in defaults
func engineFromArgs(args []string) (*engineconfig.Config, error) {
	path := engineConfigPath
	if len(args) > 0 {
		path = args[0]
	}
	return engineconfig.LoadOrDefault(path)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := engineFromArgs(args)
	if err != nil {
		return err
	}
	hash, err := engineconfig.Hash(cfg)
	if err != nil {
		return err
	}
	warnings := engineconfig.Warn(cfg)

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, map[string]interface{}{
			"valid":       true,
			"engine_id":   cfg.Meta.EngineID,
			"config_hash": hash,
			"warnings":    warnings,
		})
	}

	printHeader(w, "Engine config")
	printKeyValue(w, "Engine ID", cfg.Meta.EngineID)
	printKeyValue(w, "Config hash", hash)
	printKeyValue(w, "Status", "✅ valid")
	for _, warn := range warnings {
		fmt.Fprintf(w, "   ⚠️  %s: %s\n", warn.Code, warn.Message)
	}
	return nil
}

func runConfigHash(cmd *cobra.Command, args []string) error {
	cfg, err := engineFromArgs(args)
	if err != nil {
		return err
	}
	hash, err := engineconfig.Hash(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

func runConfigDefault(cmd *cobra.Command, args []string) error {
	data, err := engineconfig.Marshal(engineconfig.Default())
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

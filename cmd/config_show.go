package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"traininghours/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Without a
config file the built-in defaults are shown.`,
	Example: `
  # Show active configuration
  traininghours config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Config file loaded from:", configPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No config file loaded, using defaults.")
		}
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

type configEntry struct {
	key   string
	value string
}

// configEntries flattens cfg into its dotted keys in display order.
func configEntries(cfg *config.Config) []configEntry {
	return []configEntry{
		{config.KeyLoggingLevel, cfg.Logging.Level},
		{config.KeyLoggingDir, cfg.Logging.Dir},
		{config.KeyLoggingConsole, strconv.FormatBool(cfg.Logging.Console)},
		{config.KeyTransformMissingName, cfg.Transform.MissingNamePlaceholder},
		{config.KeyTransformMissingSchool, cfg.Transform.MissingSchoolPlaceholder},
		{config.KeyTransformStrictHours, strconv.FormatBool(cfg.Transform.StrictHours)},
		{config.KeyHistoryEnabled, strconv.FormatBool(cfg.History.Enabled)},
		{config.KeyHistoryDB, cfg.History.DB},
		{config.KeyServePort, strconv.Itoa(cfg.Serve.Port)},
	}
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration:")
	for _, entry := range configEntries(cfg) {
		fmt.Fprintf(w, "%s: %s\n", entry.key, entry.value)
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

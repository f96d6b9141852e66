package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDeletePurgeHistory bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the traininghours config file.",
	Long: `Delete the config file traininghours loaded (or the one named by --configFile).

Generated reports and log files are never touched. The run history database
named by history.db is kept unless --purge-history is set.`,
	Example: `
  # Remove the config, keep the run history
  traininghours config delete

  # Remove a project config together with its history database
  traininghours --configFile ./.traininghours.yaml config delete --purge-history
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.ConfigFileUsed()
		if path == "" {
			path = cfgFile
		}
		return deleteConfig(cmd.OutOrStdout(), path, configDeletePurgeHistory)
	},
}

// deleteConfig removes the config at path. With purgeHistory the history
// database it configures is removed as well.
func deleteConfig(w io.Writer, path string, purgeHistory bool) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("no configuration file in use")
	}

	historyDB := ""
	if purgeHistory {
		cfg, err := validateConfigFile(path)
		if err != nil {
			return fmt.Errorf("cannot locate history database: %w", err)
		}
		historyDB = cfg.History.DB
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete config %s: %w", path, err)
	}
	fmt.Fprintf(w, "Deleted config %s\n", path)

	if historyDB == "" {
		return nil
	}
	switch err := os.Remove(historyDB); {
	case err == nil:
		fmt.Fprintf(w, "Deleted run history %s\n", historyDB)
	case os.IsNotExist(err):
		fmt.Fprintf(w, "No run history at %s\n", historyDB)
	default:
		return fmt.Errorf("delete run history %s: %w", historyDB, err)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVar(&configDeletePurgeHistory, "purge-history", false, "Also delete the history.db database named in the config")
}

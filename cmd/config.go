package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage traininghours configuration file values.",
	Long: `Create, edit, display, and delete the traininghours configuration file.

The configuration stores application-wide values:
- logging.level / logging.dir / logging.console
- transform.missing_name_placeholder / transform.missing_school_placeholder / transform.strict_hours
- history.enabled / history.db
- serve.port`,
	Example: `
  # Create default config in $HOME/.traininghours.yaml
  traininghours config create

  # Show active config and source file
  traininghours config show

  # Open active config in editor (creates example if missing)
  traininghours config edit

  # Delete active config file
  traininghours config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

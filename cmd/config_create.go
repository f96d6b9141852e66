package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCreateForce bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

If a configuration file is already in use, no new file is written unless --force is set.`,
	Example: `
  # Create default config at $HOME/.traininghours.yaml
  traininghours config create

  # Reset a project-local config to the template
  traininghours --configFile ./.traininghours.yaml config create --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(cmd.OutOrStdout(), configCreateForce)
	},
}

func saveDefaultConfig(w io.Writer, force bool) error {
	configPath, err := configTargetPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath, force)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(w, "New config file created at: %s\n", configPath)
		return nil
	}

	fmt.Fprintf(w, "Config file already exists at: %s\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().BoolVar(&configCreateForce, "force", false, "Overwrite an existing config file with the template")
}

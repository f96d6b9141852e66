/*
Copyright © 2025 traininghours authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"traininghours/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "traininghours",
	Short: "Summarize instructor training hours into a monthly Excel report.",
	Long: `
**********************************************
*             TRAINING HOURS                 *
**********************************************

This CLI reads an instructor session export (Excel .xlsx or legacy .xls), skips
malformed rows with a warning, sums training hours per month, instructor, school,
payment framework and day, and writes one worksheet per month with SUM formulas.

Required header columns:
timestamp, Instructors_email, date, Instructors_name, instructors_school,
training_hours, paying_framework, teaching_content, learning_outcomes,
atmosphere, technical_problems, conversation_summary, remarks, general_situation
`,
	Example: `
  # Create configuration file
  traininghours config create

  # Build the monthly report
  traininghours transform -i sessions.xlsx -o report.xlsx

  # Also export rejected rows and print per-month statistics
  traininghours transform -i sessions.xls -o report --warnings-csv rejected.csv --stats

  # Serve the transform over a local HTTP API
  traininghours serve --port 9090

  # List recent runs from the history journal
  traininghours history --limit 20
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.traininghours.yaml, then ./.traininghours.yaml)")
}

// initConfig reads in .env, the config file and ENV variables if set.
func initConfig() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".traininghours" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".traininghours")
	}

	viper.SetEnvPrefix("TRAININGHOURS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Defaults cover every key, so only an explicit config file is required.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Could not read config file %s: %v\n", cfgFile, err)
	}
}

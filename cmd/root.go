package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/raghuporumamila/generic-bigquery/internal/config"
	"github.com/raghuporumamila/generic-bigquery/internal/ui"
	"github.com/raghuporumamila/generic-bigquery/pkg/models"
)

var (
	cfgFile string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "bqmerge",
		Short: "Define and run BigQuery generic merge workflows",
		Long: "bqmerge builds CALL statements for a generic merge stored procedure,\n" +
			"registers them as workflow tasks and can execute them against BigQuery.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.bqmerge/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().SetNormalizeFunc(normalizeFlagName)
}

// normalizeFlagName accepts snake_case spellings of flag names
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(fmt.Sprintf("%s/.bqmerge", home))
	}

	viper.SetEnvPrefix("BQMERGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is okay for now
	}
}

// loadConfig resolves the workflow configuration: the --config flag
// wins, then a config.yaml found by viper, then the default path.
func loadConfig() (*models.Config, error) {
	if cfgFile != "" {
		return config.LoadFile(cfgFile)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return config.LoadFile(used)
	}
	return config.Load()
}

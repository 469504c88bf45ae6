package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "gridtariff",
	Short: "Grid tariff simulation for EV charging",
	Long: "gridtariff evaluates electricity grid tariff designs against their " +
		"effect on EV charging behavior: it schedules charging sessions under " +
		"each tariff structure and exports the resulting load curves, peaks " +
		"and bills.",
}

func init() {
	// A .env file may carry broker or InfluxDB credentials; absence is fine.
	_ = godotenv.Load()
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	envFile   string
	logLevel  string
	logFormat string
	seed      int64
	listen    string
	reportIDs []string
)

var rootCmd = &cobra.Command{
	Use:   "dwdash",
	Short: "Data warehouse dashboard",
	Long: `A single-page analytical dashboard over an AdventureWorks-style data
warehouse.

Reports:
  - standard-cost          Standard Cost per Product per Month
  - department-geography   Distribution of Department Name by Geography
  - education-composition  Customer Education Composition by Country
  - category-count         Product Category Name Count

Each report runs fixed read-only queries, joins and aggregates the results
in memory and renders one chart.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config and secrets
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "dwdash.yaml",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"Path to a .env file with warehouse credentials (optional unless set)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Report overrides
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0,
		"Override the seed of synthetic pairings")
	rootCmd.PersistentFlags().StringSliceVarP(&reportIDs, "report", "r", nil,
		"Run only these reports (repeatable or comma separated)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	Seed      int64
	Listen    string
	Reports   []string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		Seed:      seed,
		Listen:    listen,
		Reports:   reportIDs,
	}
}

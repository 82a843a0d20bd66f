// Package commands implements the CLI commands for the miragebench
// filesystem benchmark harness.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miragefs/miragefs/internal/bench"
	"github.com/miragefs/miragefs/internal/logger"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "miragebench",
	Short: "miragebench - filesystem benchmark harness",
	Long: `miragebench exercises the miragefs filesystem backends with named
workloads and reports per-operation timings. The in-memory fake backend and
the OS-backed passthrough share one interface, so the same workloads measure
both.

Use "miragebench [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/miragebench/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}

// loadConfig loads the configuration honoring the global --config flag.
func loadConfig() (*bench.Config, error) {
	path := cfgFile
	if path == "" {
		path = bench.GetDefaultConfigPath()
	}
	return bench.Load(path)
}

// initLogger initializes the structured logger from configuration.
func initLogger(cfg *bench.Config) error {
	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

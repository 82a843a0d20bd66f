package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miragefs/miragefs/internal/bench"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample workload configuration file",
	Long: `Initialize a sample miragebench configuration file.

By default, the configuration file is created at
$XDG_CONFIG_HOME/miragebench/config.yaml. Use --config to specify a custom
path.

Examples:
  # Initialize with default location
  miragebench init

  # Initialize with custom path
  miragebench init --config ./bench.yaml

  # Force overwrite existing config
  miragebench init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = bench.GetDefaultConfigPath()
	}

	if err := bench.InitConfig(configPath, initForce); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize workloads")
	fmt.Println("  2. Run the benchmarks with: miragebench run")
	fmt.Printf("  3. Or specify the config explicitly: miragebench run --config %s\n", configPath)

	return nil
}

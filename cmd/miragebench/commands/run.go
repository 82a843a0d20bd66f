package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miragefs/miragefs/internal/bench"
	"github.com/miragefs/miragefs/internal/logger"
	"github.com/miragefs/miragefs/pkg/fs/fakefs"
	"github.com/miragefs/miragefs/pkg/fs/osfs"
)

var (
	runBackend    string
	runIterations int
	runWorkloads  []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark workloads",
	Long: `Run the configured benchmark workloads against a filesystem backend.

The backend, iteration count and workload selection come from the
configuration file and can be overridden per run with flags or with
MIRAGEBENCH_* environment variables.

Examples:
  # Run everything against the in-memory backend
  miragebench run

  # Compare against the real filesystem
  miragebench run --backend os

  # Run a subset with a custom iteration count
  miragebench run --workloads write,read --iterations 100000`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runBackend, "backend", "", "filesystem backend: fake or os (overrides config)")
	runCmd.Flags().IntVar(&runIterations, "iterations", 0, "iterations per workload (overrides config)")
	runCmd.Flags().StringSliceVar(&runWorkloads, "workloads", nil, "comma-separated workload names (overrides config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// CLI flags take precedence over file and environment.
	if runBackend != "" {
		cfg.Backend = runBackend
	}
	if runIterations > 0 {
		cfg.Iterations = runIterations
	}
	if len(runWorkloads) > 0 {
		cfg.Workloads = runWorkloads
	}
	if err := bench.Validate(cfg); err != nil {
		return err
	}

	if err := initLogger(cfg); err != nil {
		return err
	}

	var target bench.Target
	switch cfg.Backend {
	case "os":
		target = osfs.New()
	default:
		target = fakefs.New()
	}

	logger.Info("starting benchmark run",
		"backend", cfg.Backend,
		"iterations", cfg.Iterations,
		"payload_size", cfg.PayloadSize)

	results, err := bench.NewRunner(target, cfg).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("benchmark run failed: %w", err)
	}

	fmt.Print(bench.FormatResults(results))
	return nil
}

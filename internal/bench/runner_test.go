package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miragefs/miragefs/pkg/fs/fakefs"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Iterations = 16
	cfg.Depth = 3
	cfg.PayloadSize = 128
	return cfg
}

func TestRunnerRunsAllWorkloadsByDefault(t *testing.T) {
	fsys := fakefs.New()
	runner := NewRunner(fsys, testConfig())

	results, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, len(WorkloadNames()))
	for i, result := range results {
		assert.Equal(t, WorkloadNames()[i], result.Workload)
		assert.Equal(t, 16, result.Iterations)
		assert.Greater(t, result.Elapsed.Nanoseconds(), int64(0))
	}
}

func TestRunnerRespectsWorkloadSelection(t *testing.T) {
	fsys := fakefs.New()
	cfg := testConfig()
	cfg.Workloads = []string{"write", "read"}
	runner := NewRunner(fsys, cfg)

	results, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "write", results[0].Workload)
	assert.Equal(t, "read", results[1].Workload)
}

func TestRunnerCleansScratchDirs(t *testing.T) {
	fsys := fakefs.New()
	runner := NewRunner(fsys, testConfig())

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	listing, err := fsys.ReadDir("/tmp")
	require.NoError(t, err)
	_, err = listing.Next()
	assert.Error(t, err, "scratch dirs should be removed after the run")
}

func TestRunnerRestoresWorkingDirectory(t *testing.T) {
	fsys := fakefs.New()
	cfg := testConfig()
	cfg.Workloads = []string{"create-remove-relative"}
	runner := NewRunner(fsys, cfg)

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	cwd, err := fsys.CurrentDir()
	require.NoError(t, err)
	assert.Equal(t, "/", cwd)
}

func TestRunnerHonorsCancellation(t *testing.T) {
	fsys := fakefs.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(fsys, testConfig())
	_, err := runner.Run(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKnownWorkload(t *testing.T) {
	for _, name := range WorkloadNames() {
		assert.True(t, KnownWorkload(name))
	}
	assert.False(t, KnownWorkload("teleport"))
}

func TestFormatResults(t *testing.T) {
	out := FormatResults([]Result{{Workload: "write", Iterations: 10, Elapsed: 10}})
	assert.Contains(t, out, "WORKLOAD")
	assert.Contains(t, out, "write")
}

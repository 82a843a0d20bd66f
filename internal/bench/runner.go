package bench

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/miragefs/miragefs/internal/logger"
	"github.com/miragefs/miragefs/pkg/fs"
)

// Target is the combination of interfaces a benchmarked backend implements.
type Target interface {
	fs.FileSystem
	fs.TempFileSystem
}

// Result holds the timing of one completed workload.
type Result struct {
	Workload   string
	Iterations int
	Elapsed    time.Duration
}

// PerOp returns the average duration of a single operation.
func (r Result) PerOp() time.Duration {
	if r.Iterations == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Iterations)
}

// workload prepares an operation inside a scratch directory and returns the
// closure timed by the runner plus an optional cleanup. Preparation and
// cleanup cost is excluded from the timing.
type workload struct {
	name    string
	prepare func(target Target, root string, cfg *Config) (op func() error, cleanup func(), err error)
}

var workloads = []workload{
	{name: "create-remove", prepare: prepareCreateRemove},
	{name: "create-remove-relative", prepare: prepareCreateRemoveRelative},
	{name: "create-remove-deep", prepare: prepareCreateRemoveDeep},
	{name: "write", prepare: prepareWrite},
	{name: "read", prepare: prepareRead},
	{name: "open-read", prepare: prepareOpenRead},
}

// WorkloadNames returns the names of every available workload, in run order.
func WorkloadNames() []string {
	names := make([]string, 0, len(workloads))
	for _, w := range workloads {
		names = append(names, w.name)
	}
	return names
}

// KnownWorkload reports whether name identifies an available workload.
func KnownWorkload(name string) bool {
	for _, w := range workloads {
		if w.name == name {
			return true
		}
	}
	return false
}

// Runner executes workloads against one backend.
type Runner struct {
	target Target
	cfg    *Config
}

// NewRunner creates a runner for the given backend and configuration. The
// configuration is expected to be validated already.
func NewRunner(target Target, cfg *Config) *Runner {
	return &Runner{target: target, cfg: cfg}
}

// Run executes the configured workloads in order and returns one result per
// workload. Each workload gets its own scratch directory, removed when the
// workload finishes. The context is checked between iterations, so a
// cancellation aborts mid-workload.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	selected := r.cfg.Workloads
	if len(selected) == 0 {
		selected = WorkloadNames()
	}

	results := make([]Result, 0, len(selected))
	for _, w := range workloads {
		if !contains(selected, w.name) {
			continue
		}

		result, err := r.runOne(ctx, w)
		if err != nil {
			return results, fmt.Errorf("workload %s: %w", w.name, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, w workload) (Result, error) {
	logger.Debug("starting workload", "workload", w.name, "iterations", r.cfg.Iterations)

	tmp, err := r.target.TempDir("miragebench")
	if err != nil {
		return Result{}, fmt.Errorf("creating scratch dir: %w", err)
	}
	defer tmp.Close()

	op, cleanup, err := w.prepare(r.target, tmp.Path(), r.cfg)
	if err != nil {
		return Result{}, fmt.Errorf("preparing: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	start := time.Now()
	for i := 0; i < r.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := op(); err != nil {
			return Result{}, fmt.Errorf("iteration %d: %w", i, err)
		}
	}

	result := Result{
		Workload:   w.name,
		Iterations: r.cfg.Iterations,
		Elapsed:    time.Since(start),
	}
	logger.Debug("workload complete",
		"workload", w.name,
		"elapsed_ms", logger.Duration(start),
		"per_op", result.PerOp())
	return result, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// ============================================================================
// Workloads
// ============================================================================

func prepareCreateRemove(target Target, root string, _ *Config) (func() error, func(), error) {
	p := path.Join(root, "file.txt")
	return func() error {
		if err := target.WriteFile(p, nil); err != nil {
			return err
		}
		return target.RemoveFile(p)
	}, nil, nil
}

// prepareCreateRemoveRelative runs the create/remove cycle through a relative
// path, paying the working-directory resolution cost on every operation. The
// previous working directory is restored by the cleanup; on the OS backend
// this moves the process-wide working directory for the duration.
func prepareCreateRemoveRelative(target Target, root string, _ *Config) (func() error, func(), error) {
	previous, err := target.CurrentDir()
	if err != nil {
		return nil, nil, err
	}
	if err := target.SetCurrentDir(root); err != nil {
		return nil, nil, err
	}
	op := func() error {
		if err := target.WriteFile("file.txt", nil); err != nil {
			return err
		}
		return target.RemoveFile("file.txt")
	}
	cleanup := func() {
		if err := target.SetCurrentDir(previous); err != nil {
			logger.Warn("failed to restore working directory", "path", previous, "error", err)
		}
	}
	return op, cleanup, nil
}

func prepareCreateRemoveDeep(target Target, root string, cfg *Config) (func() error, func(), error) {
	deep := root
	for i := 0; i < cfg.Depth; i++ {
		deep = path.Join(deep, fmt.Sprintf("level-%d", i))
	}
	if err := target.CreateDirAll(deep); err != nil {
		return nil, nil, err
	}
	p := path.Join(deep, "file.txt")
	return func() error {
		if err := target.WriteFile(p, nil); err != nil {
			return err
		}
		return target.RemoveFile(p)
	}, nil, nil
}

func prepareWrite(target Target, root string, cfg *Config) (func() error, func(), error) {
	p := path.Join(root, "file.txt")
	payload := bytes.Repeat([]byte("m"), cfg.PayloadSize)
	return func() error {
		return target.WriteFile(p, payload)
	}, nil, nil
}

func prepareRead(target Target, root string, cfg *Config) (func() error, func(), error) {
	p := path.Join(root, "file.txt")
	payload := bytes.Repeat([]byte("m"), cfg.PayloadSize)
	if err := target.WriteFile(p, payload); err != nil {
		return nil, nil, err
	}
	return func() error {
		_, err := target.ReadFile(p)
		return err
	}, nil, nil
}

func prepareOpenRead(target Target, root string, cfg *Config) (func() error, func(), error) {
	p := path.Join(root, "file.txt")
	payload := bytes.Repeat([]byte("m"), cfg.PayloadSize)
	if err := target.WriteFile(p, payload); err != nil {
		return nil, nil, err
	}
	buf := make([]byte, 64)
	return func() error {
		f, err := target.Open(p)
		if err != nil {
			return err
		}
		if _, err := f.Read(buf); err != nil && err != io.EOF {
			f.Close()
			return err
		}
		return f.Close()
	}, nil, nil
}

// FormatResults renders results as an aligned plain-text table.
func FormatResults(results []Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %12s %14s %14s\n", "WORKLOAD", "ITERATIONS", "ELAPSED", "PER-OP")
	for _, r := range results {
		fmt.Fprintf(&b, "%-24s %12d %14s %14s\n",
			r.Workload, r.Iterations, r.Elapsed.Round(time.Microsecond), r.PerOp())
	}
	return b.String()
}

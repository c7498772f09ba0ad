package ludtwig

import (
	"context"
	"os"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"golang.org/x/sync/semaphore"
)

var runnerLogger = loggo.GetLogger("ludtwig.runner")

// FileResult is what one file-processing task publishes once it finishes:
// parse → lint → (optionally) fix → write, per §5's concurrency model.
type FileResult struct {
	Path        string
	Diagnostics []Diagnostic
	Fixed       bool
	Err         error
}

// RunOptions controls how Run drives the per-file pipeline.
type RunOptions struct {
	Concurrency int
	Fix         bool
	MinSeverity Severity
	Config      *Config
	Rules       []Rule
}

// Run schedules one cooperative task per path through a fixed-size
// concurrency limit (golang.org/x/sync/semaphore, mirroring the bounded
// worker pool shape the pack's manifests surface for x/sync), and streams
// each file's FileResult back over a channel preserving no cross-file
// order, exactly as §5 describes: "the renderer preserves per-file
// diagnostic ordering but makes no ordering guarantee between files."
func Run(ctx context.Context, paths []string, opts RunOptions) <-chan FileResult {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Config == nil {
		opts.Config = DefaultConfig()
	}
	if opts.Rules == nil {
		opts.Rules = CoreRules()
	}
	engine := NewEngine(opts.Rules...)

	out := make(chan FileResult, len(paths))
	sem := semaphore.NewWeighted(int64(opts.Concurrency))

	go func() {
		defer close(out)
		for _, path := range paths {
			path := path
			if err := sem.Acquire(ctx, 1); err != nil {
				out <- FileResult{Path: path, Err: errors.Trace(err)}
				continue
			}
			go func() {
				defer sem.Release(1)
				out <- processFile(path, engine, opts)
			}()
		}
		// Wait for every task to release before closing: acquiring the full
		// weight blocks until all outstanding tasks are done.
		_ = sem.Acquire(ctx, int64(opts.Concurrency))
	}()

	return out
}

func processFile(path string, engine *Engine, opts RunOptions) (result FileResult) {
	defer func() {
		if r := recover(); r != nil {
			runnerLogger.Errorf("panic processing %s: %v", path, r)
			result = FileResult{Path: path, Err: errors.Errorf("panic processing %s: %v", path, r)}
		}
	}()

	source, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: errors.Annotatef(err, "reading %s", path)}
	}

	tree := Parse(string(source))
	diags := engine.Run(tree, opts.Config)

	result = FileResult{Path: path, Diagnostics: diags}
	if !opts.Fix {
		return result
	}

	fixed, n, err := ApplySuggestions(string(source), diags, opts.MinSeverity, opts.Config)
	if err != nil {
		result.Err = errors.Annotatef(err, "applying suggestions for %s", path)
		return result
	}
	if n == 0 {
		return result
	}
	if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
		result.Err = errors.Annotatef(err, "writing %s", path)
		return result
	}
	result.Fixed = true
	return result
}

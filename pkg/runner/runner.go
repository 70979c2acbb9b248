package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/texhelper/internal/logging"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/lint"
)

// Runner lints many files concurrently through a lint.Pipeline.
type Runner struct {
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// job is one discovered file and its slot in the result.
type job struct {
	index int
	path  string
}

// Run discovers files under opts.Paths and processes them with a bounded
// worker pool. Outcomes keep discovery order regardless of completion order.
// A cancelled context stops feeding work; outcomes gathered so far are
// returned together with the cancellation error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	logger.Debug("discovered files", logging.FieldFiles, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := min(effectiveJobs(opts.Jobs), len(files))
	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)

	workCh := make(chan job)
	slots := make([]*FileOutcome, len(files))

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range workCh {
				outcome := r.process(ctx, j.path, opts.Config, pipelineOpts)
				slots[j.index] = &outcome
			}
		}()
	}

feed:
	for i, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case workCh <- job{index: i, path: path}:
		}
	}
	close(workCh)
	wg.Wait()

	for _, outcome := range slots {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// process runs the pipeline for a single file. Per-file failures are
// recorded on the outcome rather than aborting the run.
func (r *Runner) process(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts lint.PipelineOptions,
) FileOutcome {
	outcome := FileOutcome{Path: path}

	pr, err := r.Pipeline.ProcessFile(ctx, path, cfg, opts)
	if err != nil {
		logging.FromContext(ctx).Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
		outcome.Error = err
		return outcome
	}

	if pr.Skipped {
		logging.FromContext(ctx).Warn("file skipped", logging.FieldPath, path, "reason", pr.SkipReason)
	}
	outcome.Result = pr
	return outcome
}

func effectiveJobs(jobs int) int {
	if jobs <= 0 {
		return runtime.NumCPU()
	}
	return jobs
}

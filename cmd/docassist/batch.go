package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	docassist "github.com/alnah/go-docassist"
)

// Sentinel errors for batch operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrNoInput     = errors.New("no input specified")
	ErrReadInput   = errors.New("failed to read input file")
	ErrWriteOutput = errors.New("failed to write output")
	ErrRunnerInit  = errors.New("failed to initialize processor")
)

// Runner is the interface for a document processor.
type Runner interface {
	Run(ctx context.Context, in docassist.Input, sink docassist.ProgressSink) (*docassist.Result, error)
}

// Compile-time interface implementation check.
var _ Runner = (*docassist.Processor)(nil)

// Pool abstracts processor pool operations for testability.
type Pool interface {
	Acquire() Runner
	Release(Runner)
	Size() int
}

// job is one processor run. Per-file commands make one job per input.
type job struct {
	Label string // input path(s) shown in results
	Input docassist.Input
}

// JobResult holds the outcome of a single job.
type JobResult struct {
	Label     string
	RunID     string
	Artifacts []docassist.Artifact
	Delivered []docassist.Artifact
	Err       error
	Duration  time.Duration
}

// runBatch processes jobs concurrently using the processor pool. When
// deliverer is non-nil each successful job is delivered by the worker that
// ran it.
func runBatch(ctx context.Context, pool Pool, jobs []job, sink docassist.ProgressSink, deliverer docassist.Deliverer) []JobResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))

	results := make([]JobResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			runner := pool.Acquire()
			if runner == nil {
				for idx := range queue {
					results[idx] = JobResult{Label: jobs[idx].Label, Err: ErrRunnerInit}
				}
				return
			}
			defer pool.Release(runner)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = JobResult{Label: jobs[idx].Label, Err: ctx.Err()}
					continue
				}
				results[idx] = runJob(ctx, runner, jobs[idx], sink, deliverer)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// runJob runs a single job and, if requested, delivers its artifacts.
func runJob(ctx context.Context, runner Runner, j job, sink docassist.ProgressSink, deliverer docassist.Deliverer) JobResult {
	start := time.Now()
	result := JobResult{Label: j.Label}

	res, err := runner.Run(ctx, j.Input, sink)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.RunID = res.RunID
	result.Artifacts = res.Artifacts

	if deliverer != nil {
		delivered, err := deliverer.Deliver(ctx, res.Artifacts, sink)
		if err != nil {
			result.Err = fmt.Errorf("%w: %w", ErrWriteOutput, err)
			result.Duration = time.Since(start)
			return result
		}
		result.Delivered = delivered
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed jobs.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed jobs.
func countResults(results []JobResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// batchError folds job failures into one error. A single job keeps its own
// error so exit codes stay precise.
func batchError(results []JobResult) error {
	summary := countResults(results)
	if summary.Failed == 0 {
		return nil
	}
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		if len(results) == 1 {
			return r.Err
		}
		return fmt.Errorf("%d of %d jobs failed: %w", summary.Failed, len(results), r.Err)
	}
	return nil
}

// printResults outputs saved artifacts to stdout and failures to stderr.
// dir prefixes artifact names; it is empty for email delivery.
func printResults(stdout, stderr io.Writer, results []JobResult, dir string, quiet, verbose bool) {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "FAILED %s: %v\n", r.Label, r.Err)
			continue
		}

		if quiet {
			continue
		}

		for _, a := range r.Delivered {
			path := a.Name
			if dir != "" {
				path = filepath.Join(dir, a.Name)
			}
			if verbose {
				fmt.Fprintf(stdout, "%s -> %s (%v)\n", r.Label, path, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(stdout, "Created %s\n", path)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
}

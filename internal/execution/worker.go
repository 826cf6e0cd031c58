package execution

import (
	"context"
	"sync"
	"time"

	"tcr/internal/config"
	"tcr/internal/discovery"
	"tcr/internal/domain"
	"tcr/internal/parser"
	"tcr/internal/ui"
)

// WorkerPool runs collections in parallel; classes of one collection run in order on one worker
type WorkerPool struct {
	config    *config.Config
	runner    ClassRunner
	scheduler Scheduler
	progress  *ui.ProgressBar
	parser    *parser.PHPUnitParser
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner ClassRunner, scheduler Scheduler, phpUnitParser *parser.PHPUnitParser) *WorkerPool {
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
		parser:    phpUnitParser,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute runs every class in the plan (no fail-fast).
func (wp *WorkerPool) Execute(ctx context.Context, plan *discovery.Plan) ([]domain.TestResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, plan, false)
}

// ExecuteWithOptions runs the plan, optionally stopping after the first failing class.
func (wp *WorkerPool) ExecuteWithOptions(parent context.Context, plan *discovery.Plan, failFast bool) ([]domain.TestResult, time.Duration, error) {
	if plan == nil || plan.ClassCount() == 0 {
		return nil, 0, nil
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}
	buckets := wp.scheduler.Schedule(plan.Groups, workerCount)
	results := make(chan domain.TestResult, plan.ClassCount())

	var mu sync.Mutex
	var completed, passedCases, failedCases int
	startTime := time.Now()

	var wg sync.WaitGroup
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		wg.Add(1)
		go func(workerID int, groups []discovery.Group) {
			defer wg.Done()
			for _, group := range groups {
				for _, class := range group.Classes {
					if ctx.Err() != nil {
						return
					}
					result := wp.runner.Run(ctx, class, group.Collection, workerID)
					if ctx.Err() != nil && !result.Success {
						// Killed by fail-fast or the caller, not a real failure.
						return
					}
					results <- result

					mu.Lock()
					completed++
					p, f := wp.countCases(result)
					passedCases += p
					failedCases += f
					if wp.progress != nil {
						wp.progress.Update(completed, passedCases, failedCases)
					}
					mu.Unlock()

					if failFast && !result.Success {
						cancel()
						return
					}
				}
			}
		}(i+1, bucket)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []domain.TestResult
	for result := range results {
		allResults = append(allResults, result)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}
	return allResults, time.Since(startTime), parent.Err()
}

func (wp *WorkerPool) countCases(result domain.TestResult) (passed, failed int) {
	if wp.parser != nil {
		return wp.parser.ParseTestCounts(result)
	}
	if result.Success {
		return 1, 0
	}
	return 0, 1
}

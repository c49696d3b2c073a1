package downloader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"adtfetch/pkg/logger"
	"adtfetch/pkg/ratelimit"
)

// Status classifies the terminal outcome of processing one file ID
type Status string

const (
	// StatusOK covers both freshly written and already-present tiles
	StatusOK Status = "ok"
	// StatusSkipped means the resolved name was not a wanted tile
	StatusSkipped Status = "skipped"
	// StatusMissing means the server answered 404 for the ID
	StatusMissing Status = "missing"
	// StatusFailed covers transport, empty-body and filesystem failures
	StatusFailed Status = "failed"
)

// Job is a single tile fetch task
type Job struct {
	Index int // 1-based position in the run, for progress reporting
	Total int
	ID    int
}

// Result is the outcome of one job
type Result struct {
	Job            Job
	Status         Status
	Name           string // resolved tile name, when one was produced
	Size           int
	AlreadyPresent bool
	Err            error
	Duration       time.Duration
}

// Processor handles one file ID through the full fetch pipeline
type Processor interface {
	ProcessTile(ctx context.Context, id int) Outcome
}

// Outcome is what a Processor reports back for one ID
type Outcome struct {
	Status         Status
	Name           string
	Size           int
	AlreadyPresent bool
	Err            error
}

// WorkerPool runs tile jobs across a bounded set of workers. Each worker
// paces itself through the shared limiter, so total request rate stays
// polite regardless of worker count.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	processor   Processor
	limiter     ratelimit.Limiter
	logger      logger.Logger
}

// NewWorkerPool creates a pool of numWorkers tile workers
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	processor Processor,
	limiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	if log == nil {
		log = logger.GetLogger()
	}
	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		processor:   processor,
		limiter:     limiter,
		logger:      log,
	}
}

// Start launches all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop signals that no more jobs will arrive and waits for the workers to
// drain the queue, then closes the result channel.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.logger.Debug("worker pool stopped")
}

// Submit queues a job. Fails when the run context is already cancelled.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the channel of completed job outcomes
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}

	wp.logger.DebugWithFields("worker stopping, job queue closed", map[string]interface{}{
		"worker_id": id,
	})
}

func (wp *WorkerPool) processJob(job Job) Result {
	start := time.Now()

	if wp.limiter != nil {
		if err := wp.limiter.Wait(wp.ctx); err != nil {
			return Result{
				Job:      job,
				Status:   StatusFailed,
				Err:      err,
				Duration: time.Since(start),
			}
		}
	}

	outcome := wp.processor.ProcessTile(wp.ctx, job.ID)

	return Result{
		Job:            job,
		Status:         outcome.Status,
		Name:           outcome.Name,
		Size:           outcome.Size,
		AlreadyPresent: outcome.AlreadyPresent,
		Err:            outcome.Err,
		Duration:       time.Since(start),
	}
}

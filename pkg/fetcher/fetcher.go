package fetcher

import (
	"context"

	"adtfetch/internal/downloader"
	"adtfetch/pkg/casc"
	"adtfetch/pkg/config"
	errs "adtfetch/pkg/errors"
	"adtfetch/pkg/logger"
	"adtfetch/pkg/manifest"
	"adtfetch/pkg/ratelimit"
	"adtfetch/pkg/retry"
	"adtfetch/pkg/storage"
	"adtfetch/pkg/tile"
)

// Counters accumulates per-ID terminal outcomes over a run. Each ID
// increments exactly one counter.
type Counters struct {
	OK              int
	SkippedNonMatch int
	Missing         int
	Failed          int
}

// Total returns the number of IDs processed
func (c Counters) Total() int {
	return c.OK + c.SkippedNonMatch + c.Missing + c.Failed
}

// Event reports the outcome of one ID for progress display
type Event struct {
	Index          int
	Total          int
	ID             int
	Status         downloader.Status
	Name           string
	Size           int
	AlreadyPresent bool
	Err            error
}

// Transport fetches one file ID; satisfied by *casc.Client
type Transport interface {
	Fetch(ctx context.Context, id int) (*casc.Result, error)
}

// Fetcher drives the fetch pipeline over an ID sequence:
// transport, name resolution, acceptance filtering, persistence.
type Fetcher struct {
	transport Transport
	writer    *storage.Writer
	limiter   ratelimit.Limiter
	cfg       *config.Config
	logger    logger.Logger
	onEvent   func(Event)
}

// New creates a Fetcher from configuration
func New(cfg *config.Config, log logger.Logger) (*Fetcher, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	writer, err := storage.NewWriter(cfg.Output.Directory)
	if err != nil {
		return nil, err
	}

	client := casc.NewClient(casc.Options{
		BaseURL:     cfg.Endpoint.BaseURL,
		UserAgent:   cfg.Endpoint.UserAgent,
		Token:       cfg.Endpoint.Token,
		Timeout:     cfg.Download.Timeout(),
		MaxAttempts: cfg.Download.MaxAttempts,
		Backoff:     &retry.LinearBackoff{BaseDelay: cfg.Download.Backoff()},
	}, log)

	return &Fetcher{
		transport: client,
		writer:    writer,
		limiter:   ratelimit.NewInterval(cfg.Download.Sleep()),
		cfg:       cfg,
		logger:    log,
	}, nil
}

// OnEvent registers a callback invoked once per processed ID
func (f *Fetcher) OnEvent(fn func(Event)) {
	f.onEvent = fn
}

// Writer returns the persistence writer backing this fetcher
func (f *Fetcher) Writer() *storage.Writer {
	return f.writer
}

// Run processes every ID in the source and returns the outcome counters.
// The safety cap is a strict pre-flight gate: an over-cap range-mode source
// without the force override refuses before any network activity. Per-ID
// failures are counted, never fatal; the run always makes maximal forward
// progress over the remaining IDs.
func (f *Fetcher) Run(ctx context.Context, src *manifest.Source) (Counters, error) {
	if src.Mode == manifest.ModeRange &&
		len(src.IDs) > f.cfg.Safety.MaxCount && !f.cfg.Safety.Force {
		return Counters{}, errs.ConfigError(
			"refusing to process %d IDs in range mode (cap %d); use a manifest, or pass --force",
			len(src.IDs), f.cfg.Safety.MaxCount)
	}

	f.logger.InfoWithFields("starting run", map[string]interface{}{
		"mode":       src.Mode,
		"total":      len(src.IDs),
		"output":     f.writer.OutputDir(),
		"concurrent": f.cfg.Download.Concurrent,
	})

	if f.cfg.Download.Concurrent > 1 {
		return f.runConcurrent(ctx, src.IDs), nil
	}
	return f.runSequential(ctx, src.IDs), nil
}

// runSequential is the reference behavior: one fetch in flight at a time
func (f *Fetcher) runSequential(ctx context.Context, ids []int) Counters {
	var counters Counters

	for i, id := range ids {
		if ctx.Err() != nil {
			f.logger.Warn("run interrupted, stopping dispatch")
			break
		}
		if err := f.limiter.Wait(ctx); err != nil {
			break
		}

		outcome := f.ProcessTile(ctx, id)
		counters.add(outcome.Status)
		f.emit(Event{
			Index:          i + 1,
			Total:          len(ids),
			ID:             id,
			Status:         outcome.Status,
			Name:           outcome.Name,
			Size:           outcome.Size,
			AlreadyPresent: outcome.AlreadyPresent,
			Err:            outcome.Err,
		})
	}

	return counters
}

// runConcurrent dispatches IDs through a bounded worker pool. Only this
// goroutine touches the counters, so accumulation needs no lock.
func (f *Fetcher) runConcurrent(ctx context.Context, ids []int) Counters {
	pool := downloader.NewWorkerPool(ctx, f.cfg.Download.Concurrent, f, f.limiter, f.logger)
	pool.Start()

	go func() {
		for i, id := range ids {
			if ctx.Err() != nil {
				break
			}
			if err := pool.Submit(downloader.Job{Index: i + 1, Total: len(ids), ID: id}); err != nil {
				break
			}
		}
		pool.Stop()
	}()

	var counters Counters
	for result := range pool.Results() {
		counters.add(result.Status)
		f.emit(Event{
			Index:          result.Job.Index,
			Total:          result.Job.Total,
			ID:             result.Job.ID,
			Status:         result.Status,
			Name:           result.Name,
			Size:           result.Size,
			AlreadyPresent: result.AlreadyPresent,
			Err:            result.Err,
		})
	}

	return counters
}

// ProcessTile runs one ID through the full pipeline. It implements
// downloader.Processor so the worker pool can drive it.
func (f *Fetcher) ProcessTile(ctx context.Context, id int) downloader.Outcome {
	result, err := f.transport.Fetch(ctx, id)
	if err != nil {
		if errs.IsNotFound(err) {
			return downloader.Outcome{Status: downloader.StatusMissing}
		}
		f.logger.WithError(err).WithField("id", id).Error("fetch failed")
		return downloader.Outcome{Status: downloader.StatusFailed, Err: err}
	}

	name := tile.Resolve(result.Header, id)
	name = tile.NormalizeMapCase(name, f.cfg.Filter.NameCase)

	if !tile.Accept(name, f.cfg.Filter.AllowMap()) {
		f.logger.DebugWithFields("skipping non-tile asset", map[string]interface{}{
			"id":   id,
			"name": name,
		})
		return downloader.Outcome{Status: downloader.StatusSkipped, Name: name}
	}

	outcome, err := f.writer.WriteIfAbsent(name, result.Body)
	if err != nil {
		f.logger.WithError(err).WithField("name", name).Error("persist failed")
		return downloader.Outcome{Status: downloader.StatusFailed, Name: name, Err: err}
	}

	return downloader.Outcome{
		Status:         downloader.StatusOK,
		Name:           name,
		Size:           len(result.Body),
		AlreadyPresent: outcome == storage.AlreadyPresent,
	}
}

func (f *Fetcher) emit(e Event) {
	if f.onEvent != nil {
		f.onEvent(e)
	}
}

func (c *Counters) add(status downloader.Status) {
	switch status {
	case downloader.StatusOK:
		c.OK++
	case downloader.StatusSkipped:
		c.SkippedNonMatch++
	case downloader.StatusMissing:
		c.Missing++
	default:
		c.Failed++
	}
}

// Package worker contains the background dispatch pipeline that alerts
// responders when an SOS is filed: reverse-geocoding the location, computing
// the route from the shelter, and fanning out email/SMS/in-app notifications.
// It is intentionally decoupled from the HTTP layer: the api package holds a
// worker.Enqueuer interface and calls Enqueue — it never imports the concrete
// Runner or Job types.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─── ENQUEUER INTERFACE ───────────────────────────────────────────────────────

// Enqueuer is the narrow interface the api package uses to hand off a new
// SOS for dispatch. Keeping it here (not in api/) means api/ does not need
// to import worker/.
//
// The concrete implementation is *Runner. In tests, any struct with an
// Enqueue method satisfies the interface.
type Enqueuer interface {
	Enqueue(ctx context.Context, sosID string) error
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. All fields have
// sensible defaults if zero-valued; call DefaultRunnerConfig() to get them.
type RunnerConfig struct {
	// Workers is the number of concurrent dispatch goroutines. Default: 3.
	Workers int

	// PollInterval is how often the fallback poller scans for open SOS
	// reports missed by the in-process channel (e.g. after a restart).
	// Default: 30s.
	PollInterval time.Duration

	// JobTimeout is the per-dispatch context deadline. Set it longer than
	// the geocoding and routing services' p99 latency. Default: 2 minutes.
	JobTimeout time.Duration

	// MaxRetries is how many times a dispatch is retried before the SOS is
	// marked alert_failed. Default: 3.
	MaxRetries int
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:      3,
		PollInterval: 30 * time.Second,
		JobTimeout:   2 * time.Minute,
		MaxRetries:   3,
	}
}

// Runner manages a pool of dispatch goroutines. It accepts SOS IDs via an
// in-process channel (fast path, used right after a report is filed) and
// also polls the store periodically to pick up any open reports that were
// in flight when the process last restarted (recovery path).
type Runner struct {
	job    *Job
	store  *store.Store
	cfg    RunnerConfig
	logger *slog.Logger

	queue chan string
	wg    sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start() to begin processing.
func NewRunner(job *Job, st *store.Store, cfg RunnerConfig, logger *slog.Logger) *Runner {
	def := DefaultRunnerConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}

	return &Runner{
		job:    job,
		store:  st,
		cfg:    cfg,
		logger: logger,
		// Buffer = Workers*2 so Enqueue never blocks under normal load.
		queue: make(chan string, cfg.Workers*2),
	}
}

// Enqueue pushes an SOS ID onto the in-process channel. It satisfies the
// Enqueuer interface. If the channel is full it returns an error rather than
// blocking the HTTP response; the poller will pick the report up.
func (r *Runner) Enqueue(_ context.Context, sosID string) error {
	select {
	case r.queue <- sosID:
		r.logger.Info("worker: enqueued sos", "sos_id", sosID)
		return nil
	default:
		return errors.New("worker: queue is full, sos will be picked up by poller")
	}
}

// Start launches the dispatch pool and the fallback poller. It blocks until
// ctx is cancelled. Call it in a goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers, "poll_interval", r.cfg.PollInterval)

	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	r.wg.Add(1)
	go r.poll(ctx)

	r.wg.Wait()
	r.logger.Info("worker: stopped")
}

// work is the inner loop for each dispatch goroutine.
func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)
	log.Info("worker: goroutine started")

	for {
		select {
		case <-ctx.Done():
			log.Info("worker: goroutine stopping")
			return
		case sosID := <-r.queue:
			r.runWithRetry(ctx, sosID, log)
		}
	}
}

// poll scans for open SOS reports on PollInterval — reports that were not
// delivered via the channel (e.g. filed before a restart).
func (r *Runner) poll(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	// Run once immediately on startup to pick up anything from before restart.
	r.pollOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollOnce()
		}
	}
}

func (r *Runner) pollOnce() {
	for _, rec := range r.store.PendingSOS() {
		select {
		case r.queue <- rec.ID:
			r.logger.Debug("worker: poller enqueued sos", "sos_id", rec.ID)
		default:
			// Queue full — will be picked up next poll cycle.
		}
	}
}

// runWithRetry executes the dispatch up to MaxRetries times. After
// exhausting retries it marks the SOS alert_failed so the poller does not
// pick it up again.
func (r *Runner) runWithRetry(ctx context.Context, sosID string, log *slog.Logger) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
		lastErr = r.job.Run(jobCtx, sosID)
		cancel()

		if lastErr == nil {
			log.Info("worker: dispatch completed", "sos_id", sosID, "attempt", attempt)
			return
		}

		log.Warn("worker: dispatch attempt failed",
			"sos_id", sosID,
			"attempt", attempt,
			"max", r.cfg.MaxRetries,
			"error", lastErr,
		)

		if attempt < r.cfg.MaxRetries {
			// Exponential back-off: 2s, 4s, 8s …
			backoff := time.Duration(1<<attempt) * time.Second
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
		}
	}

	log.Error("worker: dispatch permanently failed", "sos_id", sosID, "error", lastErr)
	if _, err := r.store.MarkSOSAlertFailed(sosID); err != nil {
		log.Error("worker: failed to mark sos alert_failed", "sos_id", sosID, "error", err)
	}
}

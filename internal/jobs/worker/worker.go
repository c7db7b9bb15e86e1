package worker

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/jobs/runtime"
	"github.com/yungbote/lumina-backend/internal/observability"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/envutil"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

type Config struct {
	Concurrency       int
	PollInterval      time.Duration
	MaxAttempts       int
	RetryDelay        time.Duration
	StaleRunning      time.Duration
	HeartbeatInterval time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		Concurrency:       envutil.Int("WORKER_CONCURRENCY", 2),
		PollInterval:      envutil.Duration("WORKER_POLL_INTERVAL", time.Second),
		MaxAttempts:       envutil.Int("JOB_MAX_ATTEMPTS", 5),
		RetryDelay:        envutil.Duration("JOB_RETRY_DELAY", 30*time.Second),
		StaleRunning:      envutil.Duration("JOB_STALE_RUNNING", 30*time.Minute),
		HeartbeatInterval: envutil.Duration("JOB_HEARTBEAT_INTERVAL", 30*time.Second),
	}
}

func (c Config) normalized() Config {
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 5
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.StaleRunning <= 0 {
		c.StaleRunning = 30 * time.Minute
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 30 * time.Second
	}
	return c
}

type Worker struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.JobRunRepo
	registry *runtime.Registry
	metrics  *observability.Metrics
	cfg      Config
}

func NewWorker(db *gorm.DB, baseLog *logger.Logger, repo repos.JobRunRepo, registry *runtime.Registry, metrics *observability.Metrics, cfg Config) *Worker {
	return &Worker{
		db:       db,
		log:      baseLog.With("component", "JobWorker"),
		repo:     repo,
		registry: registry,
		metrics:  metrics,
		cfg:      cfg.normalized(),
	}
}

// Run polls for runnable jobs on cfg.Concurrency loops and blocks until ctx
// is canceled and every loop has returned.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Starting job worker pool",
		"concurrency", w.cfg.Concurrency,
		"job_types", w.registry.Types(),
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < w.cfg.Concurrency; i++ {
		workerID := i + 1
		g.Go(func() error {
			w.runLoop(gctx, workerID)
			return nil
		})
	}
	return g.Wait()
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Worker loop stopped", "worker_id", workerID)
			return
		case <-ticker.C:
			// Drain what is runnable before waiting for the next tick.
			for ctx.Err() == nil {
				ran, err := w.RunOnce(ctx)
				if err != nil {
					w.log.Warn("ClaimNextRunnable failed", "worker_id", workerID, "error", err)
					break
				}
				if !ran {
					break
				}
			}
		}
	}
}

// RunOnce claims at most one runnable job and runs it to completion. It
// reports whether a job was claimed; the error covers the claim only.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.repo.ClaimNextRunnable(dbctx.Context{Ctx: ctx}, w.cfg.MaxAttempts, w.cfg.RetryDelay, w.cfg.StaleRunning)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	w.dispatch(ctx, job)
	return true, nil
}

func (w *Worker) dispatch(ctx context.Context, job *types.JobRun) {
	start := time.Now()
	ctx, span := otel.Tracer("lumina/jobs").Start(ctx, "job "+job.JobType)
	span.SetAttributes(
		attribute.String("job.id", job.ID.String()),
		attribute.String("job.type", job.JobType),
		attribute.Int("job.attempt", job.Attempts),
	)
	defer span.End()

	log := w.log.With("job_id", job.ID, "job_type", job.JobType, "attempt", job.Attempts)
	jc := runtime.NewContext(ctx, w.db, job, w.repo)

	h, ok := w.registry.Get(job.JobType)
	if !ok {
		log.Warn("No handler registered for job_type")
		jc.Fail("dispatch", &missingHandlerError{JobType: job.JobType})
		w.finish(span, jc, start)
		return
	}

	stop := w.heartbeat(ctx, jc)
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Job handler panic", "panic", fmt.Sprint(r))
				jc.Fail("panic", errFromRecover(r))
			}
		}()
		if runErr := h.Run(jc); runErr != nil {
			// Most handlers call jc.Fail themselves; this is a safety net.
			jc.Fail("run", runErr)
		}
	}()
	stop()

	if !jc.Done() {
		jc.Succeed("done", nil)
	}
	if jc.Job.Status == types.JobStatusFailed {
		log.Warn("Job failed", "stage", jc.Job.Stage, "error", jc.Job.Error)
	} else {
		log.Debug("Job succeeded", "duration_ms", time.Since(start).Milliseconds())
	}
	w.finish(span, jc, start)
}

func (w *Worker) finish(span trace.Span, jc *runtime.Context, start time.Time) {
	status := jc.Job.Status
	if status == types.JobStatusFailed {
		span.SetStatus(codes.Error, jc.Job.Error)
	}
	w.metrics.ObserveJob(jc.Job.JobType, status, time.Since(start))
}

// heartbeat keeps a long run from being reclaimed as stale.
func (w *Worker) heartbeat(ctx context.Context, jc *runtime.Context) func() {
	hbCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		t := time.NewTicker(w.cfg.HeartbeatInterval)
		defer t.Stop()
		for {
			select {
			case <-hbCtx.Done():
				return
			case <-t.C:
				if err := w.repo.Heartbeat(dbctx.Context{Ctx: hbCtx}, jc.Job.ID); err != nil {
					w.log.Debug("Heartbeat failed", "job_id", jc.Job.ID, "error", err)
				}
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

type missingHandlerError struct{ JobType string }

func (e *missingHandlerError) Error() string { return "no handler registered for job_type=" + e.JobType }

func errFromRecover(v any) error { return &panicError{Val: v} }

type panicError struct{ Val any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.Val) }

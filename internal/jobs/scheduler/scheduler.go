package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/services"
)

// Task is one periodic maintenance run. Spec uses the standard five-field
// cron syntax or a descriptor such as "@hourly".
type Task struct {
	Name string
	Spec string
	Run  func(ctx context.Context) (int64, error)
}

type Scheduler struct {
	log   *logger.Logger
	cron  *cron.Cron
	tasks []Task
	ctx   context.Context
}

// New validates every cron schedule up front so a typo fails at startup
// rather than silently never firing.
func New(baseLog *logger.Logger, tasks ...Task) (*Scheduler, error) {
	log := baseLog.With("component", "Scheduler")
	cl := cronLogger{log: log}
	s := &Scheduler{
		log: log,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		tasks: tasks,
		ctx:   context.Background(),
	}
	for _, t := range tasks {
		task := t
		if task.Run == nil {
			return nil, fmt.Errorf("scheduler task %q has no Run", task.Name)
		}
		if _, err := s.cron.AddFunc(task.Spec, func() { s.runTask(task) }); err != nil {
			return nil, fmt.Errorf("scheduler task %q: %w", task.Name, err)
		}
	}
	return s, nil
}

func (s *Scheduler) runTask(t Task) {
	start := time.Now()
	n, err := t.Run(s.ctx)
	if err != nil {
		s.log.Error("Scheduled task failed", "task", t.Name, "error", err)
		return
	}
	s.log.Info("Scheduled task done", "task", t.Name, "affected", n, "duration_ms", time.Since(start).Milliseconds())
}

// Run starts the cron loop and blocks until ctx is canceled. Tasks that are
// mid-flight are waited for before it returns.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.log.Info("Scheduler started", "tasks", len(s.tasks))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
	return nil
}

// Entries reports the next fire time per task, in registration order.
func (s *Scheduler) Entries() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Next)
	}
	return out
}

// MaintenanceTasks are the periodic jobs every deployment runs: expired
// refresh-token sweeps and pruning of succeeded job runs older than
// jobRetention.
func MaintenanceTasks(auth SessionSweeper, jobs repos.JobRunRepo, jobRetention time.Duration) []Task {
	if jobRetention <= 0 {
		jobRetention = 7 * 24 * time.Hour
	}
	return []Task{
		{
			Name: "sweep_expired_sessions",
			Spec: "@hourly",
			Run:  auth.SweepExpiredSessions,
		},
		{
			Name: "prune_succeeded_jobs",
			Spec: "@daily",
			Run: func(ctx context.Context) (int64, error) {
				return jobs.FullDeleteFinishedBefore(dbctx.Context{Ctx: ctx}, types.JobStatusSucceeded, time.Now().Add(-jobRetention))
			},
		},
	}
}

// SessionSweeper is the slice of services.AuthService the sweep task needs.
type SessionSweeper interface {
	SweepExpiredSessions(ctx context.Context) (int64, error)
}

var _ SessionSweeper = services.AuthService(nil)

type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}

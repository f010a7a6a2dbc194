package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/rickgao/pricewatch/internal/model"
)

const jobName = "price-check"

// Runner runs one fetch batch.
type Runner interface {
	RunBatch(ctx context.Context, trigger string) (*model.BatchResult, error)
}

// Scheduler fires scheduled batches.
type Scheduler struct {
	scheduler gocron.Scheduler
	job       gocron.Job
	cron      string
	runner    Runner
	logger    *slog.Logger

	mu  sync.Mutex
	ctx context.Context
}

// New creates a Scheduler that calls runner on cronExpr (five fields) in loc.
func New(cronExpr string, loc *time.Location, runner Runner, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	// The cron parser resolves the zone by name, so fixed zones are rejected.
	if _, err := time.LoadLocation(loc.String()); err != nil {
		return nil, fmt.Errorf("schedule location %q is not a loadable time zone: %w", loc, err)
	}

	gs, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("create cron scheduler: %w", err)
	}

	s := &Scheduler{
		scheduler: gs,
		cron:      cronExpr,
		runner:    runner,
		logger:    logger,
		ctx:       context.Background(),
	}

	j, err := gs.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(s.run),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		gs.Shutdown()
		return nil, fmt.Errorf("create scheduled job %q: %w", cronExpr, err)
	}
	s.job = j

	return s, nil
}

// Start begins firing the job. Batches started by the scheduler use ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.scheduler.Start()

	next, _ := s.job.NextRun()
	s.logger.Info("scheduler started", "cron", s.cron, "next_run", next)
}

// Stop shuts down the scheduler and waits for a running batch to finish.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	s.logger.Info("scheduler stopped")
	return nil
}

// NextRun returns the time of the next scheduled batch.
func (s *Scheduler) NextRun() (time.Time, error) {
	return s.job.NextRun()
}

func (s *Scheduler) run() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if _, err := s.runner.RunBatch(ctx, model.TriggerSchedule); err != nil {
		s.logger.Error("scheduled batch failed", "error", err)
	}
}

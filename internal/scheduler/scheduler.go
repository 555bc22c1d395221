package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fleetrent-backend/internal/jobs"
	"fleetrent-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron         *cron.Cron
	jobs         *jobs.JobRunner
	initialDelay time.Duration

	// tick is held for the length of one reconciliation pass.
	tick sync.Mutex

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision. A run still in
	// progress when the next one is due makes cron skip that tick.
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	s := &Scheduler{
		cron:         c,
		jobs:         jobRunner,
		initialDelay: jobRunner.Config().InitialDelay(),
		ctx:          context.Background(),
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	spec := s.jobs.Config().Scheduler.ReconcileSchedule

	_, err := s.cron.AddFunc(spec, func() {
		s.reconcile(s.context())
	})
	if err != nil {
		logger.Error("Failed to register ReconcileReservationStatuses job", "schedule", spec, "error", err)
		return fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}

	logger.Info("All cron jobs registered successfully", "reconcile_schedule", spec)
	return nil
}

// reconcile runs one pass unless another one, from cron or the initial
// delay, is still in progress.
func (s *Scheduler) reconcile(ctx context.Context) {
	if !s.tick.TryLock() {
		logger.Warn("Reconciliation still running, skipping tick")
		return
	}
	defer s.tick.Unlock()
	s.jobs.RunReconcile(ctx)
}

func (s *Scheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Start begins the cron scheduler. The first reconciliation runs after the
// initial delay; cancelling ctx or calling Stop aborts it.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	runCtx := s.ctx
	s.mu.Unlock()

	logger.Info("Starting cron scheduler...", "initial_delay", s.initialDelay)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(s.initialDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
			s.reconcile(runCtx)
		case <-runCtx.Done():
		}
	}()

	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	logger.Info("Stopping cron scheduler...")
	cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.wg.Wait()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has been started and not stopped
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

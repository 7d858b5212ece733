// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"shieldgate/internal/shared/goroutine"
	"shieldgate/internal/shared/logger"
)

// SweepJobName is the gocron name of the rate limit sweep.
const SweepJobName = "ratelimit-sweep"

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager owns the process scheduler. Jobs run off the request path.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	clock     clockwork.Clock
	logger    logger.Interface

	// gocron runs its loop from NewScheduler on, so it must be shut down
	// even if Start was never called. A stopped manager cannot restart.
	started   bool
	stopped   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance driven by clock.
func NewSchedulerManager(clock clockwork.Clock, log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithClock(clock),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &SchedulerManager{
		scheduler: scheduler,
		clock:     clock,
		logger:    log,
	}, nil
}

// RegisterSweepJob runs job every interval. A run that is still in progress
// when the next one is due causes that next run to be skipped.
func (m *SchedulerManager) RegisterSweepJob(interval time.Duration, job BatchJob) (gocron.Job, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	j, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.runSweep(ctx, job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("ratelimit", "sweep"),
		gocron.WithName(SweepJobName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register sweep job: %w", err)
	}

	m.logger.Infow("registered rate limit sweep job", "interval", interval.String())
	return j, nil
}

func (m *SchedulerManager) runSweep(ctx context.Context, job BatchJob) {
	startTime := m.clock.Now()

	goroutine.SafeRun(m.logger, SweepJobName, func() {
		removed, err := job.Execute(ctx)
		if err != nil {
			m.logger.Errorw("rate limit sweep failed",
				"error", err,
				"removed", removed,
				"duration", m.clock.Since(startTime),
			)
			return
		}
		if removed > 0 {
			m.logger.Infow("rate limit sweep evicted idle clients",
				"removed", removed,
				"duration", m.clock.Since(startTime),
			)
			return
		}
		m.logger.Debugw("rate limit sweep found nothing to evict")
	})
}

// Start starts the scheduler.
// It is safe to call Start multiple times; subsequent calls are no-ops, as is
// Start after Stop.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started || m.stopped {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.stopped {
		return nil
	}

	m.logger.Infow("stopping scheduler manager", "was_started", m.started)

	// Shutdown scheduler and wait for running jobs
	err := m.scheduler.Shutdown()
	m.started = false
	m.stopped = true

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}

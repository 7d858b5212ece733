package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shieldgate/internal/shared/logger"
)

type countingJob struct {
	calls atomic.Int32
	err   error
	panic bool
}

func (j *countingJob) Execute(ctx context.Context) (int, error) {
	j.calls.Add(1)
	if j.panic {
		panic("sweep exploded")
	}
	return 3, j.err
}

func newTestManager(t *testing.T) *SchedulerManager {
	t.Helper()
	m, err := NewSchedulerManager(clockwork.NewRealClock(), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Stop() })
	return m
}

func TestSchedulerManager_RegisterSweepJob(t *testing.T) {
	m := newTestManager(t)
	job := &countingJob{}

	j, err := m.RegisterSweepJob(time.Hour, job)
	require.NoError(t, err)
	assert.Equal(t, SweepJobName, j.Name())
	assert.ElementsMatch(t, []string{"ratelimit", "sweep"}, j.Tags())
	assert.Len(t, m.Jobs(), 1)

	m.Start()
	assert.True(t, m.IsStarted())

	require.NoError(t, j.RunNow())
	require.Eventually(t, func() bool { return job.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerManager_RegisterSweepJob_InvalidInterval(t *testing.T) {
	m := newTestManager(t)

	_, err := m.RegisterSweepJob(0, &countingJob{})
	assert.Error(t, err)
}

func TestSchedulerManager_JobFailuresDoNotStopScheduler(t *testing.T) {
	m := newTestManager(t)
	failing := &countingJob{err: errors.New("redis down")}
	panicking := &countingJob{panic: true}

	m.runSweep(context.Background(), failing)
	m.runSweep(context.Background(), panicking)

	assert.Equal(t, int32(1), failing.calls.Load())
	assert.Equal(t, int32(1), panicking.calls.Load())
}

func TestSchedulerManager_StartStopIdempotent(t *testing.T) {
	m := newTestManager(t)

	m.Start()
	m.Start()
	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	require.NoError(t, m.Stop())
}

func TestSchedulerManager_StopWithoutStart(t *testing.T) {
	m := newTestManager(t)
	_, err := m.RegisterSweepJob(time.Hour, &countingJob{})
	require.NoError(t, err)

	require.NoError(t, m.Stop())
	assert.True(t, m.stopped)
	assert.False(t, m.IsStarted())

	m.Start()
	assert.False(t, m.IsStarted(), "a stopped manager stays stopped")
	require.NoError(t, m.Stop())
}

package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func counting(n *atomic.Int64) Task {
	return func(context.Context) (Callback, error) {
		n.Add(1)
		return nil, nil
	}
}

func lastRun(p *Pool, i int) time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entries[i].lastRun
}

func TestTickFiresOncePerElapsedInterval(t *testing.T) {
	const d = 100 * time.Millisecond
	clock := NewManualClock(t0)
	var runs atomic.Int64
	p := NewPool(PoolConfig{Clock: clock}, nil, Entry{Name: "count", Interval: d, Task: counting(&runs)})

	// 16ms ticks across 3.5 intervals.
	for now := t0.Add(DefaultTickInterval); !now.After(t0.Add(d * 7 / 2)); now = now.Add(DefaultTickInterval) {
		p.Tick(now)
	}
	p.WaitIdle()

	assert.Equal(t, int64(3), runs.Load())
	assert.Equal(t, t0.Add(336*time.Millisecond), lastRun(p, 0))
	assert.Equal(t, uint64(3), p.Stats().Fired)
}

func TestMissedIntervalsAreNotReplayed(t *testing.T) {
	const d = 100 * time.Millisecond
	clock := NewManualClock(t0)
	var runs atomic.Int64
	p := NewPool(PoolConfig{Clock: clock}, nil, Entry{Interval: d, Task: counting(&runs)})

	assert.Equal(t, 1, p.Tick(t0.Add(d*7/2)))
	assert.Equal(t, t0.Add(d*7/2), lastRun(p, 0))
	assert.Equal(t, 0, p.Tick(t0.Add(d*7/2+d/2)))
	assert.Equal(t, 1, p.Tick(t0.Add(d*9/2)))
	p.WaitIdle()

	assert.Equal(t, int64(2), runs.Load())
}

func TestFirstRunAfterOneInterval(t *testing.T) {
	clock := NewManualClock(t0)
	var runs atomic.Int64
	p := NewPool(PoolConfig{Clock: clock}, nil, Entry{Interval: time.Second, Task: counting(&runs)})

	assert.Equal(t, 0, p.Tick(t0))
	assert.Equal(t, 0, p.Tick(t0.Add(999*time.Millisecond)))
	assert.Equal(t, 1, p.Tick(t0.Add(time.Second)))
	p.WaitIdle()
}

func TestPauseStopsTicksAndResumeRestartsClocks(t *testing.T) {
	const d = 100 * time.Millisecond
	clock := NewManualClock(t0)
	var runs atomic.Int64
	p := NewPool(PoolConfig{Clock: clock}, nil, Entry{Interval: d, Task: counting(&runs)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, p.Start(ctx))
	require.Eventually(t, func() bool { return clock.Waiters() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, p.Pause())
	assert.Equal(t, StatePaused, p.State())
	for i := 0; i < 100; i++ {
		clock.Advance(d)
	}
	assert.Equal(t, int64(0), runs.Load())
	assert.Equal(t, 0, clock.Waiters())

	resumedAt := clock.Now()
	require.NoError(t, p.Resume())
	require.Eventually(t, func() bool { return clock.Waiters() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int64(0), runs.Load(), "resume must not replay missed intervals")

	clock.Advance(d)
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, resumedAt.Add(d), lastRun(p, 0))

	require.NoError(t, p.Close())
	assert.Equal(t, StateClosed, p.State())
	assert.ErrorIs(t, p.Resume(), ErrPoolClosed)
	assert.Equal(t, int64(1), runs.Load())
}

func TestContextCancelClosesDriver(t *testing.T) {
	p := NewPool(PoolConfig{Clock: NewManualClock(t0)}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx))
	cancel()
	require.Eventually(t, func() bool { return p.State() == StateClosed }, time.Second, time.Millisecond)
	assert.NoError(t, p.Close())
}

func TestPanickingTaskIsIsolated(t *testing.T) {
	clock := NewManualClock(t0)
	q := NewQueue(8)
	p := NewPool(PoolConfig{Clock: clock}, q,
		Entry{Name: "boom", Interval: time.Second, Task: func(context.Context) (Callback, error) {
			panic("boom")
		}},
		Entry{Name: "fails", Interval: time.Second, Task: func(context.Context) (Callback, error) {
			return nil, errors.New("offline")
		}},
		Entry{Name: "ok", Interval: time.Second, Task: func(context.Context) (Callback, error) {
			return SetField{Key: "ok", Value: []byte("1")}, nil
		}},
	)

	assert.Equal(t, 3, p.Tick(t0.Add(time.Second)))
	p.WaitIdle()
	assert.Equal(t, 3, p.Tick(t0.Add(2*time.Second)))
	p.WaitIdle()

	stats := p.Stats()
	assert.Equal(t, uint64(6), stats.Fired)
	assert.Equal(t, uint64(2), stats.Panicked)
	assert.Equal(t, uint64(2), stats.Failed)
	assert.Equal(t, 2, q.Len())
}

func blockingTask(started chan<- struct{}, release <-chan struct{}) Task {
	return func(context.Context) (Callback, error) {
		started <- struct{}{}
		<-release
		return SetField{Key: "final", Value: []byte("done")}, nil
	}
}

func TestRunningEntryIsSkipped(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	p := NewPool(PoolConfig{Clock: NewManualClock(t0)}, nil,
		Entry{Interval: time.Millisecond, Task: blockingTask(started, release)})

	assert.Equal(t, 1, p.Tick(t0.Add(time.Millisecond)))
	<-started
	assert.Equal(t, 0, p.Tick(t0.Add(2*time.Millisecond)))
	assert.Equal(t, uint64(1), p.Stats().Skipped)

	close(release)
	p.WaitIdle()
	assert.Equal(t, 1, p.Tick(t0.Add(3*time.Millisecond)))
	<-started
	p.WaitIdle()
}

func TestCloseWaitsForRunningTasks(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	q := NewQueue(4)
	p := NewPool(PoolConfig{Clock: NewManualClock(t0)}, q,
		Entry{Interval: time.Millisecond, Task: blockingTask(started, release)})

	require.Equal(t, 1, p.Tick(t0.Add(time.Millisecond)))
	<-started

	closed := make(chan struct{})
	go func() {
		assert.NoError(t, p.Close())
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a task was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
	assert.Equal(t, 1, q.Len(), "final callback must not be lost")
}

func TestConcurrencyLimitSkipsExtraTasks(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	p := NewPool(PoolConfig{Clock: NewManualClock(t0), Concurrency: 1}, nil,
		Entry{Name: "a", Interval: time.Millisecond, Task: blockingTask(started, release)},
		Entry{Name: "b", Interval: time.Millisecond, Task: blockingTask(started, release)},
	)

	assert.Equal(t, 1, p.Tick(t0.Add(time.Millisecond)))
	<-started
	assert.Equal(t, uint64(1), p.Stats().Skipped)
	close(release)
	p.WaitIdle()
}

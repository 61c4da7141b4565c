package tasks

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type mockPruner struct {
	prunes atomic.Int32
}

func (m *mockPruner) Prune() int {
	m.prunes.Add(1)
	return 2
}

func (m *mockPruner) Len() int {
	return 0
}

type mockReloader struct {
	runs atomic.Int32
	err  error
}

func (m *mockReloader) Run() error {
	m.runs.Add(1)
	return m.err
}

func (m *mockReloader) GetPostCount() int {
	return 4
}

type flakyTask struct {
	Task
	failures int32
	attempts atomic.Int32
	done     chan struct{}
}

func newFlakyTask(failures int32, maxRetries int) *flakyTask {
	task := &flakyTask{
		Task:     NewTask(TaskTypeReloadContent),
		failures: failures,
		done:     make(chan struct{}),
	}
	task.MaxRetries = maxRetries
	return task
}

func (t *flakyTask) Execute(ctx context.Context) error {
	attempt := t.attempts.Add(1)
	if attempt <= t.failures {
		return errors.New("temporary failure")
	}
	close(t.done)
	return nil
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Condition not met before deadline")
}

func TestEnqueueTaskQueueFull(t *testing.T) {
	s := NewScheduler(&mockPruner{}, &mockReloader{}, SchedulerConfig{QueueSize: 1})

	if err := s.EnqueueTask(NewPruneRateLimitsTask(&mockPruner{})); err != nil {
		t.Fatalf("Expected first task to be queued, got: %v", err)
	}

	err := s.EnqueueTask(NewPruneRateLimitsTask(&mockPruner{}))
	if err == nil || !strings.Contains(err.Error(), "task queue is full") {
		t.Errorf("Expected queue full error, got: %v", err)
	}
}

func TestEnqueueTaskAfterCancel(t *testing.T) {
	s := NewScheduler(&mockPruner{}, &mockReloader{}, SchedulerConfig{QueueSize: 1})

	if err := s.EnqueueTask(NewPruneRateLimitsTask(&mockPruner{})); err != nil {
		t.Fatal(err)
	}
	s.cancel()

	if err := s.EnqueueTask(NewPruneRateLimitsTask(&mockPruner{})); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestSchedulerRunsPeriodicTasks(t *testing.T) {
	pruner := &mockPruner{}
	reloader := &mockReloader{}

	s := NewScheduler(pruner, reloader, SchedulerConfig{
		Interval:      10 * time.Millisecond,
		WorkerCount:   2,
		ReloadContent: true,
	})
	s.Start()
	defer s.Stop()

	waitFor(t, func() bool {
		return pruner.prunes.Load() > 0 && reloader.runs.Load() > 0
	})
}

func TestSchedulerSkipsReloadWhenDisabled(t *testing.T) {
	pruner := &mockPruner{}
	reloader := &mockReloader{}

	s := NewScheduler(pruner, reloader, SchedulerConfig{Interval: 10 * time.Millisecond})
	s.Start()

	waitFor(t, func() bool {
		return pruner.prunes.Load() >= 2
	})
	s.Stop()

	if runs := reloader.runs.Load(); runs != 0 {
		t.Errorf("Expected no content reloads, got %d", runs)
	}
}

func TestSchedulerRetriesFailedTask(t *testing.T) {
	s := NewScheduler(&mockPruner{}, &mockReloader{}, SchedulerConfig{Interval: time.Hour})
	s.retryBaseDelay = time.Millisecond
	s.Start()
	defer s.Stop()

	task := newFlakyTask(2, DefaultMaxRetries)
	if err := s.EnqueueTask(task); err != nil {
		t.Fatal(err)
	}

	select {
	case <-task.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Task did not succeed after retries")
	}

	if attempts := task.attempts.Load(); attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestSchedulerStopsRetryingAfterMaxRetries(t *testing.T) {
	s := NewScheduler(&mockPruner{}, &mockReloader{}, SchedulerConfig{Interval: time.Hour})
	s.retryBaseDelay = time.Millisecond
	s.Start()
	defer s.Stop()

	task := newFlakyTask(100, 2)
	if err := s.EnqueueTask(task); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		return task.attempts.Load() == 3
	})

	time.Sleep(50 * time.Millisecond)
	if attempts := task.attempts.Load(); attempts != 3 {
		t.Errorf("Expected 3 attempts (1 + 2 retries), got %d", attempts)
	}
}

func TestRetryDelay(t *testing.T) {
	s := NewScheduler(&mockPruner{}, &mockReloader{}, SchedulerConfig{})

	tests := []struct {
		retryCount int
		expected   time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{6, 30 * time.Second},
		{40, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := s.retryDelay(tt.retryCount); got != tt.expected {
			t.Errorf("retryDelay(%d) = %s, expected %s", tt.retryCount, got, tt.expected)
		}
	}
}

func TestReloadContentTaskError(t *testing.T) {
	task := NewReloadContentTask(&mockReloader{err: errors.New("bad front-matter")})
	task.Start()

	err := task.Execute(context.Background())
	if err == nil || !strings.Contains(err.Error(), "bad front-matter") {
		t.Errorf("Expected wrapped reload error, got: %v", err)
	}
}

func TestTasksRespectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pruner := &mockPruner{}
	if err := NewPruneRateLimitsTask(pruner).Execute(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if pruner.prunes.Load() != 0 {
		t.Error("Expected no prune on cancelled context")
	}
}

func TestNewTask(t *testing.T) {
	a := NewTask(TaskTypePruneRateLimits)
	b := NewTask(TaskTypePruneRateLimits)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("Expected unique task IDs, got %q and %q", a.ID, b.ID)
	}
	if !a.CanRetry() {
		t.Error("Expected new task to be retryable")
	}
	if a.GetDuration() != 0 {
		t.Error("Expected zero duration before start")
	}
}

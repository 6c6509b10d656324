package schedules

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tablediff/core/compare"
	"tablediff/core/database"
	"tablediff/core/errs"
	"tablediff/core/results"
	"tablediff/core/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   []compare.Request
	started chan struct{}
	release chan struct{}
	run     *results.Run
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, req compare.Request) (*results.Run, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.run, f.err
}

func (f *fakeRunner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestService(t *testing.T, runner Runner) (*Service, *clock) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	clk := &clock{now: epoch}
	svc := NewService(db, runner, zap.NewNop()).WithClock(clk.Now)
	require.NoError(t, svc.Migrate())
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })
	return svc, clk
}

func input(typ schedule.Type, value string) Input {
	return Input{
		Name: "nightly people",
		Request: compare.Request{
			ProjectID: "crm",
			Source:    compare.TableRef{ConnectionID: "src", Table: "people"},
			Target:    compare.TableRef{ConnectionID: "dst", Table: "people"},
		},
		ScheduleType:  typ,
		ScheduleValue: value,
	}
}

func completed(id string, differences int64) *results.Run {
	return &results.Run{ID: id, Status: results.StatusCompleted, TotalDifferences: differences}
}

func TestService_CreateComputesNextRun(t *testing.T) {
	svc, _ := newTestService(t, &fakeRunner{})
	ctx := context.Background()

	task, err := svc.Create(ctx, input(schedule.Preset, "daily"))
	require.NoError(t, err)
	assert.True(t, task.Active)
	require.NotNil(t, task.NextRunAt)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), *task.NextRunAt)

	got, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "people", got.Request.Source.Table)
	assert.Equal(t, "crm", got.Request.ProjectID)
	assert.Equal(t, schedule.Preset, got.ScheduleType)
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(t, &fakeRunner{})
	ctx := context.Background()

	tests := []struct {
		name string
		in   func() Input
	}{
		{"missing name", func() Input { in := input(schedule.Interval, "5"); in.Name = ""; return in }},
		{"missing table", func() Input { in := input(schedule.Interval, "5"); in.Request.Target.Table = ""; return in }},
		{"bad interval", func() Input { return input(schedule.Interval, "-1") }},
		{"bad cron", func() Input { return input(schedule.Cron, "61 * * * *") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in())
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	tasks, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestService_TickRunsDueTasks(t *testing.T) {
	runner := &fakeRunner{run: completed("run-1", 3)}
	svc, clk := newTestService(t, runner)
	ctx := context.Background()

	task, err := svc.Create(ctx, input(schedule.Preset, "15min"))
	require.NoError(t, err)

	require.NoError(t, svc.Tick(ctx))
	assert.False(t, svc.Running(task.ID), "not due yet")

	clk.Advance(15 * time.Minute)
	require.NoError(t, svc.Tick(ctx))
	require.NoError(t, svc.Stop(ctx))
	assert.Equal(t, 1, runner.Calls())

	got, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, got.LastRunStatus)
	assert.Equal(t, "run-1", got.LastRunID)
	assert.Equal(t, "Comparison completed with 3 differences", got.LastRunMessage)
	assert.Equal(t, 1, got.TotalRuns)
	assert.Equal(t, 1, got.SuccessfulRuns)
	assert.Equal(t, 0, got.FailedRuns)
	require.NotNil(t, got.NextRunAt)
	assert.Equal(t, epoch.Add(30*time.Minute), got.NextRunAt.UTC())
}

func TestService_SkipsTaskStillRunning(t *testing.T) {
	runner := &fakeRunner{
		run:     completed("run-1", 0),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc, clk := newTestService(t, runner)
	ctx := context.Background()

	task, err := svc.Create(ctx, input(schedule.Interval, "1"))
	require.NoError(t, err)
	clk.Advance(time.Minute)

	require.NoError(t, svc.Tick(ctx))
	<-runner.started
	assert.True(t, svc.Running(task.ID))

	// Still due and still running: a second tick must not start it again.
	require.NoError(t, svc.Tick(ctx))
	_, err = svc.RunNow(ctx, task.ID)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(runner.release)
	require.NoError(t, svc.Stop(ctx))
	assert.Equal(t, 1, runner.Calls())
	assert.False(t, svc.Running(task.ID))

	got, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalRuns)
}

func TestService_RecordsFailures(t *testing.T) {
	tests := []struct {
		name    string
		runner  *fakeRunner
		runID   string
		message string
	}{
		{
			name:    "runner error",
			runner:  &fakeRunner{err: errors.New("connection src not found")},
			message: "connection src not found",
		},
		{
			name: "failed run",
			runner: &fakeRunner{run: &results.Run{
				ID: "run-9", Status: results.StatusFailed, FailureKind: errs.KindSchema, FailureReason: "table people not found",
			}},
			runID:   "run-9",
			message: "table people not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, tt.runner)
			ctx := context.Background()

			task, err := svc.Create(ctx, input(schedule.Cron, "*/5 * * * *"))
			require.NoError(t, err)

			_, err = svc.RunNow(ctx, task.ID)
			require.NoError(t, err)
			require.NoError(t, svc.Stop(ctx))

			got, err := svc.Get(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, StatusFailed, got.LastRunStatus)
			assert.Equal(t, tt.runID, got.LastRunID)
			assert.Equal(t, tt.message, got.LastRunMessage)
			assert.Equal(t, 1, got.TotalRuns)
			assert.Equal(t, 1, got.FailedRuns)
			require.NotNil(t, got.NextRunAt)
			assert.Equal(t, epoch.Add(5*time.Minute), got.NextRunAt.UTC())
		})
	}
}

func TestService_InactiveTasksAreNotDue(t *testing.T) {
	svc, clk := newTestService(t, &fakeRunner{})
	ctx := context.Background()

	in := input(schedule.Preset, "1hour")
	off := false
	in.Active = &off
	task, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.False(t, task.Active)

	clk.Advance(2 * time.Hour)
	due, err := svc.Due(ctx, clk.Now())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestService_UpdateAndDelete(t *testing.T) {
	svc, _ := newTestService(t, &fakeRunner{})
	ctx := context.Background()

	task, err := svc.Create(ctx, input(schedule.Preset, "1hour"))
	require.NoError(t, err)

	in := input(schedule.Interval, "10")
	in.Name = "renamed"
	updated, err := svc.Update(ctx, task.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, epoch.Add(10*time.Minute), updated.NextRunAt.UTC())

	_, err = svc.Update(ctx, "missing", in)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, task.ID))
	assert.ErrorIs(t, svc.Delete(ctx, task.ID), errs.ErrNotFound)
	_, err = svc.RunNow(ctx, task.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

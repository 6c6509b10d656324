package results

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tablediff/core/database"
	"tablediff/core/diff"
	"tablediff/core/errs"
	"tablediff/core/keymap"
	"tablediff/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	s := NewStore(db)
	require.NoError(t, s.Migrate())
	return s
}

func str(s string) *string { return &s }

func rec(id, field string, ct diff.ChangeType) diff.Record {
	r := diff.Record{RecordID: id, FieldName: field, ChangeType: ct}
	switch ct {
	case diff.Modified:
		r.SourceValue, r.TargetValue = str("s"), str("t")
	case diff.Deleted:
		r.SourceValue = str("s")
	case diff.Added:
		r.TargetValue = str("t")
	}
	return r
}

// completeRun creates, starts and completes a run holding records at the given time.
func completeRun(t *testing.T, s *Store, project string, at time.Time, records ...diff.Record) *Run {
	t.Helper()
	ctx := context.Background()
	s.now = func() time.Time { return at }

	run := &Run{ProjectID: project, SourceTable: "a", TargetTable: "b", KeyMapping: []keymap.Pair{{Source: "id", Target: "id"}}}
	require.NoError(t, s.Create(ctx, run))
	require.NoError(t, s.Start(ctx, run.ID))

	w := s.Writer(run.ID)
	for _, r := range records {
		require.NoError(t, w.Add(ctx, r))
	}
	require.NoError(t, w.Flush(ctx))
	require.NoError(t, s.Complete(ctx, run.ID, Completion{TotalDifferences: w.Count(), Stats: reconcile.Stats{Matched: 1}}))
	return run
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []diff.Record{
		rec("2", "name", diff.Modified),
		rec("1", "name", diff.Modified),
		rec("3", "id", diff.Deleted),
		rec("3", "name", diff.Deleted),
	}
	s.batchSize = 3
	run := completeRun(t, s, "p1", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), records...)

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, int64(4), got.TotalDifferences)
	assert.Equal(t, int64(1), got.Stats.Matched)
	assert.Equal(t, []keymap.Pair{{Source: "id", Target: "id"}}, got.KeyMapping)
	require.NotNil(t, got.CompletedAt)
	require.NotNil(t, got.StartedAt)

	stored, err := s.Records(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, records, stored)

	// Terminal states are final.
	assert.Error(t, s.Complete(ctx, run.ID, Completion{}))
	assert.Error(t, s.Start(ctx, run.ID))
	require.NoError(t, s.Fail(ctx, run.ID, errs.KindInternal, "late"))
	got, err = s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestFailDiscardsRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{SourceTable: "a", TargetTable: "b"}
	require.NoError(t, s.Create(ctx, run))
	require.NoError(t, s.Start(ctx, run.ID))

	w := s.Writer(run.ID)
	require.NoError(t, w.Add(ctx, rec("1", "x", diff.Modified)))
	require.NoError(t, w.Flush(ctx))

	require.NoError(t, s.Fail(ctx, run.ID, errs.KindConnection, "source unreachable"))

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, errs.KindConnection, got.FailureKind)
	assert.Equal(t, "source unreachable", got.FailureReason)

	records, err := s.Records(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	var n int64
	require.NoError(t, s.db.Model(&DiffRecord{}).Where("run_id = ?", run.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecordsHiddenUntilCompleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{}
	require.NoError(t, s.Create(ctx, run))
	require.NoError(t, s.Start(ctx, run.ID))
	w := s.Writer(run.ID)
	require.NoError(t, w.Add(ctx, rec("1", "x", diff.Modified)))
	require.NoError(t, w.Flush(ctx))

	records, err := s.Records(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = s.Records(context.Background(), "nope")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, s.Fail(context.Background(), "nope", "x", "y"), errs.ErrNotFound)
}

func TestConcurrentWriters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids := make([]string, 4)
	for i := range ids {
		run := &Run{}
		require.NoError(t, s.Create(ctx, run))
		require.NoError(t, s.Start(ctx, run.ID))
		ids[i] = run.ID
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			w := s.Writer(id)
			for j := 0; j < 50; j++ {
				assert.NoError(t, w.Add(ctx, rec(fmt.Sprintf("%d-%d", i, j), "f", diff.Modified)))
			}
			assert.NoError(t, w.Flush(ctx))
			assert.NoError(t, s.Complete(ctx, id, Completion{TotalDifferences: w.Count()}))
		}(i, id)
	}
	wg.Wait()

	for i, id := range ids {
		records, err := s.Records(ctx, id)
		require.NoError(t, err)
		require.Len(t, records, 50)
		for j, r := range records {
			assert.Equal(t, fmt.Sprintf("%d-%d", i, j), r.RecordID)
		}
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := completeRun(t, s, "p1", base)
	second := completeRun(t, s, "p2", base.Add(time.Hour))
	third := completeRun(t, s, "p1", base.Add(2*time.Hour))

	runs, err := s.List(context.Background(), Selector{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

	runs, err = s.List(context.Background(), Selector{ProjectID: "p1"})
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = s.List(context.Background(), Selector{RunIDs: []string{second.ID}})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second.ID, runs[0].ID)
}

func TestSetKeyMapping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{SourceTable: "a", TargetTable: "b"}
	require.NoError(t, s.Create(ctx, run))

	m := keymap.Mapping{
		Pairs:         []keymap.Pair{{Source: "id", Target: "ID"}},
		DroppedSource: []string{"region"},
	}
	assert.Error(t, s.SetKeyMapping(ctx, run.ID, m), "pending runs have no resolved mapping yet")

	require.NoError(t, s.Start(ctx, run.ID))
	require.NoError(t, s.SetKeyMapping(ctx, run.ID, m))

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Pairs, got.KeyMapping)
	assert.Equal(t, []string{"source:region"}, got.DroppedKeyColumns)
}

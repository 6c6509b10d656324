package results

import (
	"context"
	"testing"
	"time"

	"tablediff/core/diff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangesOverTime(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	completeRun(t, s, "p", day,
		rec("1", "a", diff.Modified),
		rec("2", "a", diff.Modified),
		rec("3", "b", diff.Added),
	)
	completeRun(t, s, "p", day.Add(5*time.Hour),
		rec("4", "a", diff.Modified),
	)
	completeRun(t, s, "p", day.Add(48*time.Hour),
		rec("5", "c", diff.Deleted),
	)

	got, err := s.ChangesOverTime(context.Background(), Selector{ProjectID: "p"}, nil, nil)
	require.NoError(t, err)

	require.Contains(t, got, "2024-03-10")
	assert.Equal(t, map[diff.ChangeType]int64{diff.Modified: 3, diff.Added: 1}, got["2024-03-10"])
	_, hasDeleted := got["2024-03-10"][diff.Deleted]
	assert.False(t, hasDeleted)
	assert.Equal(t, map[diff.ChangeType]int64{diff.Deleted: 1}, got["2024-03-12"])
	assert.NotContains(t, got, "2024-03-11")

	start := day.Add(24 * time.Hour)
	got, err = s.ChangesOverTime(context.Background(), Selector{ProjectID: "p"}, &start, nil)
	require.NoError(t, err)
	assert.Equal(t, ChangesOverTime{"2024-03-12": {diff.Deleted: 1}}, got)

	end := day
	got, err = s.ChangesOverTime(context.Background(), Selector{ProjectID: "p"}, nil, &end)
	require.NoError(t, err)
	assert.Equal(t, ChangesOverTime{"2024-03-10": {diff.Modified: 2, diff.Added: 1}}, got)
}

func TestChangesOverTimeIgnoresFailedRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{ProjectID: "p"}
	require.NoError(t, s.Create(ctx, run))
	require.NoError(t, s.Start(ctx, run.ID))
	w := s.Writer(run.ID)
	require.NoError(t, w.Add(ctx, rec("1", "a", diff.Modified)))
	require.NoError(t, w.Flush(ctx))
	require.NoError(t, s.Fail(ctx, run.ID, "cancelled", "stopped"))

	got, err := s.ChangesOverTime(ctx, Selector{ProjectID: "p"}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFieldFrequency(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	r1 := completeRun(t, s, "p", at,
		rec("1", "name", diff.Modified),
		rec("2", "email", diff.Modified),
		rec("3", "name", diff.Deleted),
		rec("3", "email", diff.Deleted),
		rec("3", "age", diff.Deleted),
	)
	completeRun(t, s, "q", at, rec("9", "zip", diff.Added))

	got, err := s.FieldFrequency(context.Background(), Selector{ProjectID: "p"})
	require.NoError(t, err)
	assert.Equal(t, []FieldCount{{"email", 2}, {"name", 2}, {"age", 1}}, got)

	got, err = s.FieldFrequency(context.Background(), Selector{RunIDs: []string{r1.ID}})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = s.FieldFrequency(context.Background(), Selector{ProjectID: "none"})
	require.NoError(t, err)
	assert.Equal(t, []FieldCount{}, got)
}

func TestSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	completeRun(t, s, "p", at,
		rec("1", "name", diff.Modified),
		rec("2", "email", diff.Modified),
		rec("2", "name", diff.Modified),
		rec("3", "age", diff.Deleted),
	)
	failed := &Run{ProjectID: "p"}
	require.NoError(t, s.Create(ctx, failed))
	require.NoError(t, s.Fail(ctx, failed.ID, "schema_error", "missing table"))

	sum, err := s.Summary(ctx, Selector{ProjectID: "p"})
	require.NoError(t, err)
	assert.Equal(t, &Summary{
		TotalRuns:              2,
		CompletedRuns:          1,
		TotalDifferences:       4,
		DistinctModifiedFields: 2,
	}, sum)
}

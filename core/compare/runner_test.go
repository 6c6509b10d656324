package compare

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tablediff/core/database"
	"tablediff/core/diff"
	"tablediff/core/endpoint"
	"tablediff/core/errs"
	"tablediff/core/keymap"
	"tablediff/core/results"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapResolver map[string]endpoint.Connection

func (m mapResolver) GetConnection(_ context.Context, id string) (endpoint.Connection, error) {
	c, ok := m[id]
	if !ok {
		return endpoint.Connection{}, fmt.Errorf("%w: connection %s", errs.ErrNotFound, id)
	}
	return c.Snapshot(), nil
}

type fixture struct {
	runner *Runner
	store  *results.Store
	mocks  map[string]*endpoint.MockAdapter
}

func newFixture(t *testing.T, cfg Config, source, target map[string]*endpoint.MockTable) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	store := results.NewStore(db)
	require.NoError(t, store.Migrate())

	f := &fixture{
		store: store,
		mocks: map[string]*endpoint.MockAdapter{
			"src": endpoint.NewMock(source),
			"dst": endpoint.NewMock(target),
		},
	}
	resolver := mapResolver{
		"src": {ID: "src", Engine: endpoint.EngineSQLite, Path: "src.db"},
		"dst": {ID: "dst", Engine: endpoint.EngineSQLite, Path: "dst.db"},
	}
	f.runner = NewRunner(store, resolver, cfg, zap.NewNop()).
		WithOpener(func(_ context.Context, conn endpoint.Connection, opts endpoint.Options) (endpoint.Adapter, error) {
			return endpoint.Wrap(f.mocks[conn.ID], opts), nil
		})
	t.Cleanup(func() { _ = f.runner.Shutdown(context.Background()) })
	return f
}

func people(rows ...endpoint.Row) *endpoint.MockTable {
	return &endpoint.MockTable{
		Columns: []endpoint.Column{
			{Name: "id", Type: "varchar"},
			{Name: "name", Type: "varchar"},
		},
		PrimaryKeys: []string{"id"},
		Rows:        rows,
	}
}

func person(id, name string) endpoint.Row {
	return endpoint.Row{"id": endpoint.String(id), "name": endpoint.String(name)}
}

func request() Request {
	return Request{
		Source: TableRef{ConnectionID: "src", Table: "people"},
		Target: TableRef{ConnectionID: "dst", Table: "people"},
	}
}

func TestRun_SingleModifiedField(t *testing.T) {
	f := newFixture(t, Config{MaxConcurrentRuns: 1},
		map[string]*endpoint.MockTable{"people": people(person("K1", "Alice"))},
		map[string]*endpoint.MockTable{"people": people(person("K1", "Alicia"))},
	)
	ctx := context.Background()

	req := request()
	req.SourceKeys, req.TargetKeys = []string{"id"}, []string{"id"}
	run, err := f.runner.Run(ctx, req)
	require.NoError(t, err)
	require.Equal(t, results.StatusCompleted, run.Status, run.FailureReason)
	assert.Equal(t, int64(1), run.TotalDifferences)

	records, err := f.store.Records(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "K1", r.RecordID)
	assert.Equal(t, "name", r.FieldName)
	assert.Equal(t, "Alice", *r.SourceValue)
	assert.Equal(t, "Alicia", *r.TargetValue)
	assert.Equal(t, diff.Modified, r.ChangeType)
}

func TestRun_InfersPrimaryKeys(t *testing.T) {
	f := newFixture(t, Config{MaxConcurrentRuns: 2},
		map[string]*endpoint.MockTable{"people": people(person("3", "c"), person("1", "a"))},
		map[string]*endpoint.MockTable{"people": people(person("1", "a"), person("2", "b"))},
	)
	ctx := context.Background()

	run, err := f.runner.Run(ctx, request())
	require.NoError(t, err)
	require.Equal(t, results.StatusCompleted, run.Status, run.FailureReason)
	assert.Equal(t, []keymap.Pair{{Source: "id", Target: "id"}}, run.KeyMapping)
	assert.Equal(t, int64(1), run.Stats.Matched)
	assert.Equal(t, int64(1), run.Stats.SourceOnly)
	assert.Equal(t, int64(1), run.Stats.TargetOnly)

	records, err := f.store.Records(ctx, run.ID)
	require.NoError(t, err)

	var types []diff.ChangeType
	for _, r := range records {
		types = append(types, r.ChangeType)
	}
	assert.Equal(t, []diff.ChangeType{diff.Added, diff.Added, diff.Deleted, diff.Deleted}, types)
	assert.Equal(t, "2", records[0].RecordID)
	assert.Equal(t, "3", records[2].RecordID)
}

func TestRun_NoPrimaryKeys(t *testing.T) {
	src, dst := people(), people()
	src.PrimaryKeys, dst.PrimaryKeys = nil, nil
	f := newFixture(t, Config{}, map[string]*endpoint.MockTable{"people": src}, map[string]*endpoint.MockTable{"people": dst})

	run, err := f.runner.Run(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, results.StatusFailed, run.Status)
	assert.Equal(t, errs.KindEmptyMapping, run.FailureKind)
}

func TestStart_RejectsBeforeCreatingRun(t *testing.T) {
	f := newFixture(t, Config{}, map[string]*endpoint.MockTable{}, map[string]*endpoint.MockTable{})
	ctx := context.Background()

	req := request()
	req.SourceKeys = []string{"id"}
	_, err := f.runner.Start(ctx, req)
	assert.ErrorIs(t, err, errs.ErrEmptyMapping)

	req = request()
	req.Target.ConnectionID = "missing"
	_, err = f.runner.Start(ctx, req)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.runner.Start(ctx, Request{})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	runs, err := f.store.List(ctx, results.Selector{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRun_MissingTable(t *testing.T) {
	f := newFixture(t, Config{},
		map[string]*endpoint.MockTable{"people": people()},
		map[string]*endpoint.MockTable{},
	)

	run, err := f.runner.Run(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, results.StatusFailed, run.Status)
	assert.Equal(t, errs.KindSchema, run.FailureKind)
}

func TestRun_MissingKeyColumn(t *testing.T) {
	f := newFixture(t, Config{},
		map[string]*endpoint.MockTable{"people": people()},
		map[string]*endpoint.MockTable{"people": people()},
	)

	req := request()
	req.SourceKeys, req.TargetKeys = []string{"uid"}, []string{"id"}
	run, err := f.runner.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, results.StatusFailed, run.Status)
	assert.Equal(t, errs.KindSchema, run.FailureKind)
}

func TestRun_CursorErrorDiscardsRecords(t *testing.T) {
	src := people(person("1", "a"), person("2", "b"), person("3", "c"))
	src.Err = fmt.Errorf("%w: connection reset", errs.ErrConnection)
	src.ErrAfter = 2
	f := newFixture(t, Config{SortMode: "server"},
		map[string]*endpoint.MockTable{"people": src},
		map[string]*endpoint.MockTable{"people": people(person("1", "x"), person("2", "y"))},
	)
	ctx := context.Background()

	run, err := f.runner.Run(ctx, request())
	require.NoError(t, err)
	assert.Equal(t, results.StatusFailed, run.Status)
	assert.Equal(t, errs.KindConnection, run.FailureKind)
	assert.Contains(t, run.FailureReason, "connection reset")

	records, err := f.store.Records(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRun_OpenError(t *testing.T) {
	f := newFixture(t, Config{}, nil, nil)
	f.runner.WithOpener(func(context.Context, endpoint.Connection, endpoint.Options) (endpoint.Adapter, error) {
		return nil, fmt.Errorf("%w: access denied", errs.ErrConnection)
	})

	run, err := f.runner.Run(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, results.StatusFailed, run.Status)
	assert.Equal(t, errs.KindConnection, run.FailureKind)
}

func TestRun_Timeout(t *testing.T) {
	src := people()
	src.Stall = true
	f := newFixture(t, Config{OpTimeoutSeconds: 1, SortMode: "server"},
		map[string]*endpoint.MockTable{"people": src},
		map[string]*endpoint.MockTable{"people": people()},
	)

	run, err := f.runner.Run(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, results.StatusFailed, run.Status)
	assert.Equal(t, errs.KindTimeout, run.FailureKind)
}

func TestCancel(t *testing.T) {
	src := people()
	src.Stall = true
	f := newFixture(t, Config{SortMode: "server"},
		map[string]*endpoint.MockTable{"people": src},
		map[string]*endpoint.MockTable{"people": people()},
	)
	ctx := context.Background()

	run, err := f.runner.Start(ctx, request())
	require.NoError(t, err)
	require.NoError(t, f.runner.Cancel(ctx, run.ID))

	wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	got, err := f.runner.Wait(wctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, results.StatusFailed, got.Status)
	assert.Equal(t, errs.KindCancelled, got.FailureKind)

	assert.ErrorIs(t, f.runner.Cancel(ctx, run.ID), ErrNotRunning)

	assert.ErrorIs(t, f.runner.Cancel(ctx, "nope"), errs.ErrNotFound)
}

func TestConcurrentRuns(t *testing.T) {
	f := newFixture(t, Config{MaxConcurrentRuns: 2},
		map[string]*endpoint.MockTable{"people": people(person("1", "a"), person("2", "b"))},
		map[string]*endpoint.MockTable{"people": people(person("1", "a"), person("2", "c"))},
	)
	ctx := context.Background()

	const n = 6
	var wg sync.WaitGroup
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			run, err := f.runner.Run(ctx, request())
			if assert.NoError(t, err) {
				ids[i] = run.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		run, err := f.store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, results.StatusCompleted, run.Status)

		records, err := f.store.Records(ctx, id)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "2", records[0].RecordID)
	}
}

func TestSchemaCacheSharedAcrossRuns(t *testing.T) {
	f := newFixture(t, Config{SchemaCacheTTLSeconds: 60, SortMode: "server"},
		map[string]*endpoint.MockTable{"people": people()},
		map[string]*endpoint.MockTable{"people": people()},
	)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run, err := f.runner.Run(ctx, request())
		require.NoError(t, err)
		require.Equal(t, results.StatusCompleted, run.Status)
	}
	assert.Equal(t, int64(1), f.mocks["src"].DescribeCalls())
	assert.Equal(t, int64(1), f.mocks["dst"].DescribeCalls())
}

func contacts(rows ...endpoint.Row) *endpoint.MockTable {
	t := people(rows...)
	t.Columns = append(t.Columns, endpoint.Column{Name: "email", Type: "varchar"})
	return t
}

func contact(id, name, email string) endpoint.Row {
	r := person(id, name)
	r["email"] = endpoint.String(email)
	return r
}

func TestRun_ColumnsFollowCursorsNotCachedSchema(t *testing.T) {
	src := contacts(contact("K1", "Ann", "a@x"))
	dst := contacts(contact("K1", "Ann", "a@x"))
	f := newFixture(t, Config{SchemaCacheTTLSeconds: 60, SortMode: "server"},
		map[string]*endpoint.MockTable{"people": src},
		map[string]*endpoint.MockTable{"people": dst},
	)
	ctx := context.Background()

	run, err := f.runner.Run(ctx, request())
	require.NoError(t, err)
	require.Equal(t, results.StatusCompleted, run.Status, run.FailureReason)
	assert.Equal(t, int64(0), run.TotalDifferences)

	// The target drops email while the cached schema still lists it.
	dst.Columns = dst.Columns[:2]
	dst.Rows = []endpoint.Row{person("K1", "Ann")}

	run, err = f.runner.Run(ctx, request())
	require.NoError(t, err)
	require.Equal(t, results.StatusCompleted, run.Status, run.FailureReason)
	assert.Equal(t, int64(0), run.TotalDifferences)
	assert.Equal(t, int64(1), f.mocks["dst"].DescribeCalls())

	// Both sides gain a column the cache has never seen.
	src.Columns = append(src.Columns, endpoint.Column{Name: "city", Type: "varchar"})
	src.Rows[0]["city"] = endpoint.String("Oslo")
	dst.Columns = append(dst.Columns, endpoint.Column{Name: "city", Type: "varchar"})
	dst.Rows[0]["city"] = endpoint.String("Bergen")

	run, err = f.runner.Run(ctx, request())
	require.NoError(t, err)
	require.Equal(t, results.StatusCompleted, run.Status, run.FailureReason)
	assert.Equal(t, int64(1), run.TotalDifferences)

	records, err := f.store.Records(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "city", records[0].FieldName)
	assert.Equal(t, "Oslo", *records[0].SourceValue)
	assert.Equal(t, "Bergen", *records[0].TargetValue)

	// Each mismatch drops the cached description so the next run describes again.
	assert.Equal(t, int64(1), f.mocks["src"].DescribeCalls())
	assert.Equal(t, int64(2), f.mocks["dst"].DescribeCalls())

	_, err = f.runner.Run(ctx, request())
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.mocks["src"].DescribeCalls())
	assert.Equal(t, int64(3), f.mocks["dst"].DescribeCalls())
}

func TestRun_ExplicitFields(t *testing.T) {
	f := newFixture(t, Config{SortMode: "server"},
		map[string]*endpoint.MockTable{"people": contacts(contact("K1", "Ann", "a@x"))},
		map[string]*endpoint.MockTable{"people": contacts(contact("K1", "Anne", "b@x"))},
	)
	ctx := context.Background()

	req := request()
	req.Fields = []keymap.Pair{{Source: "email", Target: "EMAIL"}}
	run, err := f.runner.Run(ctx, req)
	require.NoError(t, err)
	require.Equal(t, results.StatusCompleted, run.Status, run.FailureReason)
	assert.Equal(t, req.Fields, run.CompareFields)

	records, err := f.store.Records(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "email", records[0].FieldName)

	req.Fields = []keymap.Pair{{Source: "email", Target: "phone"}}
	run, err = f.runner.Run(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, results.StatusFailed, run.Status)
	assert.Equal(t, errs.KindSchema, run.FailureKind)

	req.Fields = []keymap.Pair{{Source: "email"}}
	_, err = f.runner.Start(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

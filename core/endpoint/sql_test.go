package endpoint

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"tablediff/core/database"
	"tablediff/core/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteFile creates a sqlite database file populated by stmts.
func newSQLiteFile(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "endpoint.db")

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: path})
	require.NoError(t, err)
	for _, s := range stmts {
		require.NoError(t, db.Exec(s).Error, s)
	}
	require.NoError(t, database.Close(db))
	return path
}

func drain(t *testing.T, cur Cursor) []Row {
	t.Helper()
	var rows []Row
	for {
		row, err := cur.Next(context.Background())
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestSQLiteDescribe(t *testing.T) {
	path := newSQLiteFile(t,
		`CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT NOT NULL, joined DATETIME, active BOOLEAN)`,
		`INSERT INTO customers VALUES (2, 'Bob', '2024-01-02 03:04:05', 1), (1, 'Alice', NULL, 0)`,
	)

	a, err := Open(context.Background(), Connection{ID: "src", Engine: EngineSQLite, Path: path}, Options{})
	require.NoError(t, err)
	defer a.Close()

	schema, err := a.Describe(context.Background(), "customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "joined", "active"}, schema.Names())
	assert.Equal(t, []string{"id"}, schema.PrimaryKeys)
	assert.Equal(t, int64(2), schema.RowCount)

	name, ok := schema.Column("name")
	require.True(t, ok)
	assert.False(t, name.Nullable)

	_, err = a.Describe(context.Background(), "missing")
	assert.ErrorIs(t, err, errs.ErrSchema)
}

func TestSQLiteCursor(t *testing.T) {
	path := newSQLiteFile(t,
		`CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT NOT NULL, joined DATETIME, active BOOLEAN)`,
		`INSERT INTO customers VALUES (2, 'Bob', '2024-01-02 03:04:05', 1), (1, 'Alice', NULL, 0)`,
	)

	for _, mode := range []SortMode{SortServer, SortMemory, SortAuto} {
		t.Run(string(mode), func(t *testing.T) {
			a, err := Open(context.Background(), Connection{Engine: EngineSQLite, Path: path}, Options{SortMode: mode})
			require.NoError(t, err)
			defer a.Close()

			cur, err := a.OpenCursor(context.Background(), "customers", []string{"id"})
			require.NoError(t, err)
			defer cur.Close()

			rows := drain(t, cur)
			require.Len(t, rows, 2)

			assert.Equal(t, Int(1), rows[0]["id"])
			assert.Equal(t, String("Alice"), rows[0]["name"])
			assert.True(t, rows[0]["joined"].IsNull())
			assert.Equal(t, Bool(false), rows[0]["active"])

			assert.Equal(t, Int(2), rows[1]["id"])
			joined := rows[1]["joined"]
			assert.Equal(t, KindTime, joined.Kind)
			assert.True(t, joined.Time.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
			assert.Equal(t, 0, cur.Warnings())
		})
	}
}

func TestSQLiteCursorErrors(t *testing.T) {
	path := newSQLiteFile(t, `CREATE TABLE t (id INTEGER)`)

	a, err := Open(context.Background(), Connection{Engine: EngineSQLite, Path: path}, Options{SortMode: SortServer})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.OpenCursor(context.Background(), "t", []string{"nope"})
	assert.ErrorIs(t, err, errs.ErrSchema)

	_, err = a.OpenCursor(context.Background(), "missing", []string{"id"})
	assert.ErrorIs(t, err, errs.ErrSchema)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(context.Background(), Connection{Engine: EngineSQLite, Path: filepath.Join(t.TempDir(), "absent.db")}, Options{})
	assert.ErrorIs(t, err, errs.ErrConnection)

	_, err = Open(context.Background(), Connection{Engine: "oracle"}, Options{})
	assert.ErrorIs(t, err, errs.ErrConnection)

	_, err = Open(context.Background(), Connection{Engine: EngineMySQL}, Options{})
	assert.ErrorIs(t, err, errs.ErrConnection)
}

func TestSQLiteTextOrdering(t *testing.T) {
	path := newSQLiteFile(t,
		`CREATE TABLE words (w TEXT COLLATE NOCASE)`,
		`INSERT INTO words VALUES ('b'), ('B'), ('a'), (NULL), ('A')`,
	)

	a, err := Open(context.Background(), Connection{Engine: EngineSQLite, Path: path}, Options{SortMode: SortServer})
	require.NoError(t, err)
	defer a.Close()

	cur, err := a.OpenCursor(context.Background(), "words", []string{"w"})
	require.NoError(t, err)
	defer cur.Close()

	var got []string
	for _, r := range drain(t, cur) {
		if r["w"].IsNull() {
			got = append(got, "<null>")
			continue
		}
		got = append(got, r["w"].Str)
	}
	assert.Equal(t, []string{"<null>", "A", "B", "a", "b"}, got)
}

package endpoint

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"tablediff/core/errs"
)

// MockTable is an in-memory table served by a MockAdapter.
type MockTable struct {
	Columns     []Column
	PrimaryKeys []string
	// Rows are returned in slice order regardless of the requested ordering.
	Rows []Row

	// Err, when set, is returned by the cursor after ErrAfter rows.
	Err      error
	ErrAfter int
	// Stall makes the cursor block after ErrAfter rows until its context ends.
	Stall bool
}

// MockAdapter is an Adapter over in-memory tables, used in tests.
type MockAdapter struct {
	Tables map[string]*MockTable
	// DescribeErr is returned by Describe and OpenCursor when set.
	DescribeErr error

	describeCalls atomic.Int64
	closed        atomic.Bool
}

// NewMock returns a MockAdapter serving tables.
func NewMock(tables map[string]*MockTable) *MockAdapter {
	return &MockAdapter{Tables: tables}
}

// DescribeCalls returns how many times Describe was called.
func (m *MockAdapter) DescribeCalls() int64 { return m.describeCalls.Load() }

// Closed reports whether Close was called.
func (m *MockAdapter) Closed() bool { return m.closed.Load() }

func (m *MockAdapter) table(name string) (*MockTable, error) {
	if m.DescribeErr != nil {
		return nil, m.DescribeErr
	}
	t, ok := m.Tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: table %q not found", errs.ErrSchema, name)
	}
	return t, nil
}

func (m *MockAdapter) Describe(ctx context.Context, table string) (*TableSchema, error) {
	m.describeCalls.Add(1)
	t, err := m.table(table)
	if err != nil {
		return nil, err
	}
	return &TableSchema{
		Table:       table,
		Columns:     append([]Column(nil), t.Columns...),
		PrimaryKeys: append([]string(nil), t.PrimaryKeys...),
		RowCount:    int64(len(t.Rows)),
	}, nil
}

func (m *MockAdapter) OpenCursor(ctx context.Context, table string, orderBy []string) (Cursor, error) {
	t, err := m.table(table)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(t.Columns, orderBy, table); err != nil {
		return nil, err
	}
	return &mockCursor{table: t}, nil
}

func (m *MockAdapter) Close() error {
	m.closed.Store(true)
	return nil
}

type mockCursor struct {
	table *MockTable
	pos   int
}

func (c *mockCursor) Columns() []Column { return c.table.Columns }

func (c *mockCursor) Warnings() int {
	n := 0
	for _, r := range c.table.Rows[:c.pos] {
		for _, v := range r {
			if v.Coerced {
				n++
			}
		}
	}
	return n
}

func (c *mockCursor) Next(ctx context.Context) (Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr(err, "fetch row")
	}
	if c.pos == c.table.ErrAfter {
		if c.table.Stall {
			<-ctx.Done()
			return nil, wrapErr(ctx.Err(), "fetch row")
		}
		if c.table.Err != nil {
			return nil, c.table.Err
		}
	}
	if c.pos >= len(c.table.Rows) {
		return nil, io.EOF
	}
	row := c.table.Rows[c.pos]
	c.pos++
	return row, nil
}

func (c *mockCursor) Close() error { return nil }

package endpoint

import (
	"context"
	"fmt"
	"io"
	"slices"

	"tablediff/core/errs"
)

// CompareKeys compares two rows field-wise on the given key columns.
func CompareKeys(a, b Row, keys []string) int {
	for _, k := range keys {
		if c := Compare(a[k], b[k]); c != 0 {
			return c
		}
	}
	return 0
}

// checkedCursor fails when the underlying cursor yields a key smaller than its
// predecessor.
type checkedCursor struct {
	Cursor
	table string
	keys  []string
	prev  Row
}

func (c *checkedCursor) Next(ctx context.Context) (Row, error) {
	row, err := c.Cursor.Next(ctx)
	if err != nil {
		return nil, err
	}
	if c.prev != nil && CompareKeys(c.prev, row, c.keys) > 0 {
		return nil, fmt.Errorf("%w: %s is not ordered by %v on the server; use sort_mode=memory",
			errs.ErrResourceLimit, c.table, c.keys)
	}
	c.prev = row
	return row, nil
}

// sliceCursor iterates rows held in memory.
type sliceCursor struct {
	cols     []Column
	rows     []Row
	pos      int
	warnings int
}

func (c *sliceCursor) Columns() []Column { return c.cols }

func (c *sliceCursor) Warnings() int { return c.warnings }

func (c *sliceCursor) Next(ctx context.Context) (Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr(err, "fetch row")
	}
	if c.pos >= len(c.rows) {
		return nil, io.EOF
	}
	row := c.rows[c.pos]
	c.pos++
	return row, nil
}

func (c *sliceCursor) Close() error {
	c.rows = nil
	return nil
}

// materialize drains cur into memory and sorts it by keys. It fails with
// errs.ErrResourceLimit once more than limit rows have been read.
func materialize(ctx context.Context, cur Cursor, table string, keys []string, limit int64) (*sliceCursor, error) {
	defer cur.Close()

	var rows []Row
	for {
		row, err := cur.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if int64(len(rows)) >= limit {
			return nil, fmt.Errorf("%w: %s has more than %d rows", errs.ErrResourceLimit, table, limit)
		}
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b Row) int { return CompareKeys(a, b, keys) })
	return &sliceCursor{cols: cur.Columns(), rows: rows, warnings: cur.Warnings()}, nil
}

// sortingAdapter applies the configured sort mode on top of an engine adapter.
type sortingAdapter struct {
	Adapter
	opts Options
}

func (a *sortingAdapter) OpenCursor(ctx context.Context, table string, orderBy []string) (Cursor, error) {
	mode := a.opts.SortMode
	if mode == SortAuto {
		schema, err := a.Describe(ctx, table)
		if err != nil {
			return nil, err
		}
		mode = SortServer
		if schema.RowCount <= a.opts.MaterializeLimit {
			mode = SortMemory
		}
	}

	if mode == SortMemory {
		cur, err := a.Adapter.OpenCursor(ctx, table, nil)
		if err != nil {
			return nil, err
		}
		if err := checkColumns(cur.Columns(), orderBy, table); err != nil {
			_ = cur.Close()
			return nil, err
		}
		return materialize(ctx, cur, table, orderBy, a.opts.MaterializeLimit)
	}

	cur, err := a.Adapter.OpenCursor(ctx, table, orderBy)
	if err != nil {
		return nil, err
	}
	return &checkedCursor{Cursor: cur, table: table, keys: orderBy}, nil
}

func checkColumns(cols []Column, names []string, table string) error {
	for _, n := range names {
		if !slices.ContainsFunc(cols, func(c Column) bool { return c.Name == n }) {
			return fmt.Errorf("%w: column %q not found in %s", errs.ErrSchema, n, table)
		}
	}
	return nil
}

package endpoint

import (
	"context"
	"time"
)

// Column describes one column of a table.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`

	// Precision is the resolution of date/time columns, zero for other types.
	Precision time.Duration `json:"-"`
}

// TableSchema is the result of describing a table.
type TableSchema struct {
	Table       string   `json:"table"`
	Columns     []Column `json:"columns"`
	PrimaryKeys []string `json:"primary_keys"`
	RowCount    int64    `json:"row_count"`
}

// Column returns the column with the given name.
func (s *TableSchema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the column names in table order.
func (s *TableSchema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Row maps column names to normalized values.
type Row map[string]Value

// Adapter is a connection to one endpoint.
type Adapter interface {
	// Describe reports the schema of a table. A missing table yields errs.ErrSchema.
	Describe(ctx context.Context, table string) (*TableSchema, error)

	// OpenCursor returns the rows of table ordered by orderBy. Unknown order columns
	// yield errs.ErrSchema.
	OpenCursor(ctx context.Context, table string, orderBy []string) (Cursor, error)

	// Close releases the underlying connection.
	Close() error
}

// Cursor is a forward-only row iterator.
type Cursor interface {
	// Columns returns the columns of the cursor in table order.
	Columns() []Column

	// Next returns the next row, or io.EOF once the cursor is exhausted.
	Next(ctx context.Context) (Row, error)

	// Warnings returns the number of values coerced to strings so far.
	Warnings() int

	Close() error
}

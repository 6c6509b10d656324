package endpoint

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"tablediff/core/database"
	"tablediff/core/errs"

	"gorm.io/gorm"
)

// sqlAdapter serves sqlite, mysql and mariadb endpoints through GORM.
type sqlAdapter struct {
	db     *gorm.DB
	engine Engine
	// fracDigits is the engine default for fractional seconds of untyped precision.
	fracDigits int
}

func openSQL(conn Connection, opts Options) (*sqlAdapter, error) {
	cfg := database.Config{
		Driver:         "mysql",
		Host:           conn.Host,
		Port:           conn.Port,
		User:           conn.User,
		Password:       conn.Password,
		Name:           conn.Database,
		TimeoutSeconds: int(opts.Timeout.Seconds()),
		MaxOpenConns:   4,
	}
	digits := 0

	if conn.Engine == EngineSQLite {
		if !strings.HasPrefix(conn.Path, "file:") && conn.Path != ":memory:" {
			if _, err := os.Stat(conn.Path); err != nil {
				return nil, fmt.Errorf("%w: sqlite database %s: %v", errs.ErrConnection, conn.Path, err)
			}
		}
		cfg.Driver = "sqlite"
		cfg.Name = conn.Path
		digits = 9
	} else if cfg.Port == 0 {
		cfg.Port = 3306
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, wrapErr(err, "open %s endpoint %s", conn.Engine, conn.ID)
	}
	return &sqlAdapter{db: db, engine: conn.Engine, fracDigits: digits}, nil
}

func (a *sqlAdapter) columns(ctx context.Context, table string) ([]Column, []string, error) {
	db := a.db.WithContext(ctx)

	infos, err := database.GetTableColumns(db, table)
	if err != nil {
		return nil, nil, wrapErr(err, "describe %s", table)
	}
	if len(infos) == 0 {
		return nil, nil, fmt.Errorf("%w: table %q not found", errs.ErrSchema, table)
	}

	cols := make([]Column, len(infos))
	for i, info := range infos {
		cols[i] = Column{
			Name:      info.Field,
			Type:      info.Type,
			Nullable:  info.Nullable(),
			Precision: timePrecision(info.Type, a.fracDigits),
		}
	}

	keys, err := database.GetPrimaryKeys(db, table)
	if err != nil {
		return nil, nil, wrapErr(err, "describe %s", table)
	}
	return cols, keys, nil
}

func (a *sqlAdapter) Describe(ctx context.Context, table string) (*TableSchema, error) {
	cols, keys, err := a.columns(ctx, table)
	if err != nil {
		return nil, err
	}

	count, err := database.CountRows(a.db.WithContext(ctx), table)
	if err != nil {
		return nil, wrapErr(err, "count %s", table)
	}

	return &TableSchema{Table: table, Columns: cols, PrimaryKeys: keys, RowCount: count}, nil
}

func (a *sqlAdapter) OpenCursor(ctx context.Context, table string, orderBy []string) (Cursor, error) {
	cols, _, err := a.columns(ctx, table)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}

	query := "SELECT * FROM " + database.Quote(a.db, table)
	if len(orderBy) > 0 {
		terms := make([]string, len(orderBy))
		for i, name := range orderBy {
			col, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: column %q not found in %s", errs.ErrSchema, name, table)
			}
			terms[i] = a.orderTerm(col)
		}
		query += " ORDER BY " + strings.Join(terms, ", ")
	}

	rows, err := a.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, wrapErr(err, "query %s", table)
	}

	names, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, wrapErr(err, "query %s", table)
	}
	ordered := make([]Column, len(names))
	for i, n := range names {
		ordered[i] = byName[n]
		ordered[i].Name = n
	}

	return &sqlCursor{rows: rows, cols: ordered}, nil
}

// orderTerm returns the ORDER BY term for col. Text columns sort by bytes so the
// engine order agrees with Compare; NULLs sort first on both engines by default.
func (a *sqlAdapter) orderTerm(col Column) string {
	q := database.Quote(a.db, col.Name)
	if !isText(col.Type) {
		return q
	}
	if a.engine == EngineSQLite {
		return q + " COLLATE BINARY"
	}
	return "CAST(" + q + " AS BINARY)"
}

func (a *sqlAdapter) Close() error {
	return database.Close(a.db)
}

type sqlCursor struct {
	rows     *sql.Rows
	cols     []Column
	warnings int
}

func (c *sqlCursor) Columns() []Column { return c.cols }

func (c *sqlCursor) Warnings() int { return c.warnings }

func (c *sqlCursor) Next(ctx context.Context) (Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr(err, "fetch row")
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return nil, wrapErr(err, "fetch row")
		}
		return nil, io.EOF
	}

	raw := make([]any, len(c.cols))
	dest := make([]any, len(c.cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
		return nil, wrapErr(err, "scan row")
	}

	row := make(Row, len(c.cols))
	for i, col := range c.cols {
		v, err := Normalize(raw[i], col)
		if err != nil {
			c.warnings++
		}
		row[col.Name] = v
	}
	return row, nil
}

func (c *sqlCursor) Close() error { return c.rows.Close() }

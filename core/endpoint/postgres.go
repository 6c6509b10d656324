package endpoint

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"tablediff/core/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresAdapter serves postgres endpoints through a pgx pool.
type postgresAdapter struct {
	pool *pgxpool.Pool
}

func openPostgres(ctx context.Context, conn Connection, opts Options) (*postgresAdapter, error) {
	port := conn.Port
	if port == 0 {
		port = 5432
	}
	sslmode := conn.Params["sslmode"]
	if sslmode == "" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(conn.User, conn.Password),
		Host:   conn.Host + ":" + strconv.Itoa(port),
		Path:   "/" + conn.Database,
	}
	q := url.Values{}
	q.Set("sslmode", sslmode)
	q.Set("connect_timeout", strconv.Itoa(int(opts.Timeout.Seconds())))
	u.RawQuery = q.Encode()

	cfg, err := pgxpool.ParseConfig(u.String())
	if err != nil {
		return nil, fmt.Errorf("%w: parsing connection string: %v", errs.ErrConnection, err)
	}
	cfg.MaxConns = 4

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, wrapErr(err, "connecting to PostgreSQL")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapErr(err, "pinging PostgreSQL")
	}
	return &postgresAdapter{pool: pool}, nil
}

// splitTable separates an optional schema qualifier from a table name.
func splitTable(table string) (string, string) {
	if i := strings.IndexByte(table, '.'); i > 0 {
		return table[:i], table[i+1:]
	}
	return "public", table
}

func quoteIdentPg(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func qualifiedPg(table string) string {
	schema, name := splitTable(table)
	return quoteIdentPg(schema) + "." + quoteIdentPg(name)
}

func (a *postgresAdapter) columns(ctx context.Context, table string) ([]Column, error) {
	schema, name := splitTable(table)

	rows, err := a.pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable, datetime_precision
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, name)
	if err != nil {
		return nil, wrapErr(err, "describe %s", table)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			colName, dataType, nullable string
			dtPrecision                 *int32
		)
		if err := rows.Scan(&colName, &dataType, &nullable, &dtPrecision); err != nil {
			return nil, wrapErr(err, "describe %s", table)
		}
		col := Column{Name: colName, Type: dataType, Nullable: nullable == "YES"}
		switch classify(dataType) {
		case classDate:
			col.Precision = timePrecision(dataType, 0)
		case classDateTime:
			digits := 6
			if dtPrecision != nil {
				digits = int(*dtPrecision)
			}
			col.Precision = timePrecision("timestamp", digits)
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err, "describe %s", table)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: table %q not found", errs.ErrSchema, table)
	}
	return cols, nil
}

func (a *postgresAdapter) primaryKeys(ctx context.Context, table string) ([]string, error) {
	schema, name := splitTable(table)

	rows, err := a.pool.Query(ctx, `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		  AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position`, schema, name)
	if err != nil {
		return nil, wrapErr(err, "primary keys of %s", table)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapErr(err, "primary keys of %s", table)
	}
	return keys, nil
}

func (a *postgresAdapter) Describe(ctx context.Context, table string) (*TableSchema, error) {
	cols, err := a.columns(ctx, table)
	if err != nil {
		return nil, err
	}
	keys, err := a.primaryKeys(ctx, table)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := a.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+qualifiedPg(table)).Scan(&count); err != nil {
		return nil, wrapErr(err, "counting rows in %s", table)
	}

	return &TableSchema{Table: table, Columns: cols, PrimaryKeys: keys, RowCount: count}, nil
}

func (a *postgresAdapter) OpenCursor(ctx context.Context, table string, orderBy []string) (Cursor, error) {
	cols, err := a.columns(ctx, table)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}

	query := "SELECT * FROM " + qualifiedPg(table)
	if len(orderBy) > 0 {
		terms := make([]string, len(orderBy))
		for i, name := range orderBy {
			col, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: column %q not found in %s", errs.ErrSchema, name, table)
			}
			terms[i] = orderTermPg(col)
		}
		query += " ORDER BY " + strings.Join(terms, ", ")
	}

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr(err, "query %s", table)
	}

	descs := rows.FieldDescriptions()
	ordered := make([]Column, len(descs))
	for i, d := range descs {
		ordered[i] = byName[d.Name]
		ordered[i].Name = d.Name
	}
	return &pgCursor{rows: rows, cols: ordered}, nil
}

// orderTermPg sorts text by bytes and NULLs first so the engine order agrees with Compare.
func orderTermPg(col Column) string {
	q := quoteIdentPg(col.Name)
	if isText(col.Type) || col.Type == "USER-DEFINED" {
		return q + `::text COLLATE "C" NULLS FIRST`
	}
	return q + " NULLS FIRST"
}

func (a *postgresAdapter) Close() error {
	a.pool.Close()
	return nil
}

type pgCursor struct {
	rows     pgx.Rows
	cols     []Column
	warnings int
}

func (c *pgCursor) Columns() []Column { return c.cols }

func (c *pgCursor) Warnings() int { return c.warnings }

func (c *pgCursor) Next(ctx context.Context) (Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr(err, "fetch row")
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return nil, wrapErr(err, "fetch row")
		}
		return nil, io.EOF
	}

	vals, err := c.rows.Values()
	if err != nil {
		return nil, wrapErr(err, "scan row")
	}

	row := make(Row, len(c.cols))
	for i, col := range c.cols {
		v, err := normalizePg(vals[i], col)
		if err != nil {
			c.warnings++
		}
		row[col.Name] = v
	}
	return row, nil
}

func (c *pgCursor) Close() error {
	c.rows.Close()
	return nil
}

// normalizePg handles pgx value types before falling back to Normalize.
func normalizePg(raw any, col Column) (Value, error) {
	n, ok := raw.(pgtype.Numeric)
	if !ok {
		return Normalize(raw, col)
	}
	if !n.Valid {
		return Null(), nil
	}
	if n.Exp == 0 && n.Int != nil && n.Int.IsInt64() && !n.NaN {
		return Int(n.Int.Int64()), nil
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return coerce(raw, col)
	}
	return Float(f.Float64), nil
}

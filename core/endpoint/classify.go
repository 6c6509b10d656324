package endpoint

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tablediff/core/errs"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// MySQL server errors that indicate a missing table or column.
var mysqlSchemaErrors = map[uint16]bool{
	1051: true, // ER_BAD_TABLE_ERROR
	1054: true, // ER_BAD_FIELD_ERROR
	1146: true, // ER_NO_SUCH_TABLE
}

// wrapErr attaches the endpoint error kind to a driver error.
func wrapErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)

	switch {
	case errors.Is(err, errs.ErrConnection), errors.Is(err, errs.ErrSchema),
		errors.Is(err, errs.ErrResourceLimit), errors.Is(err, errs.ErrCancelled):
		return fmt.Errorf("%s: %w", msg, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %v", errs.ErrTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s", errs.ErrCancelled, msg)
	case isSchemaErr(err):
		return fmt.Errorf("%w: %s: %v", errs.ErrSchema, msg, err)
	default:
		return fmt.Errorf("%w: %s: %v", errs.ErrConnection, msg, err)
	}
}

func isSchemaErr(err error) bool {
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlSchemaErrors[myErr.Number]
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// undefined_table, undefined_column, invalid_schema_name
		return pgErr.Code == "42P01" || pgErr.Code == "42703" || pgErr.Code == "3F000"
	}

	// mattn/go-sqlite3 reports these as plain messages.
	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "no such column")
}

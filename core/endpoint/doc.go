// Package endpoint exposes relational tables from different database engines behind
// a single adapter contract.
//
// An Adapter is opened per comparison run from a Connection snapshot and offers two
// operations: Describe, which reports the columns, primary keys and row count of a
// table, and OpenCursor, which returns a forward-only iterator over the rows of a
// table ordered by a list of columns.
//
// # Normalized values
//
// Every engine value is converted into a Value (null, boolean, number, string, byte
// sequence or date/time). The kinds share one total order
//
//	null < boolean < number < string < bytes < datetime
//
// which Compare uses to order composite keys, and Equal implements the type-aware
// equality used for field comparison (integers equal floats of the same quantity,
// date/times compare at the coarser of the two precisions).
//
// Raw values that cannot be normalized are kept as their string rendering and marked
// Coerced. The cursor counts them in Warnings; they never abort a run.
//
// # Ordering
//
// Cursors are ordered by the requested columns using one of three strategies,
// selected by Options.SortMode:
//
//   - server: the engine sorts with a byte-order collation on text columns; the
//     cursor verifies the order while streaming and fails with
//     errs.ErrResourceLimit if the engine order disagrees with Compare.
//   - memory: the table is materialized and sorted in process, up to
//     Options.MaterializeLimit rows.
//   - auto: memory when the described row count fits the limit, server otherwise.
//
// # Engines
//
// sqlite, mysql and mariadb are served through GORM (core/database); postgres uses a
// pgx connection pool. NewMock builds an in-memory adapter for tests.
//
// # Usage
//
//	a, err := endpoint.Open(ctx, conn.Snapshot(), endpoint.Options{SortMode: endpoint.SortAuto})
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	cur, err := a.OpenCursor(ctx, "customers", []string{"id"})
package endpoint

package endpoint

import (
	"context"
	"fmt"

	"tablediff/core/errs"
)

// Open connects to the endpoint described by conn. The returned adapter orders
// cursors according to opts.SortMode.
func Open(ctx context.Context, conn Connection, opts Options) (Adapter, error) {
	opts = opts.withDefaults()
	if err := conn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrConnection, err)
	}

	var (
		base Adapter
		err  error
	)
	switch conn.Engine {
	case EngineSQLite, EngineMySQL, EngineMariaDB:
		base, err = openSQL(conn, opts)
	case EnginePostgres:
		base, err = openPostgres(ctx, conn, opts)
	}
	if err != nil {
		return nil, err
	}
	return Wrap(base, opts), nil
}

// Wrap applies the sort mode of opts to an adapter.
func Wrap(a Adapter, opts Options) Adapter {
	return &sortingAdapter{Adapter: a, opts: opts.withDefaults()}
}

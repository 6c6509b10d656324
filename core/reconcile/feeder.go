package reconcile

import (
	"context"
	"io"

	"tablediff/core/endpoint"
)

// item is one message from a feeder: the cursor columns, a row, or the error that
// ended the stream. The columns are always sent first.
type item struct {
	columns []endpoint.Column
	row     endpoint.Row
	err     error
}

// feeder streams one side into a bounded queue.
type feeder struct {
	stream Stream
	out    chan item

	// warnings is written before out is closed.
	warnings int
}

func newFeeder(s Stream, size int) *feeder {
	return &feeder{stream: s, out: make(chan item, size)}
}

// run opens the cursor and forwards rows until the cursor is exhausted, fails, or ctx
// ends. Errors travel through the queue so the merge sees them in stream order.
func (f *feeder) run(ctx context.Context) error {
	defer close(f.out)

	cur, err := f.stream.Adapter.OpenCursor(ctx, f.stream.Table, f.stream.Keys)
	if err != nil {
		f.send(ctx, item{err: err})
		return nil
	}
	defer cur.Close()

	if !f.send(ctx, item{columns: cur.Columns()}) {
		return nil
	}

	for {
		row, err := cur.Next(ctx)
		if err == io.EOF {
			f.warnings = cur.Warnings()
			return nil
		}
		if err != nil {
			f.send(ctx, item{err: err})
			return nil
		}
		if !f.send(ctx, item{row: row}) {
			return nil
		}
	}
}

func (f *feeder) send(ctx context.Context, it item) bool {
	select {
	case f.out <- it:
		return true
	case <-ctx.Done():
		return false
	}
}

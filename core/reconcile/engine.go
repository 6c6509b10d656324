package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tablediff/core/endpoint"
	"tablediff/core/errs"

	"golang.org/x/sync/errgroup"
)

const defaultQueueSize = 4

// Reconcile merge-joins the source and target streams on their key columns and calls
// emit once per key, in key order.
//
// Each side is read by its own feeder goroutine into a bounded queue; the merge itself
// runs on the calling goroutine and is deterministic regardless of feeder speed. The
// first error from a cursor, from emit, or from ctx aborts the merge and is returned.
func Reconcile(ctx context.Context, spec Spec, emit func(Result) error) (Stats, error) {
	var stats Stats

	if len(spec.Source.Keys) == 0 || len(spec.Source.Keys) != len(spec.Target.Keys) {
		return stats, fmt.Errorf("%w: source keys %v and target keys %v", errs.ErrEmptyMapping, spec.Source.Keys, spec.Target.Keys)
	}

	size := spec.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	src := newFeeder(spec.Source, size)
	tgt := newFeeder(spec.Target, size)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return src.run(gctx) })
	g.Go(func() error { return tgt.run(gctx) })

	m := &merger{
		source:    &side{name: "source", feed: src.out, keys: spec.Source.Keys},
		target:    &side{name: "target", feed: tgt.out, keys: spec.Target.Keys},
		opTimeout: spec.OpTimeout,
		columns:   spec.Columns,
		stats:     &stats,
	}
	err := m.run(gctx, emit)

	cancel()
	if waitErr := g.Wait(); err == nil {
		err = waitErr
	}
	if err != nil {
		return stats, err
	}

	stats.Warnings = src.warnings + tgt.warnings
	return stats, nil
}

// side holds the lookahead row of one stream.
type side struct {
	name string
	feed <-chan item
	keys []string

	columns []endpoint.Column
	head    endpoint.Row
	prev    endpoint.Row
	done    bool
	rows    int64
}

type merger struct {
	source    *side
	target    *side
	opTimeout time.Duration
	columns   func(source, target []endpoint.Column) error
	stats     *Stats
}

func (m *merger) run(ctx context.Context, emit func(Result) error) error {
	if err := m.header(ctx, m.source); err != nil {
		return err
	}
	if err := m.header(ctx, m.target); err != nil {
		return err
	}
	if m.columns != nil {
		if err := m.columns(m.source.columns, m.target.columns); err != nil {
			return err
		}
	}

	if err := m.pull(ctx, m.source); err != nil {
		return err
	}
	if err := m.pull(ctx, m.target); err != nil {
		return err
	}

	for !m.source.done || !m.target.done {
		if err := ctx.Err(); err != nil {
			return ctxErr(ctx)
		}

		var res Result
		switch {
		case m.target.done:
			res = Result{Outcome: SourceOnly, Source: m.source.head}
		case m.source.done:
			res = Result{Outcome: TargetOnly, Target: m.target.head}
		default:
			switch c := m.compare(); {
			case c == 0:
				res = Result{Outcome: Matched, Source: m.source.head, Target: m.target.head}
			case c < 0:
				res = Result{Outcome: SourceOnly, Source: m.source.head}
			default:
				res = Result{Outcome: TargetOnly, Target: m.target.head}
			}
		}

		if err := emit(res); err != nil {
			return err
		}

		switch res.Outcome {
		case Matched:
			m.stats.Matched++
			if err := m.pull(ctx, m.source); err != nil {
				return err
			}
			if err := m.pull(ctx, m.target); err != nil {
				return err
			}
		case SourceOnly:
			m.stats.SourceOnly++
			if err := m.pull(ctx, m.source); err != nil {
				return err
			}
		case TargetOnly:
			m.stats.TargetOnly++
			if err := m.pull(ctx, m.target); err != nil {
				return err
			}
		}
	}

	m.stats.SourceRows = m.source.rows
	m.stats.TargetRows = m.target.rows
	return nil
}

// compare orders the source head against the target head by their key columns.
func (m *merger) compare() int {
	for i, sk := range m.source.keys {
		if c := endpoint.Compare(m.source.head[sk], m.target.head[m.target.keys[i]]); c != 0 {
			return c
		}
	}
	return 0
}

// receive waits at most opTimeout for the next item of s. ok is false once the feed
// is exhausted.
func (m *merger) receive(ctx context.Context, s *side) (it item, ok bool, err error) {
	var timeout <-chan time.Time
	if m.opTimeout > 0 {
		t := time.NewTimer(m.opTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case it, ok = <-s.feed:
		if !ok {
			if ctx.Err() != nil {
				return item{}, false, ctxErr(ctx)
			}
			return item{}, false, nil
		}
		if it.err != nil {
			return item{}, false, fmt.Errorf("%s: %w", s.name, it.err)
		}
		return it, true, nil
	case <-ctx.Done():
		return item{}, false, ctxErr(ctx)
	case <-timeout:
		return item{}, false, fmt.Errorf("%w: %s endpoint produced no row within %s", errs.ErrTimeout, s.name, m.opTimeout)
	}
}

// header reads the cursor columns a feeder sends before its rows.
func (m *merger) header(ctx context.Context, s *side) error {
	it, ok, err := m.receive(ctx, s)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: stream ended before its cursor opened", s.name)
	}
	s.columns = it.columns
	return nil
}

// pull advances s to its next row, waiting at most opTimeout.
func (m *merger) pull(ctx context.Context, s *side) error {
	if s.done {
		return nil
	}
	s.prev = s.head

	it, ok, err := m.receive(ctx, s)
	if err != nil {
		return err
	}
	if !ok {
		s.done = true
		s.head = nil
		return nil
	}
	s.head = it.row

	s.rows++
	if s.prev != nil {
		switch c := endpoint.CompareKeys(s.prev, s.head, s.keys); {
		case c > 0:
			return fmt.Errorf("%w: %s rows are out of key order", errs.ErrResourceLimit, s.name)
		case c == 0:
			m.stats.DuplicateKeys++
		}
	}
	return nil
}

func ctxErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", errs.ErrTimeout, ctx.Err())
	}
	return fmt.Errorf("%w: %v", errs.ErrCancelled, context.Cause(ctx))
}

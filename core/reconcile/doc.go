// Package reconcile merge-joins two key-ordered row streams.
//
// Reconcile pairs rows from a source and a target endpoint by their mapped key
// columns and reports every key exactly once as Matched, SourceOnly or TargetOnly.
//
// # Architecture
//
// 1. Feeders: one goroutine per side opens the cursor and pushes rows into a bounded
//    queue (Spec.QueueSize). A fast side blocks on its queue instead of running ahead.
//
// 2. Merge: the calling goroutine keeps one lookahead row per side and compares the
//    composite keys with endpoint.Compare. Equal keys are matched and both sides
//    advance; otherwise the smaller side is reported alone and advances. When one
//    side is exhausted the other is drained.
//
// 3. Schema cache: SchemaCache keeps table descriptions per connection and table
//    with a TTL and collapses concurrent misses with singleflight.
//
// # Failure semantics
//
// The first cursor error, emit error, timeout or cancellation stops both feeders and
// is returned. Waiting longer than Spec.OpTimeout for a side's next row fails with
// errs.ErrTimeout. Rows arriving out of key order fail with errs.ErrResourceLimit.
//
// # Usage Example
//
//	stats, err := reconcile.Reconcile(ctx, reconcile.Spec{
//	    Source:    reconcile.Stream{Adapter: src, Table: "customers", Keys: []string{"id"}},
//	    Target:    reconcile.Stream{Adapter: tgt, Table: "clients", Keys: []string{"ID"}},
//	    QueueSize: 8,
//	    OpTimeout: 30 * time.Second,
//	}, func(r reconcile.Result) error {
//	    return classifier.Classify(r, sink)
//	})
package reconcile

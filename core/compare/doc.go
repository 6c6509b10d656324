// Package compare executes comparison runs end to end.
//
// A Runner takes a Request naming a source and a target table on registered
// connections, plus optional key column selections, and drives one results.Run from
// pending to a terminal state:
//
//  1. The two connections are resolved and snapshotted, so later edits do not affect
//     the run. Explicit key selections are paired by keymap.Resolve; a selection that
//     pairs nothing is rejected before any run is recorded.
//  2. Both endpoints are opened and described through a shared reconcile.SchemaCache.
//     With no key selection the primary keys of both tables are paired instead.
//  3. reconcile.Reconcile merge-joins the two key-ordered streams, diff.Classifier turns
//     each outcome into records, and a results.RecordWriter stages them.
//  4. The run is completed with its counters, or failed with the error kind from
//     errs.KindOf, in which case its staged records are discarded.
//
// Every endpoint operation is bounded by Config.OpTimeoutSeconds. Runs beyond
// Config.MaxConcurrentRuns stay pending until a slot frees up. Cancel stops an
// executing run cooperatively; the run ends failed with kind "cancelled".
//
// # Usage
//
//	runner := compare.NewRunner(store, connections, cfg.Compare, logger)
//	run, err := runner.Start(ctx, compare.Request{
//	    Source: compare.TableRef{ConnectionID: "crm", Table: "customers"},
//	    Target: compare.TableRef{ConnectionID: "dwh", Table: "dim_customer"},
//	})
package compare

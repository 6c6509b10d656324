// Package results persists comparison runs and their difference records, and computes
// aggregate views over them.
//
// # Storage
//
// Runs and records live in two GORM models, Run (comparison_runs) and DiffRecord
// (diff_records). Records are appended in batches by a RecordWriter while the run is
// executing and carry a per-run sequence number that preserves emission order. They
// only become visible once the run is completed; failing a run deletes whatever was
// written for it.
//
// A run moves pending → running → completed | failed, and each transition is a
// conditional update so a terminal state is reached exactly once.
//
// # Aggregation
//
//   - ChangesOverTime buckets change counts by the UTC calendar date of each run's
//     completion time, omitting zero counts.
//   - FieldFrequency counts records per field name, most frequent first.
//   - Summary reports run and difference totals.
//
// All three accept a Selector restricting the runs by project or id.
package results

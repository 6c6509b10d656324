// Package diff turns reconciliation outcomes into field-level difference records.
//
// A Classifier is built once per run from the source and target column lists and
// the resolved key mapping. For each outcome it emits:
//
//   - matched: one Modified record per common non-key column whose values differ
//     under endpoint.Equal, in source column order;
//   - source only: one Deleted record per source column, target value nil;
//   - target only: one Added record per target column, source value nil.
//
// Common columns are paired by exact name first and case-insensitively second.
// Record ids are the rendered key values joined with RecordIDSeparator.
package diff

// Package dashboard serves aggregate reports over comparison results.
//
// Only completed runs contribute. Every endpoint accepts project_id and a comma
// separated run_ids list to narrow the runs considered.
//
//   - GET /dashboard/changes-over-time : {"YYYY-MM-DD": {"modified": n, ...}} keyed by
//     completion date. start and end accept RFC3339 or YYYY-MM-DD.
//   - GET /dashboard/field-frequency : [{"field", "count"}] by count descending.
//   - GET /dashboard/summary : run and difference totals.
package dashboard

// Package comparison exposes comparison runs over HTTP.
//
// It starts runs through compare.Runner and serves their state and records from
// results.Store. Completed runs can be exported as CSV, JSON or a text report,
// published to object storage, and dispatched record by record to the configured
// sink. Failed runs keep their failure kind and reason but expose no records.
//
// # HTTP Endpoints
//
//   - POST /comparisons : start a run (202), or run it to completion with ?wait=true.
//   - GET /comparisons : list runs, newest first (?project_id= filters).
//   - GET /comparisons/:id : run metadata.
//   - DELETE /comparisons/:id : cancel an executing run.
//   - GET /comparisons/:id/results : run metadata and ordered records.
//   - GET /comparisons/:id/export?format=csv|json|txt : download an export.
//   - POST /comparisons/:id/export/publish : upload an export to object storage.
//   - GET /comparisons/:id/export/published : list uploaded exports.
//   - POST /comparisons/:id/dispatch : forward records, returns {success, failed}.
//
// Errors are returned as {"error": message, "kind": kind} where kind is one of the
// errs.Kind* strings.
package comparison

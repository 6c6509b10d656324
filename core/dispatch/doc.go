// Package dispatch forwards the differences of a completed comparison run to an
// external system, one record at a time.
//
// A Dispatcher walks the records in emission order and hands each to a Sink. A sink
// error marks that record as failed and the walk continues; the caller receives the
// accepted record ids and the failures, and decides whether to dispatch again. Nothing
// is retried automatically.
//
// Two sinks are provided:
//
//   - WebhookSink sends one HTTP request per record, with optional bearer, basic or
//     API-key authentication and a JSON payload template using {{run.*}} and
//     {{difference.*}} placeholders.
//   - MongoSink inserts one document per record into a collection.
package dispatch

// Package export renders the difference records of a comparison run as CSV, JSON or a
// plain-text report, and publishes the rendered artifacts to object storage.
//
// Every Formatter is a pure function of the run metadata and its ordered records:
// exporting the same run twice yields byte-identical output.
//
//   - csv: UTF-8 byte-order mark, header row, every value double-quoted with inner
//     quotes doubled, rows in emission order.
//   - json: the run metadata and its records, indented, with fixed key order.
//   - txt: a banner, run metadata, then one block per record separated by rules.
//
// Publisher uploads an Artifact under exports/<run-id>/<filename>, optionally
// compressed with gzip or zstd.
package export

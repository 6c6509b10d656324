// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber application itself; this package only defines the
// listen port, the API key protecting every route, and the shutdown budget given to
// in-flight comparison runs.
package server

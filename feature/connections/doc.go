// Package connections is the registry of database endpoints comparisons run against.
//
// Connections are stored in the application database through GORM. GetConnection
// returns a deep copy, so a comparison run is unaffected by edits made while it
// executes. Updating or deleting a connection drops its cached table descriptions.
//
// # HTTP Endpoints
//
//   - POST /connections : register a connection.
//   - GET /connections : list connections. Passwords are never returned.
//   - GET /connections/:id : one connection.
//   - PUT /connections/:id : replace a connection's parameters.
//   - DELETE /connections/:id : remove a connection.
package connections

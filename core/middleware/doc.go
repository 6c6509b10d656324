// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: validates the X-API-Key header (or api_key query parameter) against the
//     configured key. An empty key disables the check.
//   - rayid: assigns every request a ray id, stored in the Fiber locals under "ray_id"
//     and echoed in the X-Ray-ID response header, so logger.WithRayID can tag every log
//     line of a request.
//
// Register rayid first so authentication failures are traced too.
package middleware

// Package server exposes a read-only HTTP view of a planned dataset.
//
// The server is a Gin engine behind an h2c handler. Routes:
//
//   - GET /health: component health
//   - GET /recordings, GET /recordings/:id: corpus index contents
//   - GET /chunks?offset=&limit=: planned chunk descriptors
//   - GET /chunks/:index: decode and label one chunk, reporting its shape
//     and per-speaker activity
//
// Errors are rendered from *errors.AppError with its HTTP status.
package server

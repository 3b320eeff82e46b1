// Package server provides the HTTP front of the session service: a Gin engine
// on an h2c-capable ServeMux, wrapped by a single middleware chain.
//
// # Middleware
//
// server/middleware applies to every route, including WebSocket upgrades and
// SSE streams:
//
//   - Recovery: panics become 500 INTERNAL_ERROR bodies
//   - RequestID: X-Request-Id generation and propagation
//   - CORS: allow-listed origins and preflight handling
//   - BodySizeLimit: request body cap
//   - RequestLogger: status-levelled request logging
//
// # Endpoints
//
// server/endpoint provides /health (component health aggregation) and /info
// (build information).
package server

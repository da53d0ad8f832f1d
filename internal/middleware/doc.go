// Package middleware provides the HTTP middleware chain: request IDs,
// structured request logs, panic recovery, rate limiting, timeouts, CORS,
// security headers, OpenTelemetry instrumentation and query validation.
//
// Middleware that rejects a request answers with RFC 7807 problem details,
// the same shape the error handler produces.
package middleware

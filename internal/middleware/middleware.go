// Package middleware holds the Echo middleware of the admin API: request
// ids, request-scoped logging, Clerk authentication, New Relic tracing,
// Prometheus metrics, rate limiting and the global error handler.
package middleware

// Package errs defines the error shapes the admin API returns.
//
// Every failure that reaches a client is an *HTTPError: a stable machine
// code, a message, the HTTP status and, for validation failures, the list of
// offending fields.
package errs

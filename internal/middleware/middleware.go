// Package middleware holds the global echo middleware of the contacts API.
//
// It covers rate limiting, CORS, secure headers, request ids, New Relic
// tracing, request-scoped logging, panic recovery and the error handler
// that turns every error into an errs.HTTPError body.
package middleware

// Package errs defines the error types returned to API clients.
//
// Every handled failure is converted into an HTTPError so clients always
// receive the same JSON shape: a machine-friendly code, a human message,
// the HTTP status and optional field-level details.
package errs

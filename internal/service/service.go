// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated data from the handler, applies the contact rules and calls
// the repository. Errors meant for clients are returned as *errs.HTTPError;
// anything else is wrapped and left to the global error handler.
package service

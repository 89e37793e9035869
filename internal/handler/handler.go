// Package handler is the HTTP layer of the contacts API.
//
// Handlers bind and validate requests through the validation package,
// call the service layer and write the response. Every error is left to
// the global error handler.
package handler

// Package lib groups modules that do not fit strictly into other layers:
// the Redis contact cache, background job processing (asynq) and the
// email client (Resend).
package lib

// Package errs defines the error types returned to API clients.
//
// It provides HTTPError (the JSON error envelope), field-level
// validation errors for forms, and constructors for the standard HTTP
// failure modes so clients receive consistent, actionable error shapes.
package errs

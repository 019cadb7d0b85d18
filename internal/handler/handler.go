// Package handler is the first entry point for business logic after the
// router.
//
// It parses requests, validates input via the validation package, and
// calls the appropriate service. It is the interface between the HTTP
// request and the core business logic.
package handler

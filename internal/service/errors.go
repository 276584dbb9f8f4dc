package service

import "errors"

// Workflow error tags. Handlers at the HTTP boundary map these to status
// codes; workflow internals only ever wrap them.
var (
	// ErrValidation marks client-caused input failures.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownToken marks a confirmation attempt with a token the store
	// does not know.
	ErrUnknownToken = errors.New("unknown confirmation token")
	// ErrUnauthorized marks a failed operator credential check.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStore marks persistence failures.
	ErrStore = errors.New("store failure")
	// ErrTransport marks mail delivery failures.
	ErrTransport = errors.New("delivery failure")
)

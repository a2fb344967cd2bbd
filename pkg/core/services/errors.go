package services

import "errors"

// Sentinel errors separating the client-visible failure classes: validation
// failures abort before any store call, forbidden failures are authorization
// rejections surfaced verbatim, not-found is rendered as an empty state by
// the caller. Anything else is a backend failure.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)

package services

import "errors"

// Sentinel errors handlers translate to HTTP status codes. Services
// wrap them with context via fmt.Errorf("...: %w", Err...).
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
	// ErrConflict covers state-guard rejections: double release, double
	// review, funding an already-held escrow.
	ErrConflict = errors.New("conflict")
)

package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrFetchFailed     = errors.New("fetch failed")
	ErrBadStatus       = errors.New("unexpected http status")
	ErrDecode          = errors.New("malformed response body")
	ErrEmptyIngredient = errors.New("empty ingredient")
	ErrAlreadyRunning  = errors.New("already running")
)

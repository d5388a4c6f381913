package domain

import "errors"

// Sentinel errors shared by all repositories. Handlers map ErrNotFound to
// 404 and ErrConflict to 409.
var (
	ErrNotFound = errors.New("domain: not found")
	ErrConflict = errors.New("domain: conflict")
)

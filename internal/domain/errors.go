package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict indicates a concurrent modification was detected.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized indicates the caller holds no valid session.
	ErrUnauthorized = errors.New("unauthorized")
)

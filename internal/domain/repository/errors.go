package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a uniqueness constraint rejects a write.
	ErrDuplicate = errors.New("duplicate")
	// ErrStateConflict is returned when a conditional update matched no row
	// because the stored state moved on (verified account, consumed OTP).
	ErrStateConflict = errors.New("state conflict")
)

package chat

import "errors"

var (
	// ErrNotFound is returned when exactly one row was expected and none matched.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness constraint rejected a row.
	ErrDuplicate = errors.New("duplicate")

	ErrInvalidTarget = errors.New("invalid target user")
)

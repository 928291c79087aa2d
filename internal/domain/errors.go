package domain

import "errors"

var (
	// ErrValidation marks user input that was rejected without any state change.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference to a shortcut index or engine key that does not exist.
	ErrNotFound = errors.New("not found")
)

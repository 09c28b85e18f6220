package services

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the given identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrConflict is returned when a username or email is already taken.
	ErrConflict = errors.New("user already exists")
	// ErrInvalidCredentials is returned when an email/password pair does not match a user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation wraps client input that failed shape checks.
	ErrValidation = errors.New("validation failed")
)

package services

import "errors"

var (
	// ErrValidation marks a request rejected before reaching storage.
	ErrValidation = errors.New("validation failed")
	// ErrEmailTaken is returned by Signup when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned for a missing or unknown token.
	ErrUnauthenticated = errors.New("invalid token")
	// ErrForbidden is returned when the screenshot belongs to another user.
	ErrForbidden = errors.New("access denied")
	// ErrNotFound is returned when no screenshot has the requested id.
	ErrNotFound = errors.New("screenshot not found")
)

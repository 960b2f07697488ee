package session

import "errors"

// Session errors.
var (
	// ErrNotFound is returned when the request carries no session.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a verified payload is past its expiry.
	ErrExpired = errors.New("session: expired")

	// ErrInvalidToken is returned when a session token fails verification.
	// It covers malformed tokens, bad signatures and expired tokens alike.
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrSigningFailed is returned when a rotated token cannot be signed.
	ErrSigningFailed = errors.New("session: signing failed")
)

package token

import "errors"

var (
	// ErrSecretTooShort is returned when the HMAC secret is under MinSecretLength bytes.
	ErrSecretTooShort = errors.New("token: secret too short")

	// ErrMissingExpiry is returned when signing a payload without an expiry.
	ErrMissingExpiry = errors.New("token: missing expiry")

	// ErrInvalid is returned for malformed tokens and bad signatures.
	ErrInvalid = errors.New("token: invalid")

	// ErrExpired is returned for well-signed tokens past their expiry.
	ErrExpired = errors.New("token: expired")
)

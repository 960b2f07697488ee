package session

import (
	"context"
	"maps"
	"time"
)

// Payload is the data serialized into a session token.
type Payload struct {
	ExpiresAt time.Time      // Absolute expiry; tokens past it are invalid
	Claims    map[string]any // Arbitrary application claims
	Subject   string         // User identifier
}

// NewPayload creates a payload for subject expiring at expiresAt.
func NewPayload(subject string, expiresAt time.Time) Payload {
	return Payload{
		Subject:   subject,
		ExpiresAt: expiresAt,
	}
}

// Expired reports whether the payload is no longer valid at now.
// A zero expiry is always expired.
func (p Payload) Expired(now time.Time) bool {
	return p.ExpiresAt.IsZero() || !now.Before(p.ExpiresAt)
}

// WithExpiry returns a copy of the payload with a new expiry.
// Claims are copied so the result can be modified independently.
func (p Payload) WithExpiry(expiresAt time.Time) Payload {
	out := p
	out.ExpiresAt = expiresAt
	if p.Claims != nil {
		out.Claims = maps.Clone(p.Claims)
	}
	return out
}

// Claim returns a claim value by key.
func (p Payload) Claim(key string) (any, bool) {
	if p.Claims == nil {
		return nil, false
	}
	v, ok := p.Claims[key]
	return v, ok
}

// Signer turns payloads into opaque tokens and back.
// Implementations must be safe for concurrent use.
type Signer interface {
	// Sign serializes and signs the payload.
	Sign(ctx context.Context, p Payload) (string, error)

	// Verify checks the token signature and expiry and returns its payload.
	// Any failure, including expiry, is reported as an error.
	Verify(ctx context.Context, token string) (Payload, error)
}

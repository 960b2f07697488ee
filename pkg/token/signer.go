package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/saasgate/pkg/session"
)

// MinSecretLength is the minimum HMAC-SHA256 key size in bytes.
const MinSecretLength = 32

// Claims is the JWT body of a session token.
type Claims struct {
	Data map[string]any `json:"data,omitempty"`
	jwt.RegisteredClaims
}

// Signer signs session payloads as HS256 JWTs.
// It implements session.Signer and is safe for concurrent use.
type Signer struct {
	now    func() time.Time
	issuer string
	secret []byte
	leeway time.Duration
}

// Option configures a Signer.
type Option func(*Signer)

// WithIssuer sets the "iss" claim. Verification then requires a matching issuer.
func WithIssuer(issuer string) Option {
	return func(s *Signer) {
		s.issuer = issuer
	}
}

// WithClock overrides the time source used for "iat" and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLeeway allows a small clock skew when checking expiry.
func WithLeeway(d time.Duration) Option {
	return func(s *Signer) {
		if d >= 0 {
			s.leeway = d
		}
	}
}

// NewSigner creates a Signer with the given secret.
func NewSigner(secret []byte, opts ...Option) (*Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrSecretTooShort, len(secret), MinSecretLength)
	}

	s := &Signer{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign encodes p as a signed JWT.
func (s *Signer) Sign(_ context.Context, p session.Payload) (string, error) {
	if p.ExpiresAt.IsZero() {
		return "", ErrMissingExpiry
	}

	claims := Claims{
		Data: p.Claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(p.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify parses a JWT, checks its signature, algorithm and expiry, and
// returns the embedded payload.
func (s *Signer) Verify(_ context.Context, raw string) (session.Payload, error) {
	if raw == "" {
		return session.Payload{}, ErrInvalid
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}
	if s.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(s.leeway))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return session.Payload{}, errors.Join(ErrExpired, err)
		}
		return session.Payload{}, errors.Join(ErrInvalid, err)
	}

	return session.Payload{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
		Claims:    claims.Data,
	}, nil
}

var _ session.Signer = (*Signer)(nil)

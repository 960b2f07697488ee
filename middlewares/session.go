package middlewares

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/saasgate/internal"
	"github.com/dmitrymomot/saasgate/pkg/logger"
	"github.com/dmitrymomot/saasgate/pkg/session"
)

// SessionConfig configures the RequireSession middleware.
type SessionConfig struct {
	Now          func() time.Time
	Extractor    internal.Extractor
	extractorSet bool
}

// SessionOption configures SessionConfig.
type SessionOption func(*SessionConfig)

// WithSessionExtractor sets a custom token extractor chain.
func WithSessionExtractor(ext internal.Extractor) SessionOption {
	return func(cfg *SessionConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// WithSessionClock overrides the time source used for the expiry check.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(cfg *SessionConfig) {
		if now != nil {
			cfg.Now = now
		}
	}
}

// RequireSession returns middleware that rejects requests without a valid
// session token with 401. It guards routes Gate does not cover, such as the
// JSON API, and accepts the token from the session cookie or a Bearer header.
//
// The verified payload is stored in the context and read with GetSession.
func RequireSession(signer session.Signer, opts ...SessionOption) internal.Middleware {
	if signer == nil {
		panic("middlewares: session signer is not provided")
	}

	cfg := &SessionConfig{Now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(
			internal.FromCookie(DefaultSessionCookie),
			internal.FromBearerToken(),
		)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			token, ok := cfg.Extractor.Extract(c)
			if !ok || token == "" {
				return internal.ErrUnauthorized("unauthorized", internal.WithError(session.ErrNotFound))
			}

			payload, err := signer.Verify(c.Context(), token)
			if err != nil {
				c.LogDebug("session token rejected", "error", err)
				return internal.ErrUnauthorized("unauthorized", internal.WithError(err))
			}
			if payload.Expired(cfg.Now()) {
				return internal.ErrUnauthorized("unauthorized", internal.WithError(session.ErrExpired))
			}
			if payload.Subject == "" {
				return internal.ErrUnauthorized("unauthorized", internal.WithError(session.ErrInvalidToken))
			}

			c.Set(sessionKey{}, &payload)

			return next(c)
		}
	}
}

// SessionExtractor returns a logger.ContextExtractor that adds "user_id" to
// records logged for authenticated requests.
func SessionExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if p, ok := ctx.Value(sessionKey{}).(*session.Payload); ok && p.Subject != "" {
			return slog.String("user_id", p.Subject), true
		}
		return slog.Attr{}, false
	}
}

package session

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"
)

// DefaultExtension is how far a rotated token's expiry is pushed out.
const DefaultExtension = 24 * time.Hour

// Decision is the terminal state of a guard evaluation.
type Decision int

const (
	// PassThrough lets the request continue.
	PassThrough Decision = iota
	// RedirectToSignIn sends the client to the sign-in page.
	RedirectToSignIn
)

func (d Decision) String() string {
	switch d {
	case PassThrough:
		return "pass_through"
	case RedirectToSignIn:
		return "redirect_to_sign_in"
	default:
		return "unknown"
	}
}

// CookieOp is the session cookie mutation attached to a decision.
type CookieOp int

const (
	// CookieKeep leaves the session cookie untouched.
	CookieKeep CookieOp = iota
	// CookieRotate replaces the session cookie with Action.Token.
	CookieRotate
	// CookieDelete expires the session cookie.
	CookieDelete
)

func (op CookieOp) String() string {
	switch op {
	case CookieKeep:
		return "keep"
	case CookieRotate:
		return "rotate"
	case CookieDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Action is the outcome of Guard.Evaluate.
type Action struct {
	ExpiresAt time.Time // Expiry of the rotated token
	Err       error     // Swallowed failure, for logging only
	Payload   *Payload  // Verified payload; nil when not authenticated by this evaluation
	Token     string    // Rotated token, set only with CookieRotate
	Decision  Decision
	Cookie    CookieOp
}

// Authenticated reports whether the evaluation verified a session.
func (a Action) Authenticated() bool {
	return a.Payload != nil
}

// Guard decides, per request, whether a session is valid, whether it must be
// rotated and whether the client must sign in.
// It holds no mutable state and is safe for concurrent use.
type Guard struct {
	signer      Signer
	now         func() time.Time
	safeMethods []string
	extension   time.Duration
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithExtension sets the lifetime given to rotated tokens.
// Non-positive values are ignored.
func WithExtension(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.extension = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) GuardOption {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

// WithSafeMethods sets the HTTP methods on which tokens are verified and
// rotated. Defaults to GET and HEAD.
func WithSafeMethods(methods ...string) GuardOption {
	return func(g *Guard) {
		if len(methods) == 0 {
			return
		}
		g.safeMethods = make([]string, 0, len(methods))
		for _, m := range methods {
			g.safeMethods = append(g.safeMethods, strings.ToUpper(m))
		}
	}
}

// NewGuard creates a guard that verifies and re-signs tokens with signer.
func NewGuard(signer Signer, opts ...GuardOption) *Guard {
	if signer == nil {
		panic("session: signer is not provided")
	}

	g := &Guard{
		signer:      signer,
		now:         time.Now,
		extension:   DefaultExtension,
		safeMethods: []string{http.MethodGet, http.MethodHead},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate runs the session state machine for one request.
//
//   - No cookie: redirect when protected, otherwise pass through.
//   - Mutating method with a cookie: pass through, nothing verified or changed.
//   - Safe method with a valid token: pass through and rotate the cookie
//     with a fresh expiry. Expiries have one-second granularity, and a
//     rotated expiry is always at least one second past the verified one.
//   - Safe method with an invalid token, or a rotation that cannot be
//     signed: delete the cookie and redirect when protected.
//
// Evaluate never returns an error; failures are reported in Action.Err. A
// missing cookie is not a failure and leaves Action.Err nil.
func (g *Guard) Evaluate(ctx context.Context, token string, present, protected bool, method string) Action {
	if !present {
		if protected {
			return Action{Decision: RedirectToSignIn}
		}
		return Action{Decision: PassThrough}
	}

	if !g.isSafe(method) {
		return Action{Decision: PassThrough}
	}

	payload, err := g.signer.Verify(ctx, token)
	if err != nil {
		return reject(protected, errors.Join(ErrInvalidToken, err))
	}

	now := g.now()
	if payload.Expired(now) {
		return reject(protected, errors.Join(ErrInvalidToken, ErrExpired))
	}

	expiresAt := now.Add(g.extension).Truncate(time.Second)
	if !expiresAt.After(payload.ExpiresAt) {
		expiresAt = payload.ExpiresAt.Truncate(time.Second).Add(time.Second)
	}
	rotated := payload.WithExpiry(expiresAt)
	signed, err := g.signer.Sign(ctx, rotated)
	if err != nil || signed == "" {
		return reject(protected, errors.Join(ErrSigningFailed, err))
	}

	return Action{
		Decision:  PassThrough,
		Cookie:    CookieRotate,
		Token:     signed,
		ExpiresAt: rotated.ExpiresAt,
		Payload:   &rotated,
	}
}

func (g *Guard) isSafe(method string) bool {
	return slices.Contains(g.safeMethods, strings.ToUpper(method))
}

func reject(protected bool, err error) Action {
	a := Action{Decision: PassThrough, Cookie: CookieDelete, Err: err}
	if protected {
		a.Decision = RedirectToSignIn
	}
	return a
}

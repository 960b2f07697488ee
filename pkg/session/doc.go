// Package session implements stateless, token-backed sessions.
//
// A session lives entirely in a signed token stored in a cookie; there is no
// server-side store. The token format is delegated to a [Signer], which the
// application injects (see package token for the HS256 JWT implementation).
//
// [Guard] evaluates a request's session and yields an [Action]: a terminal
// [Decision] plus the cookie mutation to apply to the response.
//
//	guard := session.NewGuard(signer, session.WithExtension(24*time.Hour))
//	action := guard.Evaluate(ctx, tokenValue, hasCookie, isProtected, r.Method)
//	switch action.Cookie {
//	case session.CookieRotate:
//	    // write action.Token, expiring at action.ExpiresAt
//	case session.CookieDelete:
//	    // expire the cookie
//	}
//	if action.Decision == session.RedirectToSignIn {
//	    // redirect
//	}
//
// Forged, malformed and expired tokens are indistinguishable to the caller:
// they all delete the cookie and count as unauthenticated. A failure to sign
// the rotated token is handled the same way so that a half-written cookie is
// never emitted.
package session

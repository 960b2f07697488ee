// Package cookie writes and reads HTTP cookies with a fixed attribute set.
//
// A Manager carries the attributes shared by a family of cookies: path,
// domain, Secure, HttpOnly and SameSite. Applications typically keep one
// manager per family, for example an HttpOnly manager for session tokens and
// a script-readable one for UI preferences:
//
//	sessions := cookie.New()
//	prefs := cookie.New(cookie.WithHTTPOnly(false))
//
//	sessions.SetUntil(w, "session", token, expiresAt)
//	prefs.Set(w, "NEXT_LOCALE", "es", 365*24*60*60)
//
// [Manager.SetUntil] sets an absolute Expires attribute, [Manager.Set] a
// relative Max-Age, and [Manager.Delete] expires the cookie immediately.
//
// # Configuration
//
//   - [WithDomain]: cookie domain
//   - [WithPath]: cookie path (default: "/")
//   - [WithSecure]: Secure flag (default: true; disable for plain-HTTP development)
//   - [WithHTTPOnly]: HttpOnly flag (default: true)
//   - [WithSameSite]: SameSite attribute (default: Lax)
package cookie

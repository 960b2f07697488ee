// Package middlewares provides the HTTP middleware of the saasgate server.
//
// # Gate
//
// Gate runs in front of every page request. It resolves the request locale
// (path prefix, NEXT_LOCALE cookie, Accept-Language, default), redirects to
// the canonical locale path when needed, strips the locale prefix before
// routing, and enforces the session policy of protected routes. Excluded
// prefixes such as /api and /static skip it entirely.
//
//	set := locale.MustNewSet("en", "es")
//	gate := middlewares.Gate(
//	    locale.NewResolver(set),
//	    route.NewClassifier(set),
//	    route.NewMatcher(route.DefaultExcluded...),
//	    session.NewGuard(signer),
//	    middlewares.WithGateObserver(m),
//	)
//
// Handlers read the outcome with GetLocale and GetSession.
//
// # RequireSession
//
// RequireSession protects routes the gate skips, answering 401 when the
// session cookie or Bearer token is missing or invalid.
//
//	r.Route("/api", func(r saasgate.Router) {
//	    r.Use(middlewares.RequireSession(signer))
//	    r.GET("/user", h.user)
//	})
//
// # I18n
//
// I18n binds a translator for the resolved locale so handlers can call
// c.T and c.Tn. It must run after Gate.
//
// # Request ID, Recover and Metrics
//
// RequestID tags requests with an upstream or generated UUID. Recover turns
// panics into a *PanicError for the error handler. Metrics records request
// count and latency by route pattern.
//
// # Recommended Order
//
//	saasgate.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Metrics(m),
//	    middlewares.Recover(),
//	    middlewares.Gate(resolver, classifier, matcher, guard),
//	    middlewares.I18n(catalog, middlewares.WithI18nDetector(resolver)),
//	)
package middlewares

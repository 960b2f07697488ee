// Package saasgate is the HTTP layer of a multi-tenant SaaS starter: localized
// routes, signed session cookies, team accounts and an activity log.
//
// The package is a thin facade over a chi router. Handlers declare routes,
// middleware wraps them, and the App runs the server with graceful shutdown.
//
// # Quick Start
//
//	app := saasgate.New(
//	    saasgate.WithLogger(log),
//	    saasgate.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Gate(resolver, classifier, matcher, guard),
//	        middlewares.I18n(catalog, middlewares.WithI18nDetector(resolver)),
//	    ),
//	    saasgate.WithHandlers(
//	        handlers.NewPages(set, store),
//	        handlers.NewAuth(store, signer, set),
//	    ),
//	)
//
//	if err := app.Run(":8080", saasgate.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement [Handler] to declare routes:
//
//	type Billing struct {
//	    store repository.Store
//	}
//
//	func (h *Billing) Routes(r saasgate.Router) {
//	    r.GET("/api/billing", h.show)
//	}
//
//	func (h *Billing) show(c saasgate.Context) error {
//	    return c.JSON(http.StatusOK, map[string]string{"plan": repository.DefaultPlan})
//	}
//
// Handlers return errors instead of writing them. An [HTTPError] keeps its
// status and message; anything else becomes a 500 and is logged.
//
// # Locales
//
// Gate runs before routing and removes the locale prefix, so handlers
// register "/pricing" once and serve both /pricing and /es/pricing.
// c.Locale, c.T and c.Tn reflect the resolved locale.
//
// # Shutdown
//
// Run stops on SIGINT or SIGTERM, drains the server and then runs shutdown
// hooks in registration order:
//
//	app.Run(addr,
//	    saasgate.StartupHook(runner.Start),
//	    saasgate.ShutdownHook(runner.Stop),
//	    saasgate.ShutdownHook(db.Shutdown(pool)),
//	)
package saasgate

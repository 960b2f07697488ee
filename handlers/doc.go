// Package handlers declares the routes of the saasgate server.
//
// Page routes are registered without a locale prefix; Gate strips the
// prefix before routing and enforces the session on /dashboard. The JSON
// API under /api is excluded from Gate, so Account protects itself with
// middlewares.RequireSession.
//
//	app := saasgate.New(
//	    saasgate.WithHandlers(
//	        handlers.NewPages(set, store),
//	        handlers.NewAccount(store, signer),
//	        handlers.NewAuth(store, signer, set, handlers.WithWelcomeEmail(runner)),
//	        handlers.NewLocale(set),
//	    ),
//	)
package handlers

import (
	"strconv"

	"github.com/dmitrymomot/saasgate"
	"github.com/dmitrymomot/saasgate/middlewares"
)

// userID returns the ID of the signed-in user.
func userID(c saasgate.Context) (int64, error) {
	p := middlewares.GetSession(c)
	if p == nil {
		return 0, saasgate.ErrUnauthorized("unauthorized")
	}
	id, err := strconv.ParseInt(p.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, saasgate.ErrUnauthorized("unauthorized", saasgate.WithError(err))
	}
	return id, nil
}

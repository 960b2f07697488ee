package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router is the interface handlers use to declare routes.
type Router interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)
	PUT(path string, h HandlerFunc, mw ...Middleware)
	DELETE(path string, h HandlerFunc, mw ...Middleware)

	// Group creates an inline group sharing middleware but no prefix.
	Group(fn func(r Router))
	// Route creates a group under a pattern prefix.
	Route(pattern string, fn func(r Router))
	Use(mw ...Middleware)
	Mount(pattern string, h http.Handler)
}

type routerAdapter struct {
	router chi.Router
	app    *App
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Get(path, r.wrap(h, mw...))
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Post(path, r.wrap(h, mw...))
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Put(path, r.wrap(h, mw...))
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Delete(path, r.wrap(h, mw...))
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.router.Use(r.app.adaptMiddleware(m))
	}
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

// wrap applies route middleware so that the first listed runs outermost.
func (r *routerAdapter) wrap(h HandlerFunc, mw ...Middleware) http.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return r.app.wrapHandler(h)
}

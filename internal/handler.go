package internal

// Handler declares routes on a router.
//
//	func (h *Account) Routes(r saasgate.Router) {
//		r.GET("/api/user", h.user)
//		r.GET("/api/team", h.team)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc handles a request. A returned error is passed to the app's
// ErrorHandler unless a response was already written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc. It may rewrite the request through
// Context.SetRequest, short-circuit with a response, or decorate next.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error

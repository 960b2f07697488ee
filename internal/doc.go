// Package internal holds the application core re-exported by the root
// saasgate package: the App, its chi-backed Router, the request Context and
// the server runtime.
//
// Handlers receive a Context and return an error:
//
//	func (h *Account) user(c internal.Context) error {
//		u, err := h.repo.GetUserByID(c, sess.UserID())
//		if err != nil {
//			return err
//		}
//		return c.JSON(http.StatusOK, u)
//	}
//
// Returned errors go to the ErrorHandler. HTTPError values keep their status
// and message; anything else becomes a logged 500.
//
// Middleware sees the same Context. Global middleware runs before chi
// routes the request, so a middleware that swaps the request through
// SetRequest changes the path the router matches. This is how locale
// prefixes are stripped before routing.
package internal

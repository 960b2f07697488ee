package internal

import (
	"errors"
	"net/http"
)

// ErrStartupHook wraps a failed startup hook.
var ErrStartupHook = errors.New("saasgate: startup hook failed")

// HTTPError is an error carrying the status code and the message shown to
// the client. Err, if set, is logged but never exposed.
type HTTPError struct {
	Err       error  `json:"-"`
	Message   string `json:"error"`
	ErrorCode string `json:"code,omitempty"`
	Code      int    `json:"-"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// WithErrorCode sets a machine-readable code, typically a translation key.
func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.ErrorCode = code
	}
}

// WithError attaches the underlying cause.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// NewHTTPError creates an HTTPError. An empty message defaults to the status text.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError returns the first HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// DefaultErrorHandler renders HTTPErrors as JSON with their status code.
// Any other error becomes a logged 500 without details.
func DefaultErrorHandler(c Context, err error) error {
	he := AsHTTPError(err)
	if he == nil {
		c.LogError("request failed", "error", err)
		he = ErrInternal("")
	} else if he.Code >= http.StatusInternalServerError {
		c.LogError("request failed", "error", err, "status", he.Code)
	}
	return c.JSON(he.Code, he)
}

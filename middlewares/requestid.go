package middlewares

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/saasgate/internal"
	"github.com/dmitrymomot/saasgate/pkg/logger"
)

// requestIDKey is the context key for storing the request ID.
type requestIDKey struct{}

// DefaultRequestIDHeaders are the headers checked, in order, for an upstream ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// maxRequestIDLength caps accepted upstream IDs.
const maxRequestIDLength = 128

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Generator      func() string // ID generator function
	ResponseHeader string        // Response header name
	Headers        []string      // Headers to check for existing ID (in order)
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders sets the headers to check for existing request IDs.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Generator = gen
	}
}

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID returns middleware that tags each request with an ID taken from
// an upstream header or generated as a UUIDv4, and echoes it in the response.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      uuid.NewString,
		ResponseHeader: "X-Request-ID",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			var reqID string
			for _, header := range cfg.Headers {
				if v := c.Header(header); v != "" && len(v) <= maxRequestIDLength {
					reqID = v
					break
				}
			}

			if reqID == "" {
				reqID = cfg.Generator()
			}

			c.Set(requestIDKey{}, reqID)
			c.SetHeader(cfg.ResponseHeader, reqID)

			return next(c)
		}
	}
}

// GetRequestID extracts the request ID from the context.
// Returns an empty string if no request ID is set.
func GetRequestID(c internal.Context) string {
	if v, ok := c.Get(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestIDExtractor returns a logger.ContextExtractor that adds
// "request_id" to every record logged with the request context.
func RequestIDExtractor() logger.ContextExtractor {
	return logger.ContextValue(requestIDKey{}, "request_id")
}

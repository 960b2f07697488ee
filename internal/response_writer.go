package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
)

// ResponseWriter records the status and size of a response and runs
// registered hooks once, right before the header is sent.
type ResponseWriter struct {
	http.ResponseWriter
	beforeWrite []func()
	size        int64
	status      int
	mu          sync.Mutex
	written     bool
}

// NewResponseWriter wraps w.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// OnBeforeWrite registers fn to run before the header is written.
// Hooks registered after the first write never run.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.written {
		w.beforeWrite = append(w.beforeWrite, fn)
	}
}

// markWritten flips the written flag and returns pending hooks,
// or false if the header was already sent.
func (w *ResponseWriter) markWritten(code int) ([]func(), bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return nil, false
	}
	w.written = true
	w.status = code
	hooks := w.beforeWrite
	w.beforeWrite = nil
	return hooks, true
}

func (w *ResponseWriter) WriteHeader(code int) {
	hooks, first := w.markWritten(code)
	if !first {
		return
	}
	for _, fn := range hooks {
		fn()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	n, err := w.ResponseWriter.Write(b)
	w.mu.Lock()
	w.size += int64(n)
	w.mu.Unlock()
	return n, err
}

// Status returns the written status code, 200 if nothing was written yet.
func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Size returns the number of body bytes written.
func (w *ResponseWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

func (w *ResponseWriter) Flush() {
	w.WriteHeader(http.StatusOK)
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

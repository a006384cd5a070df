// Package middleware holds the HTTP middleware shared by API modules:
// CORS, request logging with request ids, and API key checks.
package middleware

import "net/http"

// Func wraps a handler with additional behavior.
type Func func(http.Handler) http.Handler

// Chain is an ordered middleware stack. The first entry sees the request first.
type Chain []Func

// Use appends fn to the chain.
func (c *Chain) Use(fn Func) {
	*c = append(*c, fn)
}

// Then wraps h with every middleware in the chain.
func (c Chain) Then(h http.Handler) http.Handler {
	for i := len(c) - 1; i >= 0; i-- {
		h = c[i](h)
	}
	return h
}

// recorder captures the status code and body size written by a handler.
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += int64(n)
	return n, err
}

func (r *recorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *recorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

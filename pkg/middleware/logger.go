package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id. An incoming value is reused,
// otherwise one is generated, and it is always echoed on the response.
const RequestIDHeader = "X-Request-ID"

type attrsKey struct{}

type requestAttrs struct {
	mu    sync.Mutex
	attrs []any
}

// AddLogAttrs attaches key/value pairs to the request log line written by
// Logger. Outside a Logger-wrapped request it does nothing.
func AddLogAttrs(ctx context.Context, args ...any) {
	ra, ok := ctx.Value(attrsKey{}).(*requestAttrs)
	if !ok {
		return
	}
	ra.mu.Lock()
	ra.attrs = append(ra.attrs, args...)
	ra.mu.Unlock()
}

// Logger logs one line per request with its status, size and duration.
// Server errors log at error level and client errors at warn.
func Logger(logger *slog.Logger) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			ra := &requestAttrs{}
			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), attrsKey{}, ra)))

			status := rec.Status()
			args := []any{
				"request_id", id,
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"status", status,
				"bytes", rec.bytes,
				"addr", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			ra.mu.Lock()
			args = append(args, ra.attrs...)
			ra.mu.Unlock()

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "request", args...)
		})
	}
}

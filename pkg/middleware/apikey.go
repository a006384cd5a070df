package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
)

// APIKeyHeader is the request header carrying the client API key.
const APIKeyHeader = "X-API-KEY"

// APIKey returns middleware that rejects requests whose X-API-KEY header does not
// match key with 401. Requests for the exempt paths pass through unchecked.
// An empty key disables the check.
func APIKey(key string, logger *slog.Logger, exempt ...string) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" || r.Method == http.MethodOptions || slices.Contains(exempt, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				logger.Warn("unauthorized request", "method", r.Method, "uri", r.URL.RequestURI(), "addr", r.RemoteAddr)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "missing or invalid api key"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

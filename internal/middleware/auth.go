package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const (
	ClientKey       contextKey = "client"
	clientHolderKey contextKey = "client_holder"
)

// clientHolder lets handlers further down the chain report the authenticated
// client back to RequestLogger, which runs before auth.
type clientHolder struct {
	name string
}

var publicPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/metrics": true,
}

// APIKeyAuth validates the API key from the Authorization header. validKeys
// maps client name to key.
func APIKeyAuth(validKeys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <key>" and "<key>" formats
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			// constant-time comparison
			var client string
			for name, key := range validKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					client = name
					break
				}
			}
			if client == "" {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			if h, ok := r.Context().Value(clientHolderKey).(*clientHolder); ok {
				h.name = client
			}
			ctx := context.WithValue(r.Context(), ClientKey, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientFromContext returns the authenticated client name, if any.
func GetClientFromContext(ctx context.Context) string {
	if client, ok := ctx.Value(ClientKey).(string); ok {
		return client
	}
	if h, ok := ctx.Value(clientHolderKey).(*clientHolder); ok {
		return h.name
	}
	return ""
}

package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const UserIDContextKey = contextKey("userID")

// Middleware verifies the Bearer token in the Authorization header and adds
// the authenticated user ID to the request context. Requests with a missing or
// invalid token get a 401 response.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Bearer token is required", http.StatusUnauthorized)
				return
			}

			token, err := verifier.Verify(r.Context(), tokenString)
			if err != nil {
				http.Error(w, "Invalid token: "+err.Error(), http.StatusUnauthorized)
				return
			}

			subject, ok := token.Subject()
			if !ok {
				http.Error(w, "no claim `sub`", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDContextKey, subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextUserID retrieves the authenticated user ID from the context.
func ContextUserID(ctx context.Context) string {
	if value := ctx.Value(UserIDContextKey); value != nil {
		return value.(string)
	}
	return ""
}

package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"memopad/token"
)

// RequireAuth guards the note endpoints: it expects an
// "Authorization: Bearer <token>" header, verifies the token and attaches
// the caller's identity to the request context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader || tokenStr == "" {
			log.Printf("Auth Middleware - Bearer prefix missing in header")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := token.Verify(tokenStr)
		if err != nil {
			log.Printf("Auth Middleware - Token verification failed: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", claims.UserID)
		ctx = context.WithValue(ctx, "email", claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

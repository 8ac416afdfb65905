package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/vpetrenko/todo-service/internal/token"
)

type contextKey string

// userIDKey is unexported so the verified identity can only be attached
// here and read through UserIDFromContext, never from a client payload.
const userIDKey contextKey = "userID"

// AuthMiddleware authenticates requests using a bearer token.
// A missing or malformed Authorization header is 401; a header that is
// present but carries a bad or expired token is 403.
func AuthMiddleware(tokens *token.Manager, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				unauthorizedResponse(w, http.StatusUnauthorized, "No token provided")
				return
			}

			userID, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Infof("Rejected token on %s %s", r.Method, r.URL.Path)
				unauthorizedResponse(w, http.StatusForbidden, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user id set by AuthMiddleware
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

func unauthorizedResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

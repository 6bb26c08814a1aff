package middleware

import (
	"context"
	"net/http"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/auth"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Auth resolves the bearer credential once per request and stores the user id
// on the context. Handlers never parse credentials themselves.
func Auth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userID, err := tokens.CurrentUser(auth.ExtractToken(header))
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID reads the authenticated user id set by Auth; zero means no identity.
func UserID(r *http.Request) uint {
	id, _ := r.Context().Value(UserIDKey).(uint)
	return id
}

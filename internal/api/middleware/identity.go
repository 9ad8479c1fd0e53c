package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "user_id"

// DefaultUserID scopes history for callers that send no identity header.
const DefaultUserID = "demo-user"

// Identity reads the x-user-id header and stores the caller identity in the
// request context, defaulting to DefaultUserID when absent.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("x-user-id")
		if userID == "" {
			userID = DefaultUserID
		}
		next.ServeHTTP(w, r.WithContext(SetUserID(r.Context(), userID)))
	})
}

func SetUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// GetUserID returns the caller identity set by Identity.
func GetUserID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok && id != "" {
		return id
	}
	return DefaultUserID
}

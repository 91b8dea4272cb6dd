package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/scribeapp/scribe/internal/auth"
)

type key string

const userIDKey key = "user_id"

// SessionCookieName is the HTTP-only cookie carrying the session token.
const SessionCookieName = "scribe_token"

// GetUserID returns the authenticated user's id from the request context,
// as placed there by RequireAuth.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}

// WithUserID returns a context carrying the given user id. Exposed for handler tests.
func WithUserID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// RequireAuth resolves the acting identity from the Authorization header
// (Bearer token) or, failing that, the session cookie, and stores the user id
// in the request context. Missing, invalid, and expired tokens all end the
// request with 401.
func RequireAuth(a *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				if c, err := r.Cookie(SessionCookieName); err == nil {
					tokenStr = c.Value
				}
			}
			if tokenStr == "" {
				unauthorized(w, auth.ErrUnauthenticated.Error())
				return
			}

			userID, err := a.Verify(tokenStr)
			if err != nil {
				if errors.Is(err, auth.ErrExpired) {
					unauthorized(w, auth.ErrExpired.Error())
					return
				}
				unauthorized(w, auth.ErrInvalidToken.Error())
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dukerupert/wardbook/internal/auth"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "wardbook_session"

// SessionSource exposes the process's current session.
type SessionSource interface {
	Token() string
	User() (auth.User, bool)
}

// RequireSession admits requests whose token, from the session cookie or a
// bearer header, matches the current session. The signed-in user is put on
// the request context.
func RequireSession(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := requestToken(r)
			current := sessions.Token()
			if token == "" || current == "" || subtle.ConstantTimeCompare([]byte(token), []byte(current)) != 1 {
				unauthorized(w)
				return
			}

			user, ok := sessions.User()
			if !ok {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

func requestToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Please sign in first"}`))
}

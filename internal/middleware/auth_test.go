package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/wardbook/internal/auth"
)

type fakeSessions struct {
	token string
	user  *auth.User
}

func (f fakeSessions) Token() string { return f.token }

func (f fakeSessions) User() (auth.User, bool) {
	if f.user == nil {
		return auth.User{}, false
	}
	return *f.user, true
}

func rejectHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	})
}

func TestRequireSessionNoToken(t *testing.T) {
	handler := RequireSession(fakeSessions{token: "tok", user: &auth.User{ID: "u1"}})(rejectHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/families", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRequireSessionWrongToken(t *testing.T) {
	handler := RequireSession(fakeSessions{token: "tok", user: &auth.User{ID: "u1"}})(rejectHandler(t))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireSessionSignedOut(t *testing.T) {
	handler := RequireSession(fakeSessions{})(rejectHandler(t))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireSessionValid(t *testing.T) {
	sessions := fakeSessions{token: "tok", user: &auth.User{ID: "u1", Email: "clerk@ward.example"}}

	for name, attach := range map[string]func(*http.Request){
		"cookie": func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"}) },
		"bearer": func(r *http.Request) { r.Header.Set("Authorization", "Bearer tok") },
	} {
		t.Run(name, func(t *testing.T) {
			var got auth.User
			handler := RequireSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				u, ok := auth.FromContext(r.Context())
				if !ok {
					t.Fatal("expected user in request context")
				}
				got = u
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/", nil)
			attach(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if got.ID != "u1" {
				t.Errorf("user = %q, want u1", got.ID)
			}
		})
	}
}

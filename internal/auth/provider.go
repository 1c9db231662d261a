package auth

import (
	"context"
	"time"
)

// User is the signed-in operator.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is an authenticated session issued by a Provider.
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time
}

// Provider is the authentication backend. It reports the current session
// through the OnSessionChange callback once when it initializes and again on
// every sign-in and sign-out. A nil session means signed out.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	OnSessionChange(fn func(*Session))
}

// ProviderError carries a provider error code such as "auth/wrong-password".
type ProviderError struct {
	Code string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *ProviderError) Unwrap() error { return e.Err }

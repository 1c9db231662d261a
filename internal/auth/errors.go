package auth

import "errors"

const (
	CodeInvalidEmail    = "auth/invalid-email"
	CodeUserDisabled    = "auth/user-disabled"
	CodeUserNotFound    = "auth/user-not-found"
	CodeWrongPassword   = "auth/wrong-password"
	CodeTooManyRequests = "auth/too-many-requests"
)

// fallbackMessage is shown for any provider failure without a known code.
const fallbackMessage = "Sign in failed. Please try again."

var messages = map[string]string{
	CodeInvalidEmail:    "Invalid email address format.",
	CodeUserDisabled:    "This account has been disabled.",
	CodeUserNotFound:    "No account found with this email.",
	CodeWrongPassword:   "Incorrect password.",
	CodeTooManyRequests: "Too many failed attempts. Please try again later.",
}

// AuthError is a sign-in failure with a message safe to show the user.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// MapError converts a provider error into an AuthError. Unknown codes and
// errors without a code get the generic message.
func MapError(err error) *AuthError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		if msg, ok := messages[pe.Code]; ok {
			return &AuthError{Code: pe.Code, Message: msg, Err: err}
		}
		return &AuthError{Code: pe.Code, Message: fallbackMessage, Err: err}
	}
	return &AuthError{Message: fallbackMessage, Err: err}
}

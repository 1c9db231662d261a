package handler

import (
	"net/http"
	"time"

	"github.com/dukerupert/wardbook/internal/middleware"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.ctrl.SignIn(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}

	sess, ok := h.gate.Session()
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Sign in failed. Please try again.")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       sess.User,
		"expires_at": sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.SignOut(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Session reports the gate state and, when signed in, the user and the
// active section.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"state": h.gate.State().String()}
	if user, ok := h.gate.User(); ok {
		resp["user"] = user
		resp["section"] = h.ctrl.Section()
	}
	writeJSON(w, http.StatusOK, resp)
}

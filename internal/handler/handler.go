// Package handler is the JSON API over the lifecycle controller.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/wardbook/internal/auth"
	"github.com/dukerupert/wardbook/internal/backup"
	"github.com/dukerupert/wardbook/internal/lifecycle"
	"github.com/dukerupert/wardbook/internal/model"
	"github.com/dukerupert/wardbook/internal/repository"
)

// Backupper takes an on-demand backup.
type Backupper interface {
	Run(ctx context.Context) (*backup.Result, error)
}

type Handler struct {
	ctrl    *lifecycle.Controller
	gate    *auth.Gate
	backups Backupper
	logger  *slog.Logger
}

// New returns the API handlers. backups may be nil, in which case
// POST /api/backup answers 503.
func New(ctrl *lifecycle.Controller, gate *auth.Gate, backups Backupper, logger *slog.Logger) *Handler {
	return &Handler{ctrl: ctrl, gate: gate, backups: backups, logger: logger}
}

func parseIDParam(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", errors.New("missing id")
	}
	return id, nil
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError answers with the status the error kind implies and the same
// text the controller notified.
func writeError(w http.ResponseWriter, err error) {
	writeMessage(w, errorStatus(err), lifecycle.UserMessage(err))
}

func errorStatus(err error) int {
	var ve model.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	var ae *auth.AuthError
	if errors.As(err, &ae) {
		if ae.Code == auth.CodeTooManyRequests {
			return http.StatusTooManyRequests
		}
		return http.StatusUnauthorized
	}
	if errors.Is(err, lifecycle.ErrSignedOut) || errors.Is(err, repository.ErrNotSignedIn) {
		return http.StatusUnauthorized
	}
	var se *repository.StoreError
	if errors.As(err, &se) {
		switch se.Kind {
		case repository.KindPermission:
			return http.StatusForbidden
		case repository.KindNotFound:
			return http.StatusNotFound
		case repository.KindUnavailable:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	section, err := lifecycle.ParseSection(r.PathValue("section"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.ctrl.Activate(r.Context(), section); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"section": string(section)})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ctrl.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Backups are not configured")
		return
	}
	res, err := h.backups.Run(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, res)
	case errors.Is(err, backup.ErrInProgress):
		writeMessage(w, http.StatusConflict, "A backup is already running")
	case errors.Is(err, backup.ErrDisabled), errors.Is(err, backup.ErrPassphrase):
		writeMessage(w, http.StatusServiceUnavailable, "Backups are not configured")
	default:
		h.logger.Error("backup", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Backup failed")
	}
}

package handler

import (
	"net/http"
	"strings"

	"github.com/dukerupert/wardbook/internal/lifecycle"
	"github.com/dukerupert/wardbook/internal/model"
)

// ListRequests returns requests under the status tab. ?status= switches the
// tab first; "ALL" clears it.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reloaded := false
	if raw, ok := r.URL.Query()["status"]; ok {
		var status model.RequestStatus
		if v := strings.TrimSpace(raw[0]); v != "" && !strings.EqualFold(v, "all") {
			s, err := model.ParseRequestStatus(v)
			if err != nil {
				writeError(w, err)
				return
			}
			status = s
		}
		if err := h.ctrl.SetStatusFilter(ctx, status); err != nil {
			writeError(w, err)
			return
		}
		reloaded = h.ctrl.Section() == lifecycle.SectionRequests
	}
	if !reloaded {
		if err := h.ctrl.LoadRequests(ctx); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   h.ctrl.StatusFilter(),
		"requests": h.ctrl.Requests(),
	})
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var in model.RequestInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	id, err := h.ctrl.SubmitRequest(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Description string `json:"request_description"`
		Notes       string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.ctrl.UpdateRequest(r.Context(), id, req.Description, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	status, err := model.ParseRequestStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.ctrl.UpdateRequestStatus(r.Context(), id, status, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(status)})
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.ctrl.DeleteRequest(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchPeople feeds the request form's person picker.
func (h *Handler) SearchPeople(w http.ResponseWriter, r *http.Request) {
	members, err := h.ctrl.SearchPeople(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

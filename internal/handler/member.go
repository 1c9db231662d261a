package handler

import (
	"net/http"

	"github.com/dukerupert/wardbook/internal/model"
)

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.LoadMembers(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Members())
}

// SearchMembers matches name or phone. Single-character queries change
// nothing and an empty query returns everyone.
func (h *Handler) SearchMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	cards, err := h.ctrl.SearchMemberCards(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	m, err := h.ctrl.EditMember(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var in model.MemberInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	id, err := h.ctrl.SaveMember(r.Context(), "", in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in model.MemberInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if _, err := h.ctrl.SaveMember(r.Context(), id, in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.ctrl.DeleteMember(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MemberRequests(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	cards, err := h.ctrl.MemberRequests(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

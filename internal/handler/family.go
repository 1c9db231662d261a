package handler

import (
	"net/http"

	"github.com/dukerupert/wardbook/internal/model"
)

// ListFamilies reloads the families under the current zone filter. An
// optional q narrows the result by family name.
func (h *Handler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.LoadFamilies(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query().Get("q")
	if q != "" {
		h.ctrl.SearchFamilies(q)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"zone":     h.ctrl.ZoneFilter(),
		"families": h.ctrl.FamiliesMatching(q),
	})
}

func (h *Handler) GetFamily(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	f, err := h.ctrl.EditFamily(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var in model.FamilyInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	id, err := h.ctrl.SaveFamily(r.Context(), "", in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in model.FamilyInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if _, err := h.ctrl.SaveFamily(r.Context(), id, in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.ctrl.DeleteFamily(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) FamilyMembers(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	cards, err := h.ctrl.FamilyMembers(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// SetZoneFilter takes {"zone": n}; 0 clears the filter.
func (h *Handler) SetZoneFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Zone int `json:"zone"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.ctrl.SetZoneFilter(r.Context(), req.Zone); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"zone": req.Zone})
}

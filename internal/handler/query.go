package handler

import (
	"net/http"

	"github.com/dukerupert/wardbook/internal/view"
)

func (h *Handler) RunQuery(w http.ResponseWriter, r *http.Request) {
	kind, err := view.ParseQueryKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.ctrl.RunQuery(r.Context(), kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) RunOccupationQuery(w http.ResponseWriter, r *http.Request) {
	res, err := h.ctrl.RunOccupationQuery(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

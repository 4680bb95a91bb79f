package http

import (
	"net/http"

	"github.com/MKhiriev/deepguard/internal/utils"
	"github.com/MKhiriev/deepguard/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	items, err := h.services.HistoryService.ListForUser(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.HistoryItem{}
	}

	writeJSON(w, r, models.HistoryResponse{Items: items}, http.StatusOK)
}

// deleteHistoryItem answers 404 for records owned by other users.
func (h *Handler) deleteHistoryItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	if err := h.services.HistoryService.Delete(ctx, userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

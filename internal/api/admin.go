package api

import (
	"net/http"

	"github.com/dennisdiepolder/monti/dashboard/internal/settings"
)

// GetSettings handles GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get())
}

// UpdateSettings handles PUT /api/settings with a partial body
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch settings.Patch
	if err := decodeBody(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	updated, err := h.settings.Update(patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ResetSettings handles POST /api/settings/reset
func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Reset())
}

// ResetStore handles POST /api/admin/reset, restoring the seed data
func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	dropped := h.store.Reset()
	counts := h.store.Counts()
	h.services.Reseeded()

	h.logger.Info().Int("dropped", dropped).Msg("store reset to seed data")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "store reset",
		"dropped": dropped,
		"records": counts,
	})
}

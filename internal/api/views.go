package api

import (
	"net/http"

	"github.com/dennisdiepolder/monti/dashboard/internal/listview"
	"github.com/dennisdiepolder/monti/dashboard/internal/views"
)

// AgentsView handles GET /api/views/agents
func (h *Handler) AgentsView(w http.ResponseWriter, r *http.Request) {
	q, err := listview.ParseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.views.Agents(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// QueuesView handles GET /api/views/queues
func (h *Handler) QueuesView(w http.ResponseWriter, r *http.Request) {
	q, err := listview.ParseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.views.Queues(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CallsView handles GET /api/views/calls
func (h *Handler) CallsView(w http.ResponseWriter, r *http.Request) {
	q, err := listview.ParseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.views.Calls(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// DashboardView handles GET /api/views/dashboard
func (h *Handler) DashboardView(w http.ResponseWriter, r *http.Request) {
	page, err := h.views.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// AnalyticsView handles GET /api/views/analytics?range=7d
func (h *Handler) AnalyticsView(w http.ResponseWriter, r *http.Request) {
	rng, err := views.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.views.Analytics(r.Context(), rng)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Package api serves the dashboard over HTTP: CRUD per entity, the page
// view models, settings and admin operations.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dennisdiepolder/monti/dashboard/internal/errs"
	"github.com/dennisdiepolder/monti/dashboard/internal/service"
	"github.com/dennisdiepolder/monti/dashboard/internal/settings"
	"github.com/dennisdiepolder/monti/dashboard/internal/store"
	"github.com/dennisdiepolder/monti/dashboard/internal/views"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler holds the dependencies of every /api route
type Handler struct {
	services *service.Services
	views    *views.Views
	settings *settings.Store
	store    *store.Store
	logger   zerolog.Logger
}

// NewHandler creates the API handler
func NewHandler(st *store.Store, svc *service.Services, v *views.Views, set *settings.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		services: svc,
		views:    v,
		settings: set,
		store:    st,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// Routes returns the router to mount under /api
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	mountResource(r, "/agents", h.services.Agents, h)
	mountResource(r, "/calls", h.services.Calls, h)
	mountResource(r, "/queues", h.services.Queues, h)
	mountResource(r, "/metrics", h.services.Metrics, h)

	r.Route("/views", func(r chi.Router) {
		r.Get("/agents", h.AgentsView)
		r.Get("/queues", h.QueuesView)
		r.Get("/calls", h.CallsView)
		r.Get("/dashboard", h.DashboardView)
		r.Get("/analytics", h.AnalyticsView)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.GetSettings)
		r.Put("/", h.UpdateSettings)
		r.Post("/reset", h.ResetSettings)
	})

	r.Post("/admin/reset", h.ResetStore)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})
	return r
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code. Only unexpected errors are logged.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, errs.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errs.Message(err, "invalid request")})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "request cancelled"})
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Invalid("body", "JSON", err.Error())
	}
	return nil
}

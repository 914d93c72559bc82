package api

import (
	"net/http"

	"github.com/dennisdiepolder/monti/dashboard/internal/service"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	"github.com/go-chi/chi/v5"
)

// resource exposes one entity service as REST endpoints
type resource[T types.Entity[T], P service.Patch[T]] struct {
	svc *service.Service[T, P]
	h   *Handler
}

func mountResource[T types.Entity[T], P service.Patch[T]](r chi.Router, path string, svc *service.Service[T, P], h *Handler) {
	res := &resource[T, P]{svc: svc, h: h}
	r.Route(path, func(r chi.Router) {
		r.Get("/", res.list)
		r.Post("/", res.create)
		r.Get("/{id}", res.get)
		r.Patch("/{id}", res.update)
		r.Delete("/{id}", res.remove)
	})
}

func (res *resource[T, P]) id(r *http.Request) (int, error) {
	return service.ParseID(res.svc.Kind(), chi.URLParam(r, "id"))
}

// list handles GET /api/{entity}
func (res *resource[T, P]) list(w http.ResponseWriter, r *http.Request) {
	records, err := res.svc.GetAll(r.Context())
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// get handles GET /api/{entity}/{id}
func (res *resource[T, P]) get(w http.ResponseWriter, r *http.Request) {
	id, err := res.id(r)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	record, err := res.svc.GetByID(r.Context(), id)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// create handles POST /api/{entity}
func (res *resource[T, P]) create(w http.ResponseWriter, r *http.Request) {
	var fields T
	if err := decodeBody(r, &fields); err != nil {
		res.h.writeError(w, r, err)
		return
	}
	created, err := res.svc.Create(r.Context(), fields)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// update handles PATCH /api/{entity}/{id}
func (res *resource[T, P]) update(w http.ResponseWriter, r *http.Request) {
	id, err := res.id(r)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	var patch P
	if err := decodeBody(r, &patch); err != nil {
		res.h.writeError(w, r, err)
		return
	}
	updated, err := res.svc.Update(r.Context(), id, patch)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// remove handles DELETE /api/{entity}/{id}
func (res *resource[T, P]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := res.id(r)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	removed, err := res.svc.Delete(r.Context(), id)
	if err != nil {
		res.h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

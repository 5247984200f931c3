package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vburojevic/registrar/internal/api"
	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/query"
	"github.com/vburojevic/registrar/internal/store"
)

const maxBody = 1 << 20

// Register mounts list, get, create, update and delete routes for the
// collection name.
func Register[T models.Record[T]](s *Server, name string) {
	h := &resourceHandler[T]{s: s, name: name}
	s.api.HandleFunc("/"+name, h.list).Methods(http.MethodGet)
	s.api.HandleFunc("/"+name, h.create).Methods(http.MethodPost)
	s.api.HandleFunc("/"+name+"/{id}", h.get).Methods(http.MethodGet)
	s.api.HandleFunc("/"+name+"/{id}", h.update).Methods(http.MethodPut)
	s.api.HandleFunc("/"+name+"/{id}", h.delete).Methods(http.MethodDelete)
}

type resourceHandler[T models.Record[T]] struct {
	s    *Server
	name string
}

func (h *resourceHandler[T]) collection(r *http.Request) (*store.Collection[T], error) {
	return store.NewCollection[T](h.s.opts.Store, tenantFrom(r.Context()), h.name)
}

func (h *resourceHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	p, err := query.ParseValues(r.URL.Query(), h.s.opts.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.CodeBadRequest, err.Error(), nil)
		return
	}
	c, err := h.collection(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := c.List(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *resourceHandler[T]) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.collection(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := c.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T]) create(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decode(w, r)
	if !ok {
		return
	}
	c, err := h.collection(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := c.Create(r.Context(), item.WithKey(""))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *resourceHandler[T]) update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decode(w, r)
	if !ok {
		return
	}
	c, err := h.collection(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := c.Update(r.Context(), item.WithKey(mux.Vars(r)["id"]))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *resourceHandler[T]) delete(w http.ResponseWriter, r *http.Request) {
	c, err := h.collection(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := c.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *resourceHandler[T]) decode(w http.ResponseWriter, r *http.Request) (T, bool) {
	var item T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, api.CodeBadRequest, fmt.Sprintf("invalid %s body: %v", h.name, err), nil)
		return item, false
	}
	return item, true
}

func (h *resourceHandler[T]) fail(w http.ResponseWriter, r *http.Request, err error) {
	var fe models.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeError(w, http.StatusUnprocessableEntity, api.CodeValidationFailed, "validation failed", fe)
	case errors.Is(err, query.ErrNotFound):
		writeError(w, http.StatusNotFound, api.CodeNotFound, err.Error(), nil)
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, api.CodeConflict, err.Error(), nil)
	default:
		loggerFrom(r.Context()).WithError(err).WithField("resource", h.name).Error("request failed")
		writeError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, meta map[string]string) {
	writeJSON(w, status, &api.Error{Code: code, Message: message, Meta: meta})
}

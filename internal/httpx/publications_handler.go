package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/ariefcatur/go-kiosk-orders/internal/publication"
	"github.com/go-chi/chi/v5"
)

type PublicationStore interface {
	List(ctx context.Context) ([]publication.Publication, error)
	Create(ctx context.Context, p publication.Publication) (publication.Publication, error)
	Update(ctx context.Context, id string, p publication.Publication) (publication.Publication, error)
	Delete(ctx context.Context, id string) error
}

type PublicationsHandler struct {
	Repo    PublicationStore
	Events  Emitter
	Service string
}

func (h *PublicationsHandler) Register(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/publications", h.list)
	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Post("/publications", h.create)
		r.Put("/publications/{id}", h.update)
		r.Delete("/publications/{id}", h.delete)
	})
}

func (h *PublicationsHandler) list(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *PublicationsHandler) create(w http.ResponseWriter, r *http.Request) {
	var p publication.Publication
	if !decode(w, r, &p) {
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.Repo.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	emit(r.Context(), h.Events, h.Service, orders.EventPublicationCreated, created.ID, created)
	writeJSON(w, http.StatusCreated, created)
}

func (h *PublicationsHandler) update(w http.ResponseWriter, r *http.Request) {
	var p publication.Publication
	if !decode(w, r, &p) {
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.Repo.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	emit(r.Context(), h.Events, h.Service, orders.EventPublicationUpdated, updated.ID, updated)
	writeJSON(w, http.StatusOK, updated)
}

func (h *PublicationsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	emit(r.Context(), h.Events, h.Service, orders.EventPublicationDeleted, id, orders.DeletedPayload{ID: id})
	w.WriteHeader(http.StatusNoContent)
}

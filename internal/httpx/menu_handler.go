package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/menu"
	"github.com/go-chi/chi/v5"
)

type MenuService interface {
	List(ctx context.Context) ([]menu.Item, error)
	Get(ctx context.Context, id string) (menu.Item, error)
	Create(ctx context.Context, it menu.Item) (menu.Item, error)
	Update(ctx context.Context, id string, it menu.Item) (menu.Item, error)
	Delete(ctx context.Context, id string) error
}

type MenuHandler struct {
	Service MenuService
}

func (h *MenuHandler) Register(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/menu", h.list)
	r.Get("/menu/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Post("/menu", h.create)
		r.Put("/menu/{id}", h.update)
		r.Delete("/menu/{id}", h.delete)
	})
}

// list keeps the {"menu": [...]} shape the kiosks were built against.
func (h *MenuHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Service.List(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]menu.Item{"menu": items})
}

func (h *MenuHandler) get(w http.ResponseWriter, r *http.Request) {
	it, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *MenuHandler) create(w http.ResponseWriter, r *http.Request) {
	var it menu.Item
	if !decode(w, r, &it) {
		return
	}
	created, err := h.Service.Create(r.Context(), it)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *MenuHandler) update(w http.ResponseWriter, r *http.Request) {
	var it menu.Item
	if !decode(w, r, &it) {
		return
	}
	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), it)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *MenuHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

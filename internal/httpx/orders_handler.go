package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/ariefcatur/go-kiosk-orders/internal/redisx"
	"github.com/ariefcatur/go-kiosk-orders/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"log"
	"net/http"
	"strconv"
	"time"
)

type OrderStore interface {
	CreateOrderTx(ctx context.Context, in orders.CreateInput) (orders.Order, bool, error)
	Get(ctx context.Context, id string) (orders.Order, error)
	GetOrderStatus(ctx context.Context, id string) (orders.Status, error)
	List(ctx context.Context, limit int) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id string, to orders.Status) (orders.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrdersHandler struct {
	Repo    OrderStore
	Events  Emitter
	Redis   *redis.Client
	Service string
}

type UpdateStatusReq struct {
	Status orders.Status `json:"status" validate:"required,oneof=pending in_progress ready paid delivered cancelled"`
}

func (h *OrdersHandler) Register(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/status", h.getStatus)
	r.Patch("/orders/{id}/status", h.updateStatus)
	r.With(admin).Delete("/orders/{id}", h.deleteOrder)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.CreateInput
	if !decode(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Fast path for replays; the unique external_id in the DB stays the truth.
	idemKey := fmt.Sprintf(redisx.KeyIdemOrderCreate, req.ExternalID)
	if id, err := h.Redis.Get(ctx, idemKey).Result(); err == nil && id != "" {
		if o, err := h.Repo.Get(ctx, id); err == nil {
			writeJSON(w, http.StatusOK, o)
			return
		}
	}

	o, existed, err := h.Repo.CreateOrderTx(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_ = h.Redis.Set(ctx, idemKey, o.ID, redisx.TTLIdempotency).Err()
	h.cacheStatus(ctx, o.ID, o.Status)

	if existed {
		writeJSON(w, http.StatusOK, o)
		return
	}
	emit(ctx, h.Events, h.Service, orders.EventOrderCreated, o.ID, o)
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			writeMsg(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Repo.List(ctx, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Repo.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// getStatus is polled by kiosks without a live feed, so it is cached.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}

	status, err := h.Repo.GetOrderStatus(ctx, orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b := h.cacheStatus(ctx, orderID, status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusReq
	if !decode(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.UpdateStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cacheStatus(ctx, o.ID, o.Status)
	emit(ctx, h.Events, h.Service, orders.EventOrderUpdated, o.ID, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, orderID); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Err(); err != nil {
		log.Printf("drop status cache for %s: %v", orderID, err)
	}
	emit(ctx, h.Events, h.Service, orders.EventOrderDeleted, orderID, orders.DeletedPayload{ID: orderID})
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, orderID string, s orders.Status) []byte {
	b, _ := json.Marshal(map[string]orders.Status{"status": s})
	_ = h.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID), b, redisx.TTLStatusCache).Err()
	return b
}

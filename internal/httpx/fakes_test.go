package httpx

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/menu"
	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/ariefcatur/go-kiosk-orders/internal/publication"
)

// --- orders ---

type memOrders struct {
	mu     sync.Mutex
	prices map[string]menu.Item
	byID   map[string]orders.Order
	byExt  map[string]string
	seq    int
}

func newMemOrders(items ...menu.Item) *memOrders {
	m := &memOrders{prices: map[string]menu.Item{}, byID: map[string]orders.Order{}, byExt: map[string]string{}}
	for _, it := range items {
		m.prices[it.ID] = it
	}
	return m
}

func (m *memOrders) CreateOrderTx(_ context.Context, in orders.CreateInput) (orders.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byExt[in.ExternalID]; ok {
		return m.byID[id], true, nil
	}
	o := orders.Order{
		ExternalID:    in.ExternalID,
		TableID:       in.TableID,
		PaymentMethod: in.PaymentMethod,
		Status:        in.PaymentMethod.InitialStatus(),
		CreatedAt:     time.Now().UTC(),
	}
	for _, it := range in.Items {
		p, ok := m.prices[it.MenuItemID]
		if !ok {
			return orders.Order{}, false, fmt.Errorf("%w: %s", orders.ErrUnknownMenuItem, it.MenuItemID)
		}
		if it.UnitPrice > 0 && it.UnitPrice != p.Price {
			return orders.Order{}, false, fmt.Errorf("%w: %s is now %d Ar", orders.ErrPriceChanged, p.Name, p.Price)
		}
		o.Lines = append(o.Lines, orders.Line{MenuItemID: p.ID, Name: p.Name, UnitPrice: p.Price, Qty: it.Qty})
	}
	m.seq++
	o.ID = fmt.Sprintf("o-%d", m.seq)
	o.Total = orders.SumLines(o.Lines)
	m.byID[o.ID] = o
	m.byExt[o.ExternalID] = o.ID
	return o, false, nil
}

func (m *memOrders) Get(_ context.Context, id string) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) GetOrderStatus(ctx context.Context, id string) (orders.Status, error) {
	o, err := m.Get(ctx, id)
	return o.Status, err
}

func (m *memOrders) List(_ context.Context, limit int) ([]orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []orders.Order{}
	for i := m.seq; i > 0 && len(out) < limit; i-- {
		if o, ok := m.byID[fmt.Sprintf("o-%d", i)]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, to orders.Status) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	if !orders.CanTransition(o.Status, to) {
		return orders.Order{}, fmt.Errorf("%w: %s -> %s", orders.ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	m.byID[id] = o
	return o, nil
}

func (m *memOrders) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return orders.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// --- menu ---

type memMenu struct {
	mu    sync.Mutex
	items []menu.Item
}

func (m *memMenu) List(context.Context) ([]menu.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]menu.Item{}, m.items...), nil
}

func (m *memMenu) Get(_ context.Context, id string) (menu.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return menu.Item{}, menu.ErrNotFound
}

func (m *memMenu) Create(_ context.Context, it menu.Item) (menu.Item, error) {
	if err := it.Validate(); err != nil {
		return menu.Item{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = fmt.Sprintf("m-%d", len(m.items)+1)
	m.items = append(m.items, it)
	return it, nil
}

func (m *memMenu) Update(_ context.Context, id string, it menu.Item) (menu.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			it.ID = id
			m.items[i] = it
			return it, nil
		}
	}
	return menu.Item{}, menu.ErrNotFound
}

func (m *memMenu) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return menu.ErrNotFound
}

// --- publications ---

type memPublications struct {
	mu    sync.Mutex
	items []publication.Publication
}

func (m *memPublications) List(context.Context) ([]publication.Publication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publication.Publication{}, m.items...), nil
}

func (m *memPublications) Create(_ context.Context, p publication.Publication) (publication.Publication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = fmt.Sprintf("p-%d", len(m.items)+1)
	m.items = append([]publication.Publication{p}, m.items...)
	return p, nil
}

func (m *memPublications) Update(_ context.Context, id string, p publication.Publication) (publication.Publication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			p.ID = id
			m.items[i] = p
			return p, nil
		}
	}
	return publication.Publication{}, publication.ErrNotFound
}

func (m *memPublications) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return publication.ErrNotFound
}

// --- events ---

type recordingEmitter struct {
	mu   sync.Mutex
	envs []orders.Envelope
}

func (r *recordingEmitter) Emit(_ context.Context, env orders.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envs = append(r.envs, env)
	return nil
}

func (r *recordingEmitter) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.envs {
		out = append(out, e.EventType)
	}
	return out
}

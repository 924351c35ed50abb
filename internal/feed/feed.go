package feed

import (
	"context"
	"log"
	"sync"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
)

// Feed applies envelopes to a List from a single goroutine and reports each
// change. After Close returns no further callback fires.
type Feed[T any] struct {
	mu       sync.Mutex
	list     *List[T]
	decode   Decoder[T]
	onChange func([]Entry[T])
	closed   bool
}

// New builds a feed. onChange runs with the feed locked and must not call
// back into it; it may be nil.
func New[T any](list *List[T], decode Decoder[T], onChange func([]Entry[T])) *Feed[T] {
	return &Feed[T]{list: list, decode: decode, onChange: onChange}
}

func NewOrderFeed(initial []orders.Order, onChange func([]Entry[orders.Order])) *Feed[orders.Order] {
	return New(NewList(OrderID, initial), OrderDecoder, onChange)
}

// Handle applies one envelope. Envelopes for other feeds and envelopes
// arriving after Close are ignored.
func (f *Feed[T]) Handle(env orders.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	ev, ok, err := f.decode(env)
	if err != nil || !ok {
		return err
	}
	if f.list.Apply(ev) {
		f.notify()
	}
	return nil
}

// Run consumes src until it is closed, ctx ends or the feed is closed.
// Bad envelopes are logged and skipped.
func (f *Feed[T]) Run(ctx context.Context, src <-chan orders.Envelope) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-src:
			if !ok {
				return nil
			}
			if err := f.Handle(env); err != nil {
				log.Printf("feed: skip %s %s: %v", env.EventType, env.EventID, err)
			}
			if f.isClosed() {
				return nil
			}
		}
	}
}

// Reset swaps in a fresh fetch (pull to refresh).
func (f *Feed[T]) Reset(items []T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.list.Reset(items)
	f.notify()
}

func (f *Feed[T]) MarkSeen(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed && f.list.MarkSeen(id) {
		f.notify()
	}
}

func (f *Feed[T]) Snapshot() []Entry[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list.Entries()
}

func (f *Feed[T]) CountNew() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list.CountNew()
}

func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *Feed[T]) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Feed[T]) notify() {
	if f.onChange != nil {
		f.onChange(f.list.Entries())
	}
}

// Package admin keeps a locally displayed list in step with the REST backend
// for the staff CRUD screens. Every change goes to the server first and only
// the object the server echoes back is applied locally.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ariefcatur/go-kiosk-orders/internal/menu"
	"github.com/ariefcatur/go-kiosk-orders/internal/publication"
)

var ErrNotConfirmed = errors.New("deletion not confirmed")

type Backend[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, v T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the operator before something destructive happens.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// AlwaysConfirm is for non-interactive use (scripts, --yes).
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

type Editor[T any] struct {
	mu       sync.Mutex
	items    []T
	backend  Backend[T]
	confirm  Confirmer
	id       func(T) string
	label    func(T) string
	validate func(T) error
}

func NewEditor[T any](b Backend[T], c Confirmer, id, label func(T) string, validate func(T) error) *Editor[T] {
	return &Editor[T]{backend: b, confirm: c, id: id, label: label, validate: validate}
}

func NewMenuEditor(b Backend[menu.Item], c Confirmer) *Editor[menu.Item] {
	return NewEditor(b, c,
		func(it menu.Item) string { return it.ID },
		func(it menu.Item) string { return it.Name },
		menu.Item.Validate)
}

func NewPublicationEditor(b Backend[publication.Publication], c Confirmer) *Editor[publication.Publication] {
	return NewEditor(b, c,
		func(p publication.Publication) string { return p.ID },
		func(p publication.Publication) string {
			if p.Name != "" {
				return p.Name
			}
			return p.Description
		},
		publication.Publication.Validate)
}

// Load replaces the local list with the server's.
func (e *Editor[T]) Load(ctx context.Context) error {
	items, err := e.backend.List(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.items = items
	e.mu.Unlock()
	return nil
}

func (e *Editor[T]) Items() []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]T(nil), e.items...)
}

// Create validates v, posts it and puts the echoed object at the head.
func (e *Editor[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	if err := e.validate(v); err != nil {
		return zero, err
	}
	saved, err := e.backend.Create(ctx, v)
	if err != nil {
		return zero, err
	}
	e.mu.Lock()
	e.items = append([]T{saved}, e.items...)
	e.mu.Unlock()
	return saved, nil
}

// Update validates v, sends it and replaces the local copy with the echo.
func (e *Editor[T]) Update(ctx context.Context, v T) (T, error) {
	var zero T
	if e.id(v) == "" {
		return zero, errors.New("update without id")
	}
	if err := e.validate(v); err != nil {
		return zero, err
	}
	saved, err := e.backend.Update(ctx, v)
	if err != nil {
		return zero, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.index(e.id(saved)); i >= 0 {
		e.items[i] = saved
	} else {
		e.items = append([]T{saved}, e.items...)
	}
	return saved, nil
}

// Delete asks for confirmation, then removes id on the server and locally.
// Nothing is sent when the operator declines.
func (e *Editor[T]) Delete(ctx context.Context, id string) error {
	name := id
	e.mu.Lock()
	if i := e.index(id); i >= 0 {
		name = e.label(e.items[i])
	}
	e.mu.Unlock()

	ok, err := e.confirm.Confirm(ctx, fmt.Sprintf("Delete %q?", name))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotConfirmed
	}
	if err := e.backend.Delete(ctx, id); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.index(id); i >= 0 {
		e.items = append(e.items[:i], e.items[i+1:]...)
	}
	return nil
}

func (e *Editor[T]) index(id string) int {
	for i, v := range e.items {
		if e.id(v) == id {
			return i
		}
	}
	return -1
}

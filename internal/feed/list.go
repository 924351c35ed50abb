// Package feed keeps locally displayed lists in step with lifecycle events
// pushed by the backend.
package feed

type Kind int

const (
	Created Kind = iota + 1
	Updated
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is one lifecycle change. Value is unset for Deleted.
type Event[T any] struct {
	Kind  Kind
	ID    string
	Value T
}

// Entry is a displayed element. New stays set until MarkSeen.
type Entry[T any] struct {
	Value T
	New   bool
}

// List is the reducer behind a live screen. It is not safe for concurrent
// use; Feed serializes access.
type List[T any] struct {
	id      func(T) string
	entries []Entry[T]
}

func NewList[T any](id func(T) string, initial []T) *List[T] {
	l := &List[T]{id: id}
	l.Reset(initial)
	return l
}

func (l *List[T]) index(id string) int {
	for i, e := range l.entries {
		if l.id(e.Value) == id {
			return i
		}
	}
	return -1
}

// Apply reduces ev into the list and reports whether anything changed.
//   - Created inserts at the head unless the id is already present.
//   - Updated replaces in place; unknown ids are ignored, not inserted.
//   - Deleted removes; unknown ids are a no-op.
func (l *List[T]) Apply(ev Event[T]) bool {
	i := l.index(ev.ID)
	switch ev.Kind {
	case Created:
		if i >= 0 {
			return false
		}
		l.entries = append([]Entry[T]{{Value: ev.Value, New: true}}, l.entries...)
		return true
	case Updated:
		if i < 0 {
			return false
		}
		l.entries[i].Value = ev.Value
		return true
	case Deleted:
		if i < 0 {
			return false
		}
		l.entries = append(l.entries[:i], l.entries[i+1:]...)
		return true
	default:
		return false
	}
}

// Reset replaces the contents with a fresh fetch, keeping New flags of ids
// that survive.
func (l *List[T]) Reset(items []T) {
	fresh := map[string]bool{}
	for _, e := range l.entries {
		if e.New {
			fresh[l.id(e.Value)] = true
		}
	}
	entries := make([]Entry[T], 0, len(items))
	for _, it := range items {
		entries = append(entries, Entry[T]{Value: it, New: fresh[l.id(it)]})
	}
	l.entries = entries
}

func (l *List[T]) MarkSeen(id string) bool {
	i := l.index(id)
	if i < 0 || !l.entries[i].New {
		return false
	}
	l.entries[i].New = false
	return true
}

func (l *List[T]) CountNew() int {
	n := 0
	for _, e := range l.entries {
		if e.New {
			n++
		}
	}
	return n
}

func (l *List[T]) Len() int { return len(l.entries) }

// Entries returns a copy in display order.
func (l *List[T]) Entries() []Entry[T] {
	return append([]Entry[T](nil), l.entries...)
}

func (l *List[T]) Values() []T {
	out := make([]T, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.Value)
	}
	return out
}

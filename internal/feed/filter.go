package feed

import (
	"fmt"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
)

type Filter string

const (
	FilterAll     Filter = "all"
	FilterNew     Filter = "new"
	FilterPending Filter = "pending"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterAll, FilterNew, FilterPending:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("unknown filter %q (all, new or pending)", s)
	}
}

func OrderID(o orders.Order) string { return o.ID }

// FilterOrders narrows the staff order view. Pending means still open.
func FilterOrders(entries []Entry[orders.Order], f Filter) []Entry[orders.Order] {
	out := make([]Entry[orders.Order], 0, len(entries))
	for _, e := range entries {
		switch f {
		case FilterNew:
			if !e.New {
				continue
			}
		case FilterPending:
			if !e.Value.Status.Open() {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// Package cart holds one kiosk ordering session: the selected lines, the
// local notices shown to the customer and the checkout that turns the lines
// into a receipt.
package cart

import (
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/menu"
)

type Line struct {
	Item menu.Item `json:"item"`
	Qty  int       `json:"qty"`
}

func (l Line) Subtotal() int64 { return l.Item.Price * int64(l.Qty) }

type Notification struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Cart is safe for concurrent use. At most one checkout runs at a time.
type Cart struct {
	mu      sync.Mutex
	lines   []Line
	notes   []Notification
	pending bool
	// attempt is the external id reused by retries of the same cart content
	attempt string

	submit  Submitter
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Cart)

// WithTimeout caps how long Checkout waits for the submitter.
func WithTimeout(d time.Duration) Option { return func(c *Cart) { c.timeout = d } }

func New(submit Submitter, opts ...Option) *Cart {
	c := &Cart{submit: submit, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AddItem increments the line for item or appends a new one with qty 1.
func (c *Cart) AddItem(item menu.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempt = ""
	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Qty++
	} else {
		c.lines = append(c.lines, Line{Item: item, Qty: 1})
	}
	c.notify("Added: " + item.Name)
}

// SetQuantity moves a line's quantity by delta and removes the line when the
// result would be zero or less. Unknown ids are ignored.
func (c *Cart) SetQuantity(itemID string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(itemID)
	if i < 0 || delta == 0 {
		return
	}
	c.attempt = ""
	if q := c.lines[i].Qty + delta; q > 0 {
		c.lines[i].Qty = q
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return total(c.lines)
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

// Len is the number of distinct items, not the summed quantity.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) Quantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

// Notifications returns newest first.
func (c *Cart) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.notes...)
}

func (c *Cart) ClearNotifications() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = nil
}

func (c *Cart) index(id string) int {
	for i, l := range c.lines {
		if l.Item.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) notify(msg string) {
	c.notes = append([]Notification{{Message: msg, At: c.now()}}, c.notes...)
}

func (c *Cart) notifyf(format string, args ...any) { c.notify(fmt.Sprintf(format, args...)) }

func total(lines []Line) int64 {
	var t int64
	for _, l := range lines {
		t += l.Subtotal()
	}
	return t
}

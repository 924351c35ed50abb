package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentMobileMoney PaymentMethod = "mobile_money"
)

// PaymentMethodTag is the validator tag accepted for a payment method.
const PaymentMethodTag = "required,oneof=cash card mobile_money"

// InitialStatus: cash is settled at the counter, everything else at the kiosk.
func (m PaymentMethod) InitialStatus() Status {
	if m == PaymentCash {
		return StatusPending
	}
	return StatusPaid
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCard:
		return "Card"
	case PaymentMobileMoney:
		return "Mobile Money"
	default:
		return string(m)
	}
}

// Line is a value copy of a menu item taken when the order was placed.
type Line struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	Qty        int    `json:"qty"`
}

func (l Line) Subtotal() int64 { return l.UnitPrice * int64(l.Qty) }

// Order doubles as the receipt handed back to the kiosk.
type Order struct {
	ID            string        `json:"id"`
	ExternalID    string        `json:"external_id,omitempty"`
	TableID       string        `json:"table_id"`
	Lines         []Line        `json:"lines"`
	Total         int64         `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at,omitzero"`
}

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

func SumLines(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// Summary renders a plain-text receipt suitable for sharing.
func (o Order) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Receipt: %s\n", o.ID)
	fmt.Fprintf(&b, "Date: %s\n", o.CreatedAt.Format("2006-01-02 15:04"))
	if o.TableID != "" {
		fmt.Fprintf(&b, "Table: %s\n", o.TableID)
	}
	fmt.Fprintf(&b, "Method: %s\n", o.PaymentMethod.Label())
	fmt.Fprintf(&b, "Amount: %d Ar\n\nItems:\n", o.Total)
	for _, l := range o.Lines {
		fmt.Fprintf(&b, "- %s x%d (%d Ar)\n", l.Name, l.Qty, l.Subtotal())
	}
	return b.String()
}

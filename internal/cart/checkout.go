package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/ariefcatur/go-kiosk-orders/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingTable       = errors.New("no table selected")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrPriceChanged       = errors.New("price changed")
)

// Submitter hands a frozen order to whoever accepts payment and returns the
// accepted receipt. The draft carries no ID; the receipt must.
type Submitter interface {
	SubmitOrder(ctx context.Context, draft orders.Order) (orders.Order, error)
}

// OrderSubmissionError means the order was not accepted. Reason is the
// server's message when one was given.
type OrderSubmissionError struct {
	Reason string
	Err    error
}

func (e *OrderSubmissionError) Error() string {
	return "order submission failed: " + e.Reason
}

func (e *OrderSubmissionError) Unwrap() error { return e.Err }

// Checkout submits the current lines for tableID. The ordered quantities
// leave the cart only when the submitter accepts the order at the cart's
// total; on any error the cart is left as it was.
func (c *Cart) Checkout(ctx context.Context, method orders.PaymentMethod, tableID string) (orders.Order, error) {
	c.mu.Lock()
	if len(c.lines) == 0 {
		c.mu.Unlock()
		return orders.Order{}, ErrEmptyCart
	}
	if tableID == "" {
		c.mu.Unlock()
		return orders.Order{}, ErrMissingTable
	}
	if err := validation.Var("payment_method", string(method), orders.PaymentMethodTag); err != nil {
		c.mu.Unlock()
		return orders.Order{}, err
	}
	if c.pending {
		c.mu.Unlock()
		return orders.Order{}, ErrCheckoutInProgress
	}
	if c.attempt == "" {
		c.attempt = uuid.NewString()
	}
	draft := c.draft(method, tableID)
	c.pending = true
	c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	receipt, err := c.submit.SubmitOrder(ctx, draft)
	if err == nil && receipt.ID == "" {
		err = errors.New("receipt without id")
	}
	if err == nil && receipt.Total != draft.Total {
		err = fmt.Errorf("%w: expected %d Ar, receipt says %d Ar", ErrPriceChanged, draft.Total, receipt.Total)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	if err != nil {
		return orders.Order{}, &OrderSubmissionError{Reason: reason(err), Err: err}
	}
	c.remove(draft.Lines)
	c.attempt = ""
	c.notifyf("Payment confirmed (%s) - %d Ar", method.Label(), receipt.Total)
	return receipt, nil
}

// draft freezes names and prices so later menu edits cannot touch the receipt.
func (c *Cart) draft(method orders.PaymentMethod, tableID string) orders.Order {
	lines := make([]orders.Line, 0, len(c.lines))
	for _, l := range c.lines {
		lines = append(lines, orders.Line{
			MenuItemID: l.Item.ID,
			Name:       l.Item.Name,
			UnitPrice:  l.Item.Price,
			Qty:        l.Qty,
		})
	}
	return orders.Order{
		ExternalID:    c.attempt,
		TableID:       tableID,
		Lines:         lines,
		Total:         orders.SumLines(lines),
		PaymentMethod: method,
		Status:        method.InitialStatus(),
		CreatedAt:     c.now().UTC(),
	}
}

// remove takes the ordered quantities out of the cart. Lines added while the
// order was in flight stay for the next checkout.
func (c *Cart) remove(ordered []orders.Line) {
	for _, o := range ordered {
		i := c.index(o.MenuItemID)
		if i < 0 {
			continue
		}
		if q := c.lines[i].Qty - o.Qty; q > 0 {
			c.lines[i].Qty = q
			continue
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func reason(err error) string {
	var r interface{ Reason() string }
	if errors.As(err, &r) && r.Reason() != "" {
		return r.Reason()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "payment timed out"
	}
	if errors.Is(err, ErrPriceChanged) {
		return "prices changed, please review your cart"
	}
	return fmt.Sprint(err)
}

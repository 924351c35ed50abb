package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/google/uuid"
)

// SubmitOrder posts the draft's items with the prices the customer saw and
// returns the order as the server stored it. The server refuses the order
// when its prices differ. The draft's external id makes retries safe; one is
// generated when missing.
func (c *Client) SubmitOrder(ctx context.Context, draft orders.Order) (orders.Order, error) {
	in := orders.CreateInput{
		ExternalID:    draft.ExternalID,
		TableID:       draft.TableID,
		PaymentMethod: draft.PaymentMethod,
		Items:         make([]orders.ItemInput, 0, len(draft.Lines)),
		ExpectedTotal: orders.SumLines(draft.Lines),
	}
	if in.ExternalID == "" {
		in.ExternalID = uuid.NewString()
	}
	for _, l := range draft.Lines {
		in.Items = append(in.Items, orders.ItemInput{MenuItemID: l.MenuItemID, Qty: l.Qty, UnitPrice: l.UnitPrice})
	}
	var out orders.Order
	err := c.do(ctx, http.MethodPost, "/orders", in, &out)
	return out, err
}

func (c *Client) ListOrders(ctx context.Context, limit int) ([]orders.Order, error) {
	path := "/orders"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	out := []orders.Order{}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id string) (orders.Order, error) {
	var out orders.Order
	err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status orders.Status) (orders.Order, error) {
	var out orders.Order
	body := map[string]orders.Status{"status": status}
	err := c.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id)+"/status", body, &out)
	return out, err
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(id), nil, nil)
}

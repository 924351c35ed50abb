package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ariefcatur/go-kiosk-orders/internal/menu"
)

// ListMenu accepts any of the payload shapes menu.Normalize understands.
func (c *Client) ListMenu(ctx context.Context) ([]menu.Item, error) {
	raw, err := c.raw(ctx, http.MethodGet, "/menu", nil)
	if err != nil {
		return nil, err
	}
	return menu.Normalize(raw)
}

func (c *Client) CreateMenuItem(ctx context.Context, it menu.Item) (menu.Item, error) {
	var out menu.Item
	err := c.do(ctx, http.MethodPost, "/menu", it, &out)
	return out, err
}

func (c *Client) UpdateMenuItem(ctx context.Context, it menu.Item) (menu.Item, error) {
	if it.ID == "" {
		return menu.Item{}, fmt.Errorf("update menu item: missing id")
	}
	var out menu.Item
	err := c.do(ctx, http.MethodPut, "/menu/"+url.PathEscape(it.ID), it, &out)
	return out, err
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/menu/"+url.PathEscape(id), nil, nil)
}

// MenuAPI adapts Client to the admin editor's backend.
type MenuAPI struct{ C *Client }

func (a MenuAPI) List(ctx context.Context) ([]menu.Item, error) { return a.C.ListMenu(ctx) }
func (a MenuAPI) Create(ctx context.Context, it menu.Item) (menu.Item, error) {
	return a.C.CreateMenuItem(ctx, it)
}
func (a MenuAPI) Update(ctx context.Context, it menu.Item) (menu.Item, error) {
	return a.C.UpdateMenuItem(ctx, it)
}
func (a MenuAPI) Delete(ctx context.Context, id string) error { return a.C.DeleteMenuItem(ctx, id) }

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ariefcatur/go-kiosk-orders/internal/publication"
)

func (c *Client) ListPublications(ctx context.Context) ([]publication.Publication, error) {
	out := []publication.Publication{}
	err := c.do(ctx, http.MethodGet, "/publications", nil, &out)
	return out, err
}

func (c *Client) CreatePublication(ctx context.Context, p publication.Publication) (publication.Publication, error) {
	var out publication.Publication
	err := c.do(ctx, http.MethodPost, "/publications", p, &out)
	return out, err
}

func (c *Client) UpdatePublication(ctx context.Context, p publication.Publication) (publication.Publication, error) {
	if p.ID == "" {
		return publication.Publication{}, fmt.Errorf("update publication: missing id")
	}
	var out publication.Publication
	err := c.do(ctx, http.MethodPut, "/publications/"+url.PathEscape(p.ID), p, &out)
	return out, err
}

func (c *Client) DeletePublication(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/publications/"+url.PathEscape(id), nil, nil)
}

type PublicationAPI struct{ C *Client }

func (a PublicationAPI) List(ctx context.Context) ([]publication.Publication, error) {
	return a.C.ListPublications(ctx)
}
func (a PublicationAPI) Create(ctx context.Context, p publication.Publication) (publication.Publication, error) {
	return a.C.CreatePublication(ctx, p)
}
func (a PublicationAPI) Update(ctx context.Context, p publication.Publication) (publication.Publication, error) {
	return a.C.UpdatePublication(ctx, p)
}
func (a PublicationAPI) Delete(ctx context.Context, id string) error {
	return a.C.DeletePublication(ctx, id)
}

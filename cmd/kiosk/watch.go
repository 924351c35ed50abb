package main

import (
	"context"
	"errors"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/feed"
	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/spf13/cobra"
)

const paymentDelay = 2 * time.Second

func newWatchCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow orders live (staff screen)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			api := a.client(false)
			view, err := feed.ParseFilter(filter)
			if err != nil {
				return err
			}

			conn, initial, err := subscribe(ctx, a.cfg.Kiosk.APIURL, api.ListOrders)
			if err != nil {
				return err
			}

			f := feed.NewOrderFeed(initial, func(entries []feed.Entry[orders.Order]) {
				redraw(a, entries, view)
			})
			redraw(a, f.Snapshot(), view)

			err = feed.Watch(ctx, conn, f)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err == nil {
				a.printf("server closed the live feed\n")
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(feed.FilterAll), "all, new or pending")
	return cmd
}

// subscribe opens the live channel before taking the snapshot. An order
// placed in between then shows up on the channel, and a create for an order
// already in the snapshot is a no-op.
func subscribe(ctx context.Context, apiURL string, list func(context.Context, int) ([]orders.Order, error)) (*feed.Conn, []orders.Order, error) {
	conn, err := feed.Dial(ctx, feed.URLFor(apiURL), nil)
	if err != nil {
		return nil, nil, err
	}
	initial, err := list(ctx, 100)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, initial, nil
}

func redraw(a *app, entries []feed.Entry[orders.Order], filter feed.Filter) {
	n := 0
	for _, e := range entries {
		if e.New {
			n++
		}
	}
	a.printf("\n== %s  %d orders, %d new ==\n", time.Now().Format("15:04:05"), len(entries), n)
	printOrders(a, feed.FilterOrders(entries, filter))
}

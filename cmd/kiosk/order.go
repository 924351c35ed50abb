package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ariefcatur/go-kiosk-orders/internal/cart"
	"github.com/ariefcatur/go-kiosk-orders/internal/feed"
	"github.com/ariefcatur/go-kiosk-orders/internal/menu"
	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/ariefcatur/go-kiosk-orders/internal/table"
	"github.com/spf13/cobra"
)

// parseItem reads "id" or "id:qty".
func parseItem(s string) (string, int, error) {
	id, qty, found := strings.Cut(s, ":")
	if id == "" {
		return "", 0, fmt.Errorf("bad item %q", s)
	}
	if !found {
		return id, 1, nil
	}
	n, err := strconv.Atoi(qty)
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("bad quantity in %q", s)
	}
	return id, n, nil
}

// fillCart adds each requested item to c, looking it up in the menu.
func fillCart(c *cart.Cart, items []menu.Item, specs []string) error {
	byID := make(map[string]menu.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for _, s := range specs {
		id, qty, err := parseItem(s)
		if err != nil {
			return err
		}
		it, ok := byID[id]
		if !ok {
			return fmt.Errorf("no menu item %q", id)
		}
		for range qty {
			c.AddItem(it)
		}
	}
	return nil
}

func newOrderCmd(a *app) *cobra.Command {
	var (
		specs  []string
		method string
		tableF string
	)
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Build a cart and pay for it",
		Example: "  kiosk order --item pizza:2 --item soda --method cash\n" +
			"  kiosk order -i 7 -m mobile_money --table 4",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			api := a.client(false)

			tableID, err := resolveTable(ctx, a, tableF)
			if err != nil {
				return err
			}
			items, err := api.ListMenu(ctx)
			if err != nil {
				return err
			}

			var submit cart.Submitter = api
			if a.cfg.Kiosk.SimulatePayment {
				submit = &cart.SimulatedSubmitter{Delay: paymentDelay}
			}
			c := cart.New(submit, cart.WithTimeout(a.cfg.Kiosk.CheckoutTimeout))
			if err := fillCart(c, items, specs); err != nil {
				return err
			}

			a.printf("Cart (%d items):\n", c.Quantity())
			for _, l := range c.Lines() {
				a.printf("  %s x%d  %d Ar\n", l.Item.Name, l.Qty, l.Subtotal())
			}
			a.printf("Total: %d Ar\n\nProcessing payment...\n", c.Total())

			receipt, err := c.Checkout(ctx, orders.PaymentMethod(method), tableID)
			if err != nil {
				return err
			}
			for _, n := range c.Notifications() {
				a.printf("[%s] %s\n", n.At.Format("15:04:05"), n.Message)
			}
			a.printf("\n%s", receipt.Summary())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&specs, "item", "i", nil, "menu item id, optionally with :qty (repeatable)")
	cmd.Flags().StringVarP(&method, "method", "m", string(orders.PaymentCash), "cash, card or mobile_money")
	cmd.Flags().StringVar(&tableF, "table", "", "table id (defaults to the saved one)")
	return cmd
}

func resolveTable(ctx context.Context, a *app, flag string) (string, error) {
	if flag != "" {
		return table.Normalize(flag)
	}
	store, done, err := a.tables()
	if err != nil {
		return "", err
	}
	defer done()
	id, err := store.Get(ctx)
	if errors.Is(err, table.ErrNotSelected) {
		return "", cart.ErrMissingTable
	}
	return id, err
}

func newOrdersCmd(a *app) *cobra.Command {
	var filter string
	var limit int
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List recent orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := feed.ParseFilter(filter)
			if err != nil {
				return err
			}
			list, err := a.client(false).ListOrders(cmd.Context(), limit)
			if err != nil {
				return err
			}
			// a one-shot listing has nothing "new" in it
			entries := feed.NewList(feed.OrderID, list).Entries()
			printOrders(a, feed.FilterOrders(entries, f))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(feed.FilterAll), "all, new or pending")
	cmd.Flags().IntVar(&limit, "limit", 50, "how many orders to fetch")
	return cmd
}

func printOrders(a *app, entries []feed.Entry[orders.Order]) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, " \tID\tTABLE\tSTATUS\tMETHOD\tTOTAL\tAT")
	for _, e := range entries {
		o := e.Value
		mark := " "
		if e.New {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d Ar\t%s\n",
			mark, o.ID, o.TableID, o.Status, o.PaymentMethod.Label(), o.Total, o.CreatedAt.Local().Format("15:04"))
	}
	_ = w.Flush()
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order along (in_progress, ready, paid, delivered, cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.client(false).UpdateOrderStatus(cmd.Context(), args[0], orders.Status(args[1]))
			if err != nil {
				return err
			}
			a.printf("order %s is now %s\n", o.ID, o.Status)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/ariefcatur/go-kiosk-orders/internal/menu"
	"github.com/ariefcatur/go-kiosk-orders/internal/publication"
	"github.com/spf13/cobra"
)

func newMenuCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the menu, optionally for one category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.client(false).ListMenu(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("categories: %v\n\n", menu.Categories(items))
			printMenu(a, menu.FilterByCategory(items, category))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", menu.AllCategories, "category to show")
	return cmd
}

func printMenu(a *app, items []menu.Item) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%d Ar\t%s\n", it.ID, it.Name, it.Price, it.DisplayCategory())
	}
	_ = w.Flush()
}

func newPublicationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "publications",
		Aliases: []string{"promos"},
		Short:   "List current promotions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps, err := a.client(false).ListPublications(cmd.Context())
			if err != nil {
				return err
			}
			printPublications(a, ps)
			return nil
		},
	}
}

func printPublications(a *app, ps []publication.Publication) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESCRIPTION\tPROMO\tWAS\tOFF")
	for _, p := range ps {
		was, off := "-", "-"
		if p.Price != nil {
			was = fmt.Sprintf("%d Ar", *p.Price)
		}
		if d := p.Discount(); d > 0 {
			off = fmt.Sprintf("-%d%%", d)
		}
		fmt.Fprintf(w, "%s\t%s\t%d Ar\t%s\t%s\n", p.ID, p.Description, p.PromoPrice, was, off)
	}
	_ = w.Flush()
}

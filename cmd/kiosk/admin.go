package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-kiosk-orders/internal/admin"
	"github.com/ariefcatur/go-kiosk-orders/internal/client"
	"github.com/ariefcatur/go-kiosk-orders/internal/menu"
	"github.com/ariefcatur/go-kiosk-orders/internal/publication"
	"github.com/spf13/cobra"
)

// promptConfirmer asks on the terminal; anything but y/yes declines.
func promptConfirmer(a *app) admin.ConfirmFunc {
	return func(_ context.Context, prompt string) (bool, error) {
		a.printf("%s [y/N] ", prompt)
		line, err := bufio.NewReader(a.in).ReadString('\n')
		if err != nil && line == "" {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "o", "oui":
			return true, nil
		}
		return false, nil
	}
}

func confirmer(a *app, yes bool) admin.Confirmer {
	if yes {
		return admin.AlwaysConfirm
	}
	return promptConfirmer(a)
}

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Edit the menu and promotions (needs KIOSK_ADMIN_PASSWORD)",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if a.cfg.Kiosk.AdminPassword == "" {
				return errors.New("KIOSK_ADMIN_PASSWORD is not set")
			}
			return nil
		},
	}
	cmd.AddCommand(newAdminMenuCmd(a), newAdminPublicationCmd(a), newAdminDeleteOrderCmd(a))
	return cmd
}

type menuFlags struct {
	name, description, category, image string
	price                              int64
}

func (f *menuFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().Int64Var(&f.price, "price", 0, "price in Ariary")
	cmd.Flags().StringVar(&f.description, "description", "", "optional description")
	cmd.Flags().StringVar(&f.category, "category", "", "optional category")
	cmd.Flags().StringVar(&f.image, "image", "", "optional image reference")
}

// apply overwrites the fields whose flags were given.
func (f *menuFlags) apply(cmd *cobra.Command, it *menu.Item) {
	set := cmd.Flags().Changed
	if set("name") {
		it.Name = f.name
	}
	if set("price") {
		it.Price = f.price
	}
	if set("description") {
		it.Description = f.description
	}
	if set("category") {
		it.Category = f.category
	}
	if set("image") {
		it.Image = f.image
	}
}

func findByID[T any](items []T, id string, key func(T) string) (T, bool) {
	for _, v := range items {
		if key(v) == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func newAdminMenuCmd(a *app) *cobra.Command {
	var yes bool
	editor := func(cmd *cobra.Command) (*admin.Editor[menu.Item], error) {
		e := admin.NewMenuEditor(client.MenuAPI{C: a.client(true)}, confirmer(a, yes))
		return e, e.Load(cmd.Context())
	}

	cmd := &cobra.Command{Use: "menu", Short: "Manage menu items"}
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "do not ask before deleting")

	var addF menuFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a menu item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := editor(cmd)
			if err != nil {
				return err
			}
			var it menu.Item
			addF.apply(cmd, &it)
			saved, err := e.Create(cmd.Context(), it)
			if err != nil {
				return err
			}
			a.printf("created %s (%s)\n", saved.Name, saved.ID)
			return nil
		},
	}
	addF.bind(add)

	var updF menuFlags
	upd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a menu item; only the given flags are modified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := editor(cmd)
			if err != nil {
				return err
			}
			it, ok := findByID(e.Items(), args[0], func(it menu.Item) string { return it.ID })
			if !ok {
				return fmt.Errorf("no menu item %q", args[0])
			}
			updF.apply(cmd, &it)
			saved, err := e.Update(cmd.Context(), it)
			if err != nil {
				return err
			}
			a.printf("updated %s (%s)\n", saved.Name, saved.ID)
			return nil
		},
	}
	updF.bind(upd)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := editor(cmd)
			if err != nil {
				return err
			}
			if err := e.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, admin.ErrNotConfirmed) {
					a.printf("kept\n")
					return nil
				}
				return err
			}
			a.printf("deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, upd, del)
	return cmd
}

type publicationFlags struct {
	name, description, image string
	price, promo             int64
}

func (f *publicationFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "optional title")
	cmd.Flags().StringVar(&f.description, "description", "", "what is on offer")
	cmd.Flags().Int64Var(&f.price, "price", 0, "original price in Ariary (optional)")
	cmd.Flags().Int64Var(&f.promo, "promo-price", 0, "promotional price in Ariary")
	cmd.Flags().StringVar(&f.image, "image", "", "optional image reference")
}

func (f *publicationFlags) apply(cmd *cobra.Command, p *publication.Publication) {
	set := cmd.Flags().Changed
	if set("name") {
		p.Name = f.name
	}
	if set("description") {
		p.Description = f.description
	}
	if set("price") {
		price := f.price
		p.Price = &price
	}
	if set("promo-price") {
		p.PromoPrice = f.promo
	}
	if set("image") {
		p.Image = f.image
	}
}

func newAdminPublicationCmd(a *app) *cobra.Command {
	var yes bool
	editor := func(cmd *cobra.Command) (*admin.Editor[publication.Publication], error) {
		e := admin.NewPublicationEditor(client.PublicationAPI{C: a.client(true)}, confirmer(a, yes))
		return e, e.Load(cmd.Context())
	}

	cmd := &cobra.Command{Use: "publication", Aliases: []string{"promo"}, Short: "Manage promotions"}
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "do not ask before deleting")

	var addF publicationFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a promotion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := editor(cmd)
			if err != nil {
				return err
			}
			var p publication.Publication
			addF.apply(cmd, &p)
			saved, err := e.Create(cmd.Context(), p)
			if err != nil {
				return err
			}
			a.printf("created promotion %s\n", saved.ID)
			return nil
		},
	}
	addF.bind(add)

	var updF publicationFlags
	upd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a promotion; only the given flags are modified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := editor(cmd)
			if err != nil {
				return err
			}
			p, ok := findByID(e.Items(), args[0], func(p publication.Publication) string { return p.ID })
			if !ok {
				return fmt.Errorf("no promotion %q", args[0])
			}
			updF.apply(cmd, &p)
			saved, err := e.Update(cmd.Context(), p)
			if err != nil {
				return err
			}
			a.printf("updated promotion %s\n", saved.ID)
			return nil
		},
	}
	updF.bind(upd)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a promotion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := editor(cmd)
			if err != nil {
				return err
			}
			if err := e.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, admin.ErrNotConfirmed) {
					a.printf("kept\n")
					return nil
				}
				return err
			}
			a.printf("deleted promotion %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, upd, del)
	return cmd
}

func newAdminDeleteOrderCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-order <id>",
		Short: "Remove an order for good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmer(a, yes).Confirm(cmd.Context(), fmt.Sprintf("Delete order %q?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				a.printf("kept\n")
				return nil
			}
			if err := a.client(true).DeleteOrder(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("deleted order %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask")
	return cmd
}

package main

import (
	"errors"

	"github.com/ariefcatur/go-kiosk-orders/internal/table"
	"github.com/spf13/cobra"
)

func newTableCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Show or change the table this kiosk serves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, done, err := a.tables()
			if err != nil {
				return err
			}
			defer done()
			id, err := store.Get(cmd.Context())
			if errors.Is(err, table.ErrNotSelected) {
				a.printf("no table selected\n")
				return nil
			}
			if err != nil {
				return err
			}
			a.printf("table %s\n", id)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <table-id>",
		Short: "Remember the table for this kiosk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, done, err := a.tables()
			if err != nil {
				return err
			}
			defer done()
			if err := store.Set(cmd.Context(), args[0]); err != nil {
				return err
			}
			id, err := store.Get(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("table %s saved\n", id)
			return nil
		},
	}, &cobra.Command{
		Use:   "clear",
		Short: "Forget the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, done, err := a.tables()
			if err != nil {
				return err
			}
			defer done()
			return store.Clear(cmd.Context())
		},
	})
	return cmd
}

// Command kiosk is the kiosk and staff front end: pick a table, browse the
// menu, check out, follow orders live and edit the catalogue.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-kiosk-orders/internal/client"
	"github.com/ariefcatur/go-kiosk-orders/internal/config"
	"github.com/ariefcatur/go-kiosk-orders/internal/redisx"
	"github.com/ariefcatur/go-kiosk-orders/internal/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type app struct {
	cfg        config.Config
	tableStore string
	out        io.Writer
	in         io.Reader
}

func (a *app) client(admin bool) *client.Client {
	opts := []client.Option{}
	if admin {
		opts = append(opts, client.WithBasicAuth(a.cfg.Kiosk.AdminUser, a.cfg.Kiosk.AdminPassword))
	}
	return client.New(a.cfg.Kiosk.APIURL, opts...)
}

// tables returns the table store and a cleanup func.
func (a *app) tables() (table.Store, func(), error) {
	switch a.tableStore {
	case "file":
		return table.NewFileStore(a.cfg.Kiosk.StateDir), func() {}, nil
	case "redis":
		rdb := redisx.New(a.cfg.RedisAddr)
		return table.NewRedisStore(rdb, a.cfg.Kiosk.DeviceID), func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown table store %q (file or redis)", a.tableStore)
	}
}

func (a *app) printf(format string, args ...any) { fmt.Fprintf(a.out, format, args...) }

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "kiosk",
		Short:         "Restaurant kiosk: table, menu, checkout, live orders and admin",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.cfg.Kiosk.APIURL, "api", a.cfg.Kiosk.APIURL, "API base URL")
	root.PersistentFlags().StringVar(&a.cfg.Kiosk.StateDir, "state-dir", a.cfg.Kiosk.StateDir, "where the kiosk keeps its table id")
	root.PersistentFlags().StringVar(&a.tableStore, "table-store", "file", "file or redis")
	root.PersistentFlags().StringVar(&a.cfg.Kiosk.DeviceID, "device", a.cfg.Kiosk.DeviceID, "device id for the redis table store")

	root.AddCommand(
		newTableCmd(a),
		newMenuCmd(a),
		newPublicationsCmd(a),
		newOrderCmd(a),
		newOrdersCmd(a),
		newStatusCmd(a),
		newWatchCmd(a),
		newAdminCmd(a),
	)
	return root
}

func main() {
	_ = godotenv.Load()
	a := &app{cfg: config.Load(), out: os.Stdout, in: os.Stdin}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		log.SetFlags(0)
		log.Fatalf("kiosk: %v", err)
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/client"
	"github.com/ariefcatur/go-kiosk-orders/internal/config"
	"github.com/ariefcatur/go-kiosk-orders/internal/feed"
	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/menu":
		_, _ = w.Write([]byte(`{"menu":[
			{"id":"pizza","name":"Pizza","price":1000,"category":"Plats"},
			{"id":"soda","nom":"Soda","prix":500,"category":"Boissons"}]}`))
	case r.Method == http.MethodPost && r.URL.Path == "/orders":
		var in orders.CreateInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		prices := map[string]int64{"pizza": 1000, "soda": 500}
		o := orders.Order{ID: "srv-9", ExternalID: in.ExternalID, TableID: in.TableID,
			PaymentMethod: in.PaymentMethod, Status: in.PaymentMethod.InitialStatus()}
		for _, it := range in.Items {
			o.Lines = append(o.Lines, orders.Line{MenuItemID: it.MenuItemID, Name: it.MenuItemID, UnitPrice: prices[it.MenuItemID], Qty: it.Qty})
		}
		o.Total = orders.SumLines(o.Lines)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(o)
	case r.Method == http.MethodGet && r.URL.Path == "/orders":
		_ = json.NewEncoder(w).Encode([]orders.Order{
			{ID: "o-2", TableID: "1", Status: orders.StatusDelivered, PaymentMethod: orders.PaymentCard},
			{ID: "o-1", TableID: "4", Status: orders.StatusPending, PaymentMethod: orders.PaymentCash},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func run(t *testing.T, apiURL, stateDir, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{
		cfg: config.Config{Kiosk: config.KioskConfig{
			APIURL:        apiURL,
			StateDir:      stateDir,
			AdminUser:     "admin",
			AdminPassword: "secret",
		}},
		out: &out,
		in:  strings.NewReader(stdin),
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseItem(t *testing.T) {
	id, qty, err := parseItem("pizza:3")
	require.NoError(t, err)
	assert.Equal(t, "pizza", id)
	assert.Equal(t, 3, qty)

	id, qty, err = parseItem("soda")
	require.NoError(t, err)
	assert.Equal(t, "soda", id)
	assert.Equal(t, 1, qty)

	for _, bad := range []string{"", ":2", "pizza:0", "pizza:x"} {
		_, _, err := parseItem(bad)
		assert.Error(t, err, bad)
	}
}

func TestOrder_NeedsTable(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	_, err := run(t, srv.URL, t.TempDir(), "", "order", "--item", "pizza")
	assert.ErrorContains(t, err, "no table selected")
	assert.Empty(t, api.Calls())
}

func TestTableThenOrder(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()
	dir := t.TempDir()

	out, err := run(t, srv.URL, dir, "", "table", "set", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "table 4 saved")

	out, err = run(t, srv.URL, dir, "", "order", "-i", "pizza:2", "-i", "soda", "-m", "cash")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 2500 Ar")
	assert.Contains(t, out, "Payment confirmed (Cash) - 2500 Ar")
	assert.Contains(t, out, "Receipt: srv-9")
	assert.Contains(t, out, "Table: 4")
	assert.Equal(t, []string{"GET /menu", "POST /orders"}, api.Calls())
}

func TestOrder_UnknownItem(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	_, err := run(t, srv.URL, t.TempDir(), "", "order", "--table", "2", "-i", "ghost")
	assert.ErrorContains(t, err, `no menu item "ghost"`)
}

func TestMenuByCategory(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	out, err := run(t, srv.URL, t.TempDir(), "", "menu", "-c", "Boissons")
	require.NoError(t, err)
	assert.Contains(t, out, "[Tout Plats Boissons]")
	assert.Contains(t, out, "Soda")
	assert.NotContains(t, out, "Pizza")
}

func TestOrdersPendingFilter(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	out, err := run(t, srv.URL, t.TempDir(), "", "orders", "-f", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "o-1")
	assert.NotContains(t, out, "o-2")

	_, err = run(t, srv.URL, t.TempDir(), "", "orders", "-f", "bogus")
	assert.Error(t, err)
}

func TestAdminDeleteDeclined(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, err := run(t, srv.URL, t.TempDir(), "n\n", "admin", "menu", "delete", "pizza")
	require.NoError(t, err)
	assert.Contains(t, out, `Delete "Pizza"? [y/N]`)
	assert.Contains(t, out, "kept")
	assert.Equal(t, []string{"GET /menu"}, api.Calls())
}

func TestSubscribe_OrderPlacedDuringSnapshotIsDelivered(t *testing.T) {
	hub := feed.NewHub()
	defer hub.Close()
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		// an order lands after the feed is open but before the snapshot is read
		env, err := orders.NewEnvelope(orders.EventOrderCreated, "kiosk-api", "", "o-late",
			orders.Order{ID: "o-late", TableID: "2", Status: orders.StatusPending})
		assert.NoError(t, err)
		assert.NoError(t, hub.Emit(r.Context(), env))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	conn, initial, err := subscribe(ctx, srv.URL, client.New(srv.URL).ListOrders)
	require.NoError(t, err)
	defer conn.Close()
	assert.Empty(t, initial)

	f := feed.NewOrderFeed(initial, nil)
	defer f.Close()
	select {
	case env := <-conn.Envelopes():
		require.NoError(t, f.Handle(env))
	case <-time.After(2 * time.Second):
		t.Fatal("order created during the snapshot was lost")
	}
	snap := f.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "o-late", snap[0].Value.ID)
}

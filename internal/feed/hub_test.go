package feed

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestURLFor(t *testing.T) {
	assert.Equal(t, "ws://localhost:8081/ws", URLFor("http://localhost:8081/"))
	assert.Equal(t, "wss://api.example.com/ws", URLFor("https://api.example.com"))
}

func TestHub_BroadcastReachesDialedClient(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	ctx := context.Background()
	conn, err := Dial(ctx, URLFor(srv.URL), nil)
	require.NoError(t, err)
	defer conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 1 })

	require.NoError(t, hub.Emit(ctx, envelope(t, orders.EventOrderCreated, "o-1", order("o-1", orders.StatusPaid))))

	select {
	case env := <-conn.Envelopes():
		assert.Equal(t, orders.EventOrderCreated, env.EventType)
		assert.Equal(t, "o-1", env.CorrelationID)
	case <-time.After(2 * time.Second):
		t.Fatal("no envelope received")
	}
}

func TestHub_ClientRegisteredWhenDialReturns(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	ctx := context.Background()
	conn, err := Dial(ctx, URLFor(srv.URL), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, 1, hub.Clients())

	require.NoError(t, hub.Emit(ctx, envelope(t, orders.EventOrderCreated, "o-9", order("o-9", orders.StatusPending))))
	select {
	case env := <-conn.Envelopes():
		assert.Equal(t, "o-9", env.CorrelationID)
	case <-time.After(2 * time.Second):
		t.Fatal("no envelope received")
	}
}

func TestWatch_AppliesEventsUntilCancelled(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	conn, err := Dial(ctx, URLFor(srv.URL), nil)
	require.NoError(t, err)
	waitFor(t, func() bool { return hub.Clients() == 1 })

	f := NewOrderFeed([]orders.Order{order("old", orders.StatusReady)}, nil)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, conn, f) }()

	emit := func(eventType, id string, payload any) {
		require.NoError(t, hub.Emit(ctx, envelope(t, eventType, id, payload)))
	}
	emit(orders.EventOrderCreated, "o-1", order("o-1", orders.StatusPaid))
	emit(orders.EventOrderUpdated, "old", order("old", orders.StatusDelivered))
	emit(orders.EventOrderDeleted, "o-1", orders.DeletedPayload{ID: "o-1"})
	emit(orders.EventOrderCreated, "o-2", order("o-2", orders.StatusPending))

	waitFor(t, func() bool {
		s := f.Snapshot()
		return len(s) == 2 && s[0].Value.ID == "o-2" && s[1].Value.Status == orders.StatusDelivered
	})

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return")
	}
	waitFor(t, func() bool { return hub.Clients() == 0 })

	// closed feed ignores anything that still arrives
	require.NoError(t, f.Handle(envelope(t, orders.EventOrderCreated, "late", order("late", ""))))
	assert.Len(t, f.Snapshot(), 2)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, err := Dial(context.Background(), URLFor(srv.URL), nil)
	require.NoError(t, err)
	defer conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 1 })

	hub.Close()
	assert.Zero(t, hub.Clients())

	select {
	case _, ok := <-conn.Envelopes():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("client channel not closed")
	}
}

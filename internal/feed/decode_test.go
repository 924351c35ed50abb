package feed

import (
	"encoding/json"
	"testing"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/ariefcatur/go-kiosk-orders/internal/publication"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(t *testing.T, eventType, id string, payload any) orders.Envelope {
	t.Helper()
	env, err := orders.NewEnvelope(eventType, "test", "", id, payload)
	require.NoError(t, err)
	return env
}

func TestOrderDecoder(t *testing.T) {
	ev, ok, err := OrderDecoder(envelope(t, orders.EventOrderCreated, "o-1", order("o-1", orders.StatusPaid)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Created, ev.Kind)
	assert.Equal(t, "o-1", ev.ID)
	assert.Equal(t, orders.StatusPaid, ev.Value.Status)

	ev, ok, err = OrderDecoder(envelope(t, orders.EventOrderUpdated, "o-1", order("o-1", orders.StatusReady)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Updated, ev.Kind)

	ev, ok, err = OrderDecoder(envelope(t, orders.EventOrderDeleted, "o-1", orders.DeletedPayload{ID: "o-1"}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Deleted, ev.Kind)
	assert.Equal(t, "o-1", ev.ID)
}

func TestOrderDecoder_BareDeletedID(t *testing.T) {
	env := orders.Envelope{EventType: orders.EventOrderDeleted, Payload: json.RawMessage(`"o-9"`)}
	ev, ok, err := OrderDecoder(env)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "o-9", ev.ID)
}

func TestOrderDecoder_IgnoresOtherFeeds(t *testing.T) {
	_, ok, err := OrderDecoder(envelope(t, orders.EventPublicationCreated, "p-1", publication.Publication{ID: "p-1"}))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderDecoder_Errors(t *testing.T) {
	_, ok, err := OrderDecoder(orders.Envelope{EventType: orders.EventOrderCreated, Payload: json.RawMessage(`[`)})
	assert.True(t, ok)
	assert.Error(t, err)

	_, _, err = OrderDecoder(orders.Envelope{EventType: orders.EventOrderUpdated, Payload: json.RawMessage(`{}`)})
	assert.ErrorContains(t, err, "without id")
}

func TestOrderDecoder_FallsBackToCorrelationID(t *testing.T) {
	env := orders.Envelope{EventType: orders.EventOrderUpdated, CorrelationID: "o-5", Payload: json.RawMessage(`{"status":"ready"}`)}
	ev, _, err := OrderDecoder(env)
	require.NoError(t, err)
	assert.Equal(t, "o-5", ev.ID)
}

func TestPublicationDecoder(t *testing.T) {
	ev, ok, err := PublicationDecoder(envelope(t, orders.EventPublicationCreated, "p-1",
		publication.Publication{ID: "p-1", Description: "Promo", PromoPrice: 800}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "p-1", ev.ID)
	assert.Equal(t, int64(800), ev.Value.PromoPrice)

	_, ok, _ = PublicationDecoder(envelope(t, orders.EventOrderCreated, "o-1", order("o-1", "")))
	assert.False(t, ok)
}

package feed

import (
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/ariefcatur/go-kiosk-orders/internal/publication"
)

// Decoder maps a wire envelope to an event. ok is false for envelopes that
// belong to another feed.
type Decoder[T any] func(env orders.Envelope) (ev Event[T], ok bool, err error)

type kinds struct{ created, updated, deleted string }

func decoder[T any](k kinds, id func(T) string) Decoder[T] {
	return func(env orders.Envelope) (Event[T], bool, error) {
		var ev Event[T]
		switch env.EventType {
		case k.created, k.updated:
			if err := json.Unmarshal(env.Payload, &ev.Value); err != nil {
				return ev, true, fmt.Errorf("decode %s: %w", env.EventType, err)
			}
			ev.Kind = Created
			if env.EventType == k.updated {
				ev.Kind = Updated
			}
			ev.ID = id(ev.Value)
		case k.deleted:
			delID, err := deletedID(env.Payload)
			if err != nil {
				return ev, true, fmt.Errorf("decode %s: %w", env.EventType, err)
			}
			ev.Kind, ev.ID = Deleted, delID
		default:
			return ev, false, nil
		}
		if ev.ID == "" {
			ev.ID = env.CorrelationID
		}
		if ev.ID == "" {
			return ev, true, fmt.Errorf("%s without id", env.EventType)
		}
		return ev, true, nil
	}
}

// deletedID accepts {"id": "..."} or a bare id.
func deletedID(payload json.RawMessage) (string, error) {
	var bare string
	if err := json.Unmarshal(payload, &bare); err == nil {
		return bare, nil
	}
	var p orders.DeletedPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", err
	}
	return p.ID, nil
}

var OrderDecoder = decoder(kinds{
	created: orders.EventOrderCreated,
	updated: orders.EventOrderUpdated,
	deleted: orders.EventOrderDeleted,
}, OrderID)

func PublicationID(p publication.Publication) string { return p.ID }

var PublicationDecoder = decoder(kinds{
	created: orders.EventPublicationCreated,
	updated: orders.EventPublicationUpdated,
	deleted: orders.EventPublicationDeleted,
}, PublicationID)

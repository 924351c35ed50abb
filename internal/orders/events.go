package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderUpdated       = "OrderUpdated"
	EventOrderDeleted       = "OrderDeleted"
	EventPublicationCreated = "PublicationCreated"
	EventPublicationUpdated = "PublicationUpdated"
	EventPublicationDeleted = "PublicationDeleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g. "kiosk-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // aggregate id
	Payload       json.RawMessage `json:"payload"`
}

// Created and Updated events carry the full aggregate; Deleted carries this.
type DeletedPayload struct {
	ID string `json:"id"`
}

// NewEnvelope wraps payload for aggregate id.
func NewEnvelope(eventType, producer, traceID, id string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: id,
		Payload:       b,
	}, nil
}

// TopicFor routes an event type to its topic.
func TopicFor(eventType string) string {
	switch eventType {
	case EventPublicationCreated, EventPublicationUpdated, EventPublicationDeleted:
		return TopicPublicationEvents
	default:
		return TopicOrderEvents
	}
}

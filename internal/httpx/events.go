package httpx

import (
	"context"
	"log"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/go-chi/chi/v5/middleware"
)

// Emitter is where handlers send events: the Kafka producer, or the
// websocket hub directly when Kafka is off.
type Emitter interface {
	Emit(ctx context.Context, env orders.Envelope) error
}

// emit never fails the request; the write it reports is already committed.
func emit(ctx context.Context, sink Emitter, service, eventType, id string, payload any) {
	if sink == nil {
		return
	}
	env, err := orders.NewEnvelope(eventType, service, middleware.GetReqID(ctx), id, payload)
	if err != nil {
		log.Printf("build %s for %s: %v", eventType, id, err)
		return
	}
	if err := sink.Emit(ctx, env); err != nil {
		log.Printf("emit %s for %s: %v", eventType, id, err)
	}
}

package notify

import (
	"context"
	"fmt"
	kafkax "github.com/ariefcatur/go-kiosk-orders/internal/kafka"
	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/ariefcatur/go-kiosk-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"log"
	"strings"
)

type Sender interface {
	Send(ctx context.Context, text string) error
}

// Service tells the staff chat about new and cancelled orders.
type Service struct {
	Redis       *redis.Client
	Sender      Sender
	ServiceName string
}

// HandleOrderEvent is installed as the consumer handler for order events.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.DecodeEnvelope(m)
	if err != nil {
		// poison message: nothing a retry could fix
		log.Printf("notify: skip offset=%d: %v", m.Offset, err)
		return nil
	}

	text, err := render(env)
	if err != nil {
		log.Printf("notify: skip %s %s: %v", env.EventType, env.EventID, err)
		return nil
	}
	if text == "" {
		return nil
	}

	// dedup via Redis on event_id
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := redisx.FirstSeen(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return fmt.Errorf("dedup %s: %w", env.EventID, err)
	}
	if !first {
		return nil
	}

	if err := s.Sender.Send(ctx, text); err != nil {
		// the consumer retries the same message; the next attempt must send
		_ = s.Redis.Del(ctx, dkey).Err()
		return fmt.Errorf("send %s for %s: %w", env.EventType, env.CorrelationID, err)
	}
	return nil
}

// render returns "" for events the staff does not need to hear about.
func render(env orders.Envelope) (string, error) {
	switch env.EventType {
	case orders.EventOrderCreated:
		o, err := kafkax.UnwrapPayload[orders.Order](env.Payload)
		if err != nil {
			return "", err
		}
		return NewOrderMessage(o), nil
	case orders.EventOrderUpdated:
		o, err := kafkax.UnwrapPayload[orders.Order](env.Payload)
		if err != nil {
			return "", err
		}
		if o.Status != orders.StatusCancelled {
			return "", nil
		}
		return fmt.Sprintf("Order %s (table %s) was cancelled", o.ID, o.TableID), nil
	default:
		return "", nil
	}
}

func NewOrderMessage(o orders.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "NEW ORDER - table %s\n", o.TableID)
	fmt.Fprintf(&b, "ID: %s\n", o.ID)
	fmt.Fprintf(&b, "Status: %s\n", o.Status)
	fmt.Fprintf(&b, "%s - %d Ar\n\nItems:\n", o.PaymentMethod.Label(), o.Total)
	for i, l := range o.Lines {
		fmt.Fprintf(&b, "%d. %s x%d\n", i+1, l.Name, l.Qty)
	}
	return b.String()
}

package kafka

import (
	"context"
	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/segmentio/kafka-go"
	"log"
	"strconv"
	"sync"
	"time"
)

// Producer buffers messages in an inbox drained by one writer goroutine.
// Messages carry their own topic.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewProducer(brokers []string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchSize:              maxBatch,
			BatchTimeout:           10 * time.Millisecond,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

const maxBatch = 100

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			batch := drain(m, p.inbox, maxBatch)
			// detached from ctx so the backlog still flushes on shutdown
			wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			if err := p.w.WriteMessages(wctx, batch...); err != nil {
				log.Printf("kafka write %d messages (first topic=%s key=%s): %v", len(batch), m.Topic, m.Key, err)
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			log.Printf("kafka writer close: %v", err)
		}
	}()
}

// drain returns first plus whatever is already queued, up to limit messages,
// without waiting for more.
func drain(first kafka.Message, inbox <-chan kafka.Message, limit int) []kafka.Message {
	batch := []kafka.Message{first}
	for len(batch) < limit {
		select {
		case m, ok := <-inbox:
			if !ok {
				return batch
			}
			batch = append(batch, m)
		default:
			return batch
		}
	}
	return batch
}

// Publish enqueues a message; it is dropped once the producer is closed.
func (p *Producer) Publish(topic string, key, value []byte, headers ...kafka.Header) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		log.Printf("kafka producer closed, dropping message topic=%s key=%s", topic, key)
		return
	}
	p.inbox <- kafka.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
}

// Emit publishes an envelope on the topic for its event type.
func (p *Producer) Emit(_ context.Context, env orders.Envelope) error {
	b, err := Marshal(env)
	if err != nil {
		return err
	}
	p.Publish(orders.TopicFor(env.EventType), orders.PartitionKey(env.CorrelationID), b, EnvelopeHeaders(env)...)
	return nil
}

func EnvelopeHeaders(env orders.Envelope) []kafka.Header {
	return []kafka.Header{
		{Key: "x-event-type", Value: []byte(env.EventType)},
		{Key: "x-event-version", Value: []byte(strconv.Itoa(env.EventVersion))},
	}
}

// Close the inbox so the goroutine flushes what is left and exits.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}

// Wait until the goroutine is done.
func (p *Producer) WaitClosed() { <-p.closeCh }

package kafka

import (
	"context"
	"github.com/segmentio/kafka-go"
	"log"
	"time"
)

// Handler must return nil only when the message may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type ConsumerOptions struct {
	Group   string
	Topics  []string
	Workers int
	// FromLatest skips history when the group has no committed offset yet.
	FromLatest bool
	Retry      RetryPolicy
}

// RetryPolicy decides how long a failing message holds its partition.
// MaxAttempts 0 retries until the context ends.
type RetryPolicy struct {
	Backoff     time.Duration
	MaxBackoff  time.Duration
	MaxAttempts int
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Backoff <= 0 {
		p.Backoff = 200 * time.Millisecond
	}
	if p.MaxBackoff < p.Backoff {
		p.MaxBackoff = 30 * time.Second
	}
	return p
}

// Handle runs h until it succeeds. It returns nil when the message may be
// committed: after a success, or after MaxAttempts failures, which are logged
// and skipped. It returns ctx.Err() when the context ends first.
func (p RetryPolicy) Handle(ctx context.Context, h Handler, m kafka.Message) error {
	p = p.withDefaults()
	wait := p.Backoff
	for attempt := 1; ; attempt++ {
		err := h(ctx, m)
		if err == nil {
			return nil
		}
		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			log.Printf("giving up %s/%d@%d after %d attempts: %v", m.Topic, m.Partition, m.Offset, attempt, err)
			return nil
		}
		log.Printf("retry %s/%d@%d in %s: %v", m.Topic, m.Partition, m.Offset, wait, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, p.MaxBackoff)
	}
}

type Consumer struct {
	r       *kafka.Reader
	workers int
	retry   RetryPolicy
}

func NewConsumer(brokers []string, opts ConsumerOptions) *Consumer {
	start := kafka.FirstOffset
	if opts.FromLatest {
		start = kafka.LastOffset
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        opts.Group,
		GroupTopics:    opts.Topics,
		MinBytes:       1,
		MaxBytes:       10e6,
		StartOffset:    start,
		CommitInterval: 0, // manual commit
	})
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, workers: workers, retry: opts.Retry}
}

// Start fetches until ctx ends. A partition always lands on the same worker,
// so its messages are handled and committed in order and a failing message
// blocks the partition instead of being committed past.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make([]chan kafka.Message, c.workers)
	for i := range jobs {
		jobs[i] = make(chan kafka.Message, 256)
		go func(in <-chan kafka.Message) {
			for m := range in {
				if err := c.retry.Handle(ctx, h, m); err != nil {
					continue
				}
				if err := c.r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
					log.Printf("commit %s/%d@%d: %v", m.Topic, m.Partition, m.Offset, err)
				}
			}
		}(jobs[i])
	}
	defer func() {
		for _, ch := range jobs {
			close(ch)
		}
	}()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case jobs[workerFor(m.Partition, c.workers)] <- m:
		case <-ctx.Done():
			return nil
		}
	}
}

func workerFor(partition, workers int) int {
	if partition < 0 {
		partition = -partition
	}
	return partition % workers
}

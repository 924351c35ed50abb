package cart

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
)

// SimulatedSubmitter accepts every order after Delay and numbers receipts
// locally. It stands in for a payment terminal in demos.
type SimulatedSubmitter struct {
	Delay time.Duration
	seq   atomic.Int64
}

func (s *SimulatedSubmitter) SubmitOrder(ctx context.Context, draft orders.Order) (orders.Order, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return orders.Order{}, ctx.Err()
		case <-t.C:
		}
	}
	now := time.Now().UTC()
	receipt := draft
	// millisecond stamp plus a counter keeps ids unique within one process
	receipt.ID = fmt.Sprintf("TXN%d%03d", now.UnixMilli(), s.seq.Add(1)%1000)
	receipt.CreatedAt = now
	return receipt, nil
}

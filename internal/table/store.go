// Package table remembers which physical table a kiosk belongs to. It is the
// only state a kiosk keeps between sessions.
package table

import (
	"context"
	"errors"
	"strings"

	"github.com/ariefcatur/go-kiosk-orders/internal/validation"
)

var ErrNotSelected = errors.New("no table selected on this kiosk")

type Store interface {
	// Get returns ErrNotSelected until Set has been called.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, tableID string) error
	Clear(ctx context.Context) error
}

// Normalize trims the id and rejects empty or oversized values.
func Normalize(tableID string) (string, error) {
	id := strings.TrimSpace(tableID)
	if err := validation.Var("table_id", id, "required,max=32"); err != nil {
		return "", err
	}
	return id, nil
}

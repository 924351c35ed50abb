// Package publication holds promotional entries shown next to the menu.
package publication

import (
	"errors"
	"math"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/validation"
)

type Publication struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty" validate:"max=120"`
	Description string    `json:"description" validate:"required"`
	Price       *int64    `json:"price,omitempty" validate:"omitnil,gt=0"`
	PromoPrice  int64     `json:"promo_price" validate:"gt=0"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

var ErrNotFound = errors.New("publication not found")

func (p Publication) Validate() error { return validation.Struct(p) }

// Savings is the amount saved against the original price, or 0.
func (p Publication) Savings() int64 {
	if p.Price == nil || *p.Price <= p.PromoPrice {
		return 0
	}
	return *p.Price - p.PromoPrice
}

// Discount is the rounded percentage off the original price, or 0.
func (p Publication) Discount() int {
	s := p.Savings()
	if s == 0 {
		return 0
	}
	return int(math.Round(float64(s) / float64(*p.Price) * 100))
}

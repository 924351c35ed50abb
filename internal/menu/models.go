package menu

import (
	"errors"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/validation"
)

// Item is the canonical menu entry. Price is in whole Ariary.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=120"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price" validate:"gt=0"`
	Category    string    `json:"category,omitempty" validate:"max=60"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

const (
	// AllCategories is the pseudo category that selects every item.
	AllCategories = "Tout"
	// OtherCategory is shown for items without a category.
	OtherCategory = "Autres"
)

var (
	ErrNotFound      = errors.New("menu item not found")
	ErrDuplicateName = errors.New("menu item with this name already exists")
)

func (it Item) Validate() error { return validation.Struct(it) }

// DisplayCategory never returns an empty string.
func (it Item) DisplayCategory() string {
	if it.Category == "" {
		return OtherCategory
	}
	return it.Category
}

package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// rawItem accepts every field spelling the menu backends have used.
type rawItem struct {
	ID          flexString `json:"id"`
	MongoID     flexString `json:"_id"`
	Name        string     `json:"name"`
	Nom         string     `json:"nom"`
	Description string     `json:"description"`
	Price       flexInt    `json:"price"`
	Prix        flexInt    `json:"prix"`
	Category    string     `json:"category"`
	Categorie   string     `json:"categorie"`
	Image       string     `json:"image"`
	ImageURL    string     `json:"image_url"`
}

// Normalize decodes a menu payload ({"menu":[...]} or a bare array) into
// canonical items. Entries without an id or without a positive price are
// dropped, so nothing unsellable reaches a cart.
func Normalize(data []byte) ([]Item, error) {
	data = bytes.TrimSpace(data)
	var raws []rawItem
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("decode menu: %w", err)
		}
	} else {
		var wrapped struct {
			Menu []rawItem `json:"menu"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode menu: %w", err)
		}
		raws = wrapped.Menu
	}

	out := make([]Item, 0, len(raws))
	for _, r := range raws {
		it, ok := r.canonical()
		if !ok {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (r rawItem) canonical() (Item, bool) {
	id := first(string(r.ID), string(r.MongoID))
	if id == "" {
		return Item{}, false
	}
	price := int64(r.Price)
	if price <= 0 {
		price = int64(r.Prix)
	}
	if price <= 0 {
		return Item{}, false
	}
	return Item{
		ID:          id,
		Name:        first(r.Name, r.Nom),
		Description: r.Description,
		Price:       price,
		Category:    first(r.Category, r.Categorie),
		Image:       first(r.Image, r.ImageURL),
	}, true
}

func first(vals ...string) string {
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

// flexString takes a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = flexString(x)
	case float64:
		*s = flexString(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		return fmt.Errorf("unsupported id value %s", b)
	}
	return nil
}

// flexInt takes a JSON number or numeric string; fractions are rounded.
// Unparseable values decode as zero.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		p, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", "."), 64)
		if err != nil {
			*n = 0
			return nil
		}
		f = p
	}
	*n = flexInt(math.Round(f))
	return nil
}

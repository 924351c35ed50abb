package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_WrappedWithFallbackFields(t *testing.T) {
	payload := `{"menu":[
		{"id": 1, "name": "Pizza", "price": 1000, "category": "Plats"},
		{"id": "2", "nom": "Soda", "prix": "500", "categorie": "Boissons", "image": "soda.png"},
		{"_id": "abc", "nom": "Glace", "prix": 750.4},
		{"name": "No id", "price": 10}
	]}`

	items, err := Normalize([]byte(payload))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, Item{ID: "1", Name: "Pizza", Price: 1000, Category: "Plats"}, items[0])
	assert.Equal(t, Item{ID: "2", Name: "Soda", Price: 500, Category: "Boissons", Image: "soda.png"}, items[1])
	assert.Equal(t, "abc", items[2].ID)
	assert.Equal(t, int64(750), items[2].Price)
	assert.Equal(t, OtherCategory, items[2].DisplayCategory())
}

func TestNormalize_BareArray(t *testing.T) {
	items, err := Normalize([]byte(` [{"id":"x","name":"Tea","price":"1,5"}]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Price)
}

func TestNormalize_DropsUnsellablePrices(t *testing.T) {
	items, err := Normalize([]byte(`[
		{"id":"a","name":"Blank","price":""},
		{"id":"b","name":"Free","price":0},
		{"id":"c","name":"Negative","price":-100},
		{"id":"d","name":"Junk","prix":"n/a"},
		{"id":"e","name":"Tea","price":-1,"prix":300}
	]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "e", items[0].ID)
	assert.Equal(t, int64(300), items[0].Price)
	assert.NoError(t, items[0].Validate())
}

func TestNormalize_MissingMenuKey(t *testing.T) {
	items, err := Normalize([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := Normalize([]byte(`{"menu":`))
	assert.Error(t, err)
}

func TestCategoriesAndFilter(t *testing.T) {
	items := []Item{
		{ID: "1", Name: "Pizza", Category: "Plats"},
		{ID: "2", Name: "Soda", Category: "Boissons"},
		{ID: "3", Name: "Burger", Category: "Plats"},
		{ID: "4", Name: "Mystery"},
	}

	assert.Equal(t, []string{AllCategories, "Plats", "Boissons", OtherCategory}, Categories(items))
	assert.Len(t, FilterByCategory(items, AllCategories), 4)
	assert.Len(t, FilterByCategory(items, ""), 4)

	plats := FilterByCategory(items, "Plats")
	require.Len(t, plats, 2)
	assert.Equal(t, "Burger", plats[1].Name)

	other := FilterByCategory(items, OtherCategory)
	require.Len(t, other, 1)
	assert.Equal(t, "4", other[0].ID)
}

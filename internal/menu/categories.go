package menu

// Categories returns AllCategories followed by the distinct display
// categories of items in first-seen order.
func Categories(items []Item) []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, it := range items {
		c := it.DisplayCategory()
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func FilterByCategory(items []Item, category string) []Item {
	if category == "" || category == AllCategories {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.DisplayCategory() == category {
			out = append(out, it)
		}
	}
	return out
}

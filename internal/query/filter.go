package query

import "strings"

// Filter applies the category and search-term predicates by conjunction.
// Category matching is an exact comparison unless the sentinel CategoryAll is
// given; search matching is a case-insensitive substring test against the
// record name. An empty term with CategoryAll is the identity filter: the
// input slice is returned unchanged.
func Filter(items []Tagged, searchTerm string, category Category) []Tagged {
	if searchTerm == "" && (category == CategoryAll || category == "") {
		return items
	}
	term := strings.ToLower(searchTerm)
	out := make([]Tagged, 0, len(items))
	for _, item := range items {
		if category != CategoryAll && category != "" && item.Category != category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(item.Name), term) {
			continue
		}
		out = append(out, item)
	}
	return out
}

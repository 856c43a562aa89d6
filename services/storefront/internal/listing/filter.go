package listing

import "strings"

// Filter returns the products whose name contains query, ignoring case, in
// their original order. An empty query keeps every product.
func Filter(products []Product, query string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if Matches(p, query) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p passes the name filter for query.
func Matches(p Product, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(query))
}

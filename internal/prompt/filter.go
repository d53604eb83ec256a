// Package prompt asks the user for the comparison parameters when they are
// not given on the command line.
package prompt

import "strings"

// Filter returns the items containing query, ignoring case. An empty query
// returns every item. Order is preserved.
func Filter(items []string, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if query == "" || strings.Contains(strings.ToLower(item), query) {
			out = append(out, item)
		}
	}
	return out
}

// Without returns items minus every occurrence of excluded.
func Without(items []string, excluded string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != excluded {
			out = append(out, item)
		}
	}
	return out
}

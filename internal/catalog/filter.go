package catalog

import "strings"

// FilterAll is the sentinel that disables a categorical filter.
const FilterAll = "All"

// Criteria selects a visible subset of the catalog. The zero value
// (and FilterAll for the categorical fields) matches everything.
type Criteria struct {
	Query    string
	Class    string
	Subject  string
	FileType string
}

// Filter returns the items matching c, preserving the input order.
// The query is a case-insensitive substring match against the display
// title; class, subject and file type are exact matches.
func Filter(items []Item, c Criteria) []Item {
	q := strings.ToLower(c.Query)
	out := make([]Item, 0, len(items))
	for i := range items {
		it := items[i]
		if !strings.Contains(strings.ToLower(it.DisplayTitle()), q) {
			continue
		}
		meta := it.Meta()
		if !matches(c.Class, meta.ClassName) ||
			!matches(c.Subject, meta.Subject) ||
			!matches(c.FileType, meta.FileType) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matches(want, got string) bool {
	return want == "" || want == FilterAll || want == got
}

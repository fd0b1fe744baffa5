package registry

import (
	"strings"

	"github.com/finditapp/findit/internal/model"
)

// CategoryAll is the wildcard category meaning "no constraint".
const CategoryAll = "all"

// FilterSpec is the active search constraint applied to a list of reports.
// The zero value matches everything.
type FilterSpec struct {
	SearchTerm string
	Category   string
}

// Filter returns the subsequence of items matching spec, preserving input
// order. An item matches if its title, description, or location contains
// SearchTerm case-insensitively (empty term matches everything) AND its
// category equals Category (empty or CategoryAll matches everything).
// Pure and deterministic: identical inputs always yield identical output.
func Filter(items []model.Item, spec FilterSpec) []model.Item {
	term := strings.ToLower(strings.TrimSpace(spec.SearchTerm))
	category := spec.Category

	filtered := make([]model.Item, 0, len(items))
	for _, item := range items {
		if term != "" && !matchesTerm(item, term) {
			continue
		}
		if category != "" && category != CategoryAll && item.Category != category {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func matchesTerm(item model.Item, term string) bool {
	return strings.Contains(strings.ToLower(item.Title), term) ||
		strings.Contains(strings.ToLower(item.Description), term) ||
		strings.Contains(strings.ToLower(item.Location), term)
}

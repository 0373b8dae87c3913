package model

import "fmt"

// CategoryOrder is the fixed display order for PARA categories.
var CategoryOrder = []string{"areas", "resources", "archive"}

// Taxonomy maps each category to its closed set of subcategories.
// The table is an invariant of the system, not discovered at runtime.
type Taxonomy map[string][]string

// DefaultTaxonomy returns the PARA category/subcategory table.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		"areas":     {"health", "finance", "career", "family"},
		"resources": {"data-science", "programming", "business", "personal-dev"},
		"archive":   {"old-projects", "completed", "outdated"},
	}
}

// Validate checks that subcategory is a member of the set owned by category.
func (t Taxonomy) Validate(category, subcategory string) error {
	subs, ok := t[category]
	if !ok {
		return fmt.Errorf("unknown category: %q", category)
	}
	for _, s := range subs {
		if s == subcategory {
			return nil
		}
	}
	return fmt.Errorf("subcategory %q is not valid for category %q", subcategory, category)
}

// Categories returns the category names in fixed display order.
func (t Taxonomy) Categories() []string {
	out := make([]string, 0, len(t))
	for _, c := range CategoryOrder {
		if _, ok := t[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

package catalog

import (
	"strings"

	"github.com/suqingyao/oawesome/models"
)

// AllCategories is the sentinel category value that matches every library.
const AllCategories = "All"

// Filter returns the libraries matching both the search term and the
// category, preserving the order of libs. An empty term matches every
// library; an empty or "All" category matches every library. Category
// comparison is an exact, case-sensitive match; the search term matches
// case-insensitively against name, description, and tags.
func Filter(libs []models.Library, term, category string) []models.Library {
	filtered := make([]models.Library, 0, len(libs))
	for _, lib := range libs {
		if matchesCategory(lib, category) && matchesTerm(lib, term) {
			filtered = append(filtered, lib)
		}
	}
	return filtered
}

func matchesCategory(lib models.Library, category string) bool {
	return category == "" || category == AllCategories || lib.Category == category
}

func matchesTerm(lib models.Library, term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	if strings.Contains(strings.ToLower(lib.Name), t) {
		return true
	}
	if strings.Contains(strings.ToLower(lib.Description), t) {
		return true
	}
	for _, tag := range lib.Tags {
		if strings.Contains(strings.ToLower(tag), t) {
			return true
		}
	}
	return false
}

// Facets derives the per-category counts for the given collection.
// Categories appear in first-seen order. When every library carries
// exactly one category, the counts sum to len(libs).
func Facets(libs []models.Library) []models.Category {
	var facets []models.Category
	index := make(map[string]int)
	for _, lib := range libs {
		if i, ok := index[lib.Category]; ok {
			facets[i].Count++
			continue
		}
		index[lib.Category] = len(facets)
		facets = append(facets, models.Category{
			ID:    lib.Category,
			Name:  lib.Category,
			Count: 1,
		})
	}
	return facets
}

package query

import "github.com/hkgcity/directory/internal/domain"

// Criteria - состояние фильтров для конвейера категории
type Criteria struct {
	CategoryID string
	Region     string
	SubRegion  string
	Facets     map[string]string
	SortKey    string
	Locale     domain.Locale
}

// Apply runs the category pipeline: category -> region -> facets -> sort.
// Search is a separate pipeline and is never combined with Apply.
func Apply(listings []domain.Listing, c Criteria) []domain.Listing {
	result := FilterByCategory(listings, c.CategoryID)
	result = FilterByRegion(result, c.Region, c.SubRegion)
	result = ApplyFacetFilters(result, c.Facets)
	return SortListings(result, c.SortKey, c.Locale)
}

// IsSortKey проверяет, известен ли ключ сортировки
func IsSortKey(key string) bool {
	for _, k := range SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

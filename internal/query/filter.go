// Package query implements the listing query engine: pure filter, sort and
// search functions over an in-memory listing snapshot. Functions never mutate
// their input and never fail on missing optional fields.
package query

import "github.com/hkgcity/directory/internal/domain"

// FilterByCategory keeps active listings of the given category.
func FilterByCategory(listings []domain.Listing, categoryID string) []domain.Listing {
	result := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.CategoryID == categoryID && l.IsActive {
			result = append(result, l)
		}
	}
	return result
}

// FilterByRegion keeps listings with an exact region match and, when subRegion
// is set, an exact sub-region match. Empty parameters are no-ops.
func FilterByRegion(listings []domain.Listing, region, subRegion string) []domain.Listing {
	if region == "" && subRegion == "" {
		return listings
	}

	result := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if region != "" && l.Region != region {
			continue
		}
		if subRegion != "" && l.SubRegion != subRegion {
			continue
		}
		result = append(result, l)
	}
	return result
}

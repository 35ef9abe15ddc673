package query

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/hkgcity/directory/internal/domain"
)

// SearchListings returns listings whose resolved name, resolved description or
// any tag contains query, case-insensitively. The query is matched as typed,
// surrounding whitespace included. A blank query returns the input unchanged.
func SearchListings(listings []domain.Listing, query string, locale domain.Locale) []domain.Listing {
	if strings.TrimSpace(query) == "" {
		return listings
	}

	folder := cases.Fold()
	needle := folder.String(query)
	contains := func(s string) bool {
		return s != "" && strings.Contains(folder.String(s), needle)
	}

	result := make([]domain.Listing, 0)
	for _, l := range listings {
		if contains(l.Name.Resolve(locale)) ||
			contains(l.Description.Resolve(locale)) ||
			anyTagContains(l.Metadata.Tags, contains) {
			result = append(result, l)
		}
	}
	return result
}

// SearchCategories returns active categories whose resolved name or
// description contains query. A blank query yields no category results.
func SearchCategories(categories []domain.Category, query string, locale domain.Locale) []domain.Category {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	folder := cases.Fold()
	needle := folder.String(query)

	result := make([]domain.Category, 0)
	for _, c := range categories {
		if !c.IsActive {
			continue
		}
		if strings.Contains(folder.String(c.Name.Resolve(locale)), needle) ||
			strings.Contains(folder.String(c.Description.Resolve(locale)), needle) {
			result = append(result, c)
		}
	}
	return result
}

func anyTagContains(tags []string, contains func(string) bool) bool {
	for _, tag := range tags {
		if contains(tag) {
			return true
		}
	}
	return false
}

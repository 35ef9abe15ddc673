package query

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hkgcity/directory/internal/domain"
)

// Sort keys
const (
	SortDefault  = "default"
	SortNameAsc  = "nameAsc"
	SortNameDesc = "nameDesc"
	SortPopular  = "popular"
	SortNewest   = "newest"
)

// SortKeys - все поддерживаемые ключи сортировки
var SortKeys = []string{SortDefault, SortNameAsc, SortNameDesc, SortPopular, SortNewest}

// SortListings returns a stably sorted copy of listings. Unknown keys sort as SortDefault.
func SortListings(listings []domain.Listing, sortKey string, locale domain.Locale) []domain.Listing {
	result := slices.Clone(listings)

	switch sortKey {
	case SortNameAsc, SortNameDesc:
		result = sortByName(result, locale, sortKey == SortNameDesc)
	case SortPopular:
		slices.SortStableFunc(result, func(a, b domain.Listing) int {
			return cmp.Compare(b.ClickCount, a.ClickCount)
		})
	case SortNewest:
		slices.SortStableFunc(result, func(a, b domain.Listing) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	default:
		slices.SortStableFunc(result, func(a, b domain.Listing) int {
			return cmp.Compare(a.SortOrder, b.SortOrder)
		})
	}

	return result
}

// sortByName orders listings by their resolved display name using
// locale-aware collation.
func sortByName(listings []domain.Listing, locale domain.Locale, desc bool) []domain.Listing {
	type named struct {
		listing domain.Listing
		name    string
	}

	items := make([]named, len(listings))
	for i, l := range listings {
		items[i] = named{listing: l, name: l.Name.Resolve(locale)}
	}

	c := newCollator(locale)
	slices.SortStableFunc(items, func(a, b named) int {
		if desc {
			return c.CompareString(b.name, a.name)
		}
		return c.CompareString(a.name, b.name)
	})

	for i := range items {
		listings[i] = items[i].listing
	}
	return listings
}

// newCollator builds a collator for the locale. Collators keep internal
// buffers and are not shared between calls.
func newCollator(locale domain.Locale) *collate.Collator {
	tag, err := language.Parse(string(locale))
	if err != nil {
		tag = language.English
	}
	return collate.New(tag)
}

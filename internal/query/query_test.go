package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkgcity/directory/internal/domain"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func pricePtr(v domain.PriceRange) *domain.PriceRange { return &v }

func ids(listings []domain.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func fixtureListings() []domain.Listing {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Listing{
		{
			ID:          "mtr",
			CategoryID:  "transport",
			Name:        domain.LocalizedText{"en": "MTR Corporation", "zh-HK": "港鐵公司"},
			Description: domain.LocalizedText{"en": "Hong Kong's comprehensive rail system"},
			Region:      domain.RegionHongKongIsland,
			SubRegion:   "central",
			Metadata:    domain.ListingMetadata{Tags: []string{"mtr", "rail", "airport-express"}},
			SortOrder:   1,
			IsActive:    true,
			ClickCount:  40,
			CreatedAt:   base,
		},
		{
			ID:         "citybus",
			CategoryID: "transport",
			Name:       domain.LocalizedText{"en": "Citybus", "zh-HK": "城巴"},
			Region:     domain.RegionHongKongIsland,
			SubRegion:  "wan-chai",
			Metadata:   domain.ListingMetadata{Tags: []string{"bus", "citybus"}},
			SortOrder:  2,
			IsActive:   true,
			ClickCount: 90,
			CreatedAt:  base.Add(48 * time.Hour),
		},
		{
			ID:         "kmb",
			CategoryID: "transport",
			Name:       domain.LocalizedText{"en": "Kowloon Motor Bus"},
			Region:     domain.RegionKowloon,
			SubRegion:  "mong-kok",
			Metadata:   domain.ListingMetadata{Tags: []string{"bus", "kmb"}},
			SortOrder:  3,
			IsActive:   false,
			CreatedAt:  base.Add(24 * time.Hour),
		},
		{
			ID:         "peninsula",
			CategoryID: "hotels",
			Name:       domain.LocalizedText{"en": "The Peninsula"},
			Region:     domain.RegionKowloon,
			SubRegion:  "tsim-sha-tsui",
			Metadata:   domain.ListingMetadata{Stars: intPtr(5), PriceRange: pricePtr(domain.PriceRangeLuxury)},
			SortOrder:  1,
			IsActive:   true,
		},
		{
			ID:         "ibis",
			CategoryID: "hotels",
			Name:       domain.LocalizedText{"en": "ibis Hong Kong Central"},
			Region:     domain.RegionHongKongIsland,
			Metadata:   domain.ListingMetadata{Stars: intPtr(3), PriceRange: pricePtr(domain.PriceRangeBudget)},
			SortOrder:  2,
			IsActive:   true,
		},
		{
			ID:         "qmh",
			CategoryID: "hospitals",
			Name:       domain.LocalizedText{"en": "Queen Mary Hospital"},
			Region:     domain.RegionHongKongIsland,
			Metadata:   domain.ListingMetadata{IsPublic: boolPtr(true)},
			SortOrder:  1,
			IsActive:   true,
		},
		{
			ID:         "canossa",
			CategoryID: "hospitals",
			Name:       domain.LocalizedText{"en": "Canossa Hospital"},
			Region:     domain.RegionHongKongIsland,
			Metadata:   domain.ListingMetadata{IsPublic: boolPtr(false)},
			SortOrder:  2,
			IsActive:   true,
		},
		{
			ID:         "unknown-hospital",
			CategoryID: "hospitals",
			Name:       domain.LocalizedText{"en": "Clinic Without Metadata"},
			Region:     domain.RegionNewTerritories,
			SortOrder:  3,
			IsActive:   true,
		},
	}
}

func TestFilterByCategory(t *testing.T) {
	listings := fixtureListings()

	result := FilterByCategory(listings, "transport")
	assert.Equal(t, []string{"mtr", "citybus"}, ids(result), "inactive listings are never visible")

	assert.Empty(t, FilterByCategory(listings, "nope"))
	assert.LessOrEqual(t, len(result), len(listings))
}

func TestFilterByRegion(t *testing.T) {
	listings := fixtureListings()

	tests := []struct {
		name      string
		region    string
		subRegion string
		expected  []string
	}{
		{
			name:     "no parameters keeps all",
			expected: ids(listings),
		},
		{
			name:     "region only",
			region:   domain.RegionKowloon,
			expected: []string{"kmb", "peninsula"},
		},
		{
			name:      "region and sub-region",
			region:    domain.RegionHongKongIsland,
			subRegion: "central",
			expected:  []string{"mtr"},
		},
		{
			name:     "unknown region excludes everything",
			region:   "atlantis",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(FilterByRegion(listings, tt.region, tt.subRegion)))
		})
	}
}

func TestApplyFacetFilters(t *testing.T) {
	listings := fixtureListings()

	tests := []struct {
		name     string
		filters  map[string]string
		expected []string
	}{
		{
			name:     "stars",
			filters:  map[string]string{"stars": "5"},
			expected: []string{"peninsula"},
		},
		{
			name:     "non numeric stars matches nothing",
			filters:  map[string]string{"stars": "budget"},
			expected: []string{},
		},
		{
			name:     "price range",
			filters:  map[string]string{"priceRange": "budget"},
			expected: []string{"ibis"},
		},
		{
			name:     "public hospitals",
			filters:  map[string]string{"isPublic": "true"},
			expected: []string{"qmh"},
		},
		{
			name:     "private hospitals exclude missing metadata",
			filters:  map[string]string{"isPublic": "false"},
			expected: []string{"canossa"},
		},
		{
			name:     "type uses tags",
			filters:  map[string]string{"type": "bus"},
			expected: []string{"citybus", "kmb"},
		},
		{
			name:     "other keys fall back to tags",
			filters:  map[string]string{"cuisine": "rail"},
			expected: []string{"mtr"},
		},
		{
			name:     "empty value is ignored",
			filters:  map[string]string{"stars": ""},
			expected: ids(listings),
		},
		{
			name:     "predicates are combined with AND",
			filters:  map[string]string{"stars": "5", "priceRange": "budget"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(ApplyFacetFilters(listings, tt.filters)))
		})
	}
}

func TestApplyFacetFilters_StarsScenario(t *testing.T) {
	listings := []domain.Listing{
		{ID: "a", Metadata: domain.ListingMetadata{Stars: intPtr(5)}},
		{ID: "b", Metadata: domain.ListingMetadata{Stars: intPtr(3)}},
	}

	assert.Equal(t, []string{"a"}, ids(ApplyFacetFilters(listings, map[string]string{"stars": "5"})))
}

func TestApplyFacetFilters_Monotonic(t *testing.T) {
	listings := fixtureListings()
	facets := []map[string]string{
		{"type": "bus"},
		{"type": "bus", "stars": "5"},
		{"isPublic": "true"},
		{"priceRange": "luxury", "stars": "5"},
	}

	for _, f := range facets {
		narrowed := ApplyFacetFilters(listings, f)
		assert.LessOrEqual(t, len(narrowed), len(listings))
	}
}

func TestSortListings(t *testing.T) {
	listings := FilterByCategory(fixtureListings(), "transport")
	listings = append(listings, domain.Listing{
		ID:         "airport",
		Name:       domain.LocalizedText{"en": "Airport Authority", "zh-HK": "機管局"},
		SortOrder:  0,
		ClickCount: 90,
		CreatedAt:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	tests := []struct {
		name     string
		sortKey  string
		expected []string
	}{
		{name: "default", sortKey: SortDefault, expected: []string{"airport", "mtr", "citybus"}},
		{name: "name ascending", sortKey: SortNameAsc, expected: []string{"airport", "citybus", "mtr"}},
		{name: "name descending", sortKey: SortNameDesc, expected: []string{"mtr", "citybus", "airport"}},
		{name: "popular keeps input order on ties", sortKey: SortPopular, expected: []string{"citybus", "airport", "mtr"}},
		{name: "newest", sortKey: SortNewest, expected: []string{"citybus", "mtr", "airport"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(SortListings(listings, tt.sortKey, domain.LocaleEN)))
		})
	}
}

func TestSortListings_DoesNotMutateInput(t *testing.T) {
	listings := []domain.Listing{
		{ID: "b", SortOrder: 2},
		{ID: "a", SortOrder: 1},
	}

	sorted := SortListings(listings, SortDefault, domain.LocaleEN)
	assert.Equal(t, []string{"a", "b"}, ids(sorted))
	assert.Equal(t, []string{"b", "a"}, ids(listings))
}

func TestSortListings_DefaultIsStable(t *testing.T) {
	listings := []domain.Listing{
		{ID: "x", SortOrder: 1},
		{ID: "first-tie", SortOrder: 0},
		{ID: "y", SortOrder: 1},
		{ID: "second-tie", SortOrder: 0},
		{ID: "z", SortOrder: 1},
	}

	sorted := SortListings(listings, SortDefault, domain.LocaleEN)
	assert.Equal(t, []string{"first-tie", "second-tie", "x", "y", "z"}, ids(sorted))
}

func TestSortListings_UnknownKeyBehavesAsDefault(t *testing.T) {
	listings := fixtureListings()

	assert.Equal(t,
		ids(SortListings(listings, SortDefault, domain.LocaleEN)),
		ids(SortListings(listings, "bogus", domain.LocaleEN)),
	)
}

func TestSortListings_NameUsesResolvedLocale(t *testing.T) {
	listings := []domain.Listing{
		{ID: "zebra", Name: domain.LocalizedText{"en": "Zebra", "fr": "Abricot"}},
		{ID: "apple", Name: domain.LocalizedText{"en": "Apple", "fr": "Zèbre"}},
		{ID: "banana", Name: domain.LocalizedText{"en": "Banana"}},
	}

	assert.Equal(t, []string{"apple", "banana", "zebra"}, ids(SortListings(listings, SortNameAsc, domain.LocaleEN)))
	// fr: Abricot, Banana (fallback), Zèbre
	assert.Equal(t, []string{"zebra", "banana", "apple"}, ids(SortListings(listings, SortNameAsc, domain.LocaleFR)))
}

func TestSearchListings(t *testing.T) {
	listings := fixtureListings()

	tests := []struct {
		name     string
		query    string
		locale   domain.Locale
		expected []string
	}{
		{name: "name match is case-insensitive", query: "citybus", locale: domain.LocaleEN, expected: []string{"citybus"}},
		{name: "description match", query: "COMPREHENSIVE", locale: domain.LocaleEN, expected: []string{"mtr"}},
		{name: "tag substring match", query: "express", locale: domain.LocaleEN, expected: []string{"mtr"}},
		{name: "resolved locale name", query: "港鐵", locale: domain.LocaleZhHK, expected: []string{"mtr"}},
		{name: "search spans categories and inactive records", query: "bus", locale: domain.LocaleEN, expected: []string{"citybus", "kmb"}},
		{name: "no match", query: "submarine", locale: domain.LocaleEN, expected: []string{}},
		{name: "trailing space is part of the query", query: "bus ", locale: domain.LocaleEN, expected: []string{}},
		{name: "inner word with trailing space", query: "motor ", locale: domain.LocaleEN, expected: []string{"kmb"}},
		{name: "leading space skips tag-only hit", query: " rail", locale: domain.LocaleEN, expected: []string{"mtr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(SearchListings(listings, tt.query, tt.locale)))
		})
	}
}

func TestSearchListings_TagOnlyMatch(t *testing.T) {
	listings := []domain.Listing{
		{
			ID:       "mtr",
			Name:     domain.LocalizedText{"en": "MTR Corporation"},
			Metadata: domain.ListingMetadata{Tags: []string{"rail"}},
		},
	}

	result := SearchListings(listings, "rail", domain.LocaleEN)
	require.Len(t, result, 1)
	assert.Equal(t, "mtr", result[0].ID)
}

func TestSearchListings_BlankQueryIsIdentity(t *testing.T) {
	listings := fixtureListings()

	for _, q := range []string{"", "   ", "\t\n"} {
		assert.Equal(t, listings, SearchListings(listings, q, domain.LocaleEN))
	}
	assert.Nil(t, SearchListings(nil, "", domain.LocaleEN))
}

func TestSearchCategories(t *testing.T) {
	categories := []domain.Category{
		{ID: "hotels", Name: domain.LocalizedText{"en": "Hotels"}, Description: domain.LocalizedText{"en": "Accommodation by star rating"}, IsActive: true},
		{ID: "dining", Name: domain.LocalizedText{"en": "Dining"}, Description: domain.LocalizedText{"en": "Restaurants"}, IsActive: true},
		{ID: "hidden", Name: domain.LocalizedText{"en": "Hotels archive"}, IsActive: false},
	}

	assert.Len(t, SearchCategories(categories, "hotel", domain.LocaleEN), 1)
	assert.Len(t, SearchCategories(categories, "STAR", domain.LocaleEN), 1)
	assert.Nil(t, SearchCategories(categories, " ", domain.LocaleEN))
	assert.Empty(t, SearchCategories(categories, "hotels ", domain.LocaleEN))
}

func TestApply_Pipeline(t *testing.T) {
	listings := fixtureListings()

	result := Apply(listings, Criteria{
		CategoryID: "hotels",
		Region:     domain.RegionKowloon,
		Facets:     map[string]string{"priceRange": "luxury"},
		SortKey:    SortNameAsc,
		Locale:     domain.LocaleEN,
	})
	assert.Equal(t, []string{"peninsula"}, ids(result))

	result = Apply(listings, Criteria{CategoryID: "transport", SortKey: SortPopular, Locale: domain.LocaleEN})
	assert.Equal(t, []string{"citybus", "mtr"}, ids(result))
}

func TestIsSortKey(t *testing.T) {
	assert.True(t, IsSortKey(SortNewest))
	assert.False(t, IsSortKey("bogus"))
}

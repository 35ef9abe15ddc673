package query

import (
	"strconv"

	"github.com/hkgcity/directory/internal/domain"
)

// Facet keys with dedicated predicates
const (
	FacetIsPublic   = "isPublic"
	FacetStars      = "stars"
	FacetPriceRange = "priceRange"
	FacetType       = "type"
)

// metadataMatcher decides whether listing metadata satisfies a facet value.
type metadataMatcher func(meta domain.ListingMetadata) bool

// facetPredicate builds a matcher for one facet value.
type facetPredicate func(value string) metadataMatcher

var facetPredicates = map[string]facetPredicate{
	FacetIsPublic:   isPublicPredicate,
	FacetStars:      starsPredicate,
	FacetPriceRange: priceRangePredicate,
	FacetType:       tagsPredicate,
}

// predicateFor returns the predicate registered for key, or the tags-contains
// fallback for keys without a dedicated predicate.
func predicateFor(key string) facetPredicate {
	if p, ok := facetPredicates[key]; ok {
		return p
	}
	return tagsPredicate
}

func isPublicPredicate(value string) metadataMatcher {
	want := value == "true"
	return func(meta domain.ListingMetadata) bool {
		return meta.IsPublic != nil && *meta.IsPublic == want
	}
}

func starsPredicate(value string) metadataMatcher {
	want, err := strconv.Atoi(value)
	if err != nil {
		// "budget" and other non-numeric options match nothing
		return func(domain.ListingMetadata) bool { return false }
	}
	return func(meta domain.ListingMetadata) bool {
		return meta.Stars != nil && *meta.Stars == want
	}
}

func priceRangePredicate(value string) metadataMatcher {
	return func(meta domain.ListingMetadata) bool {
		return meta.PriceRange != nil && string(*meta.PriceRange) == value
	}
}

func tagsPredicate(value string) metadataMatcher {
	return func(meta domain.ListingMetadata) bool {
		return meta.HasTag(value)
	}
}

// ApplyFacetFilters keeps listings matching every non-empty facet value (AND).
func ApplyFacetFilters(listings []domain.Listing, filters map[string]string) []domain.Listing {
	matchers := make([]metadataMatcher, 0, len(filters))
	for key, value := range filters {
		if value == "" {
			continue
		}
		matchers = append(matchers, predicateFor(key)(value))
	}
	if len(matchers) == 0 {
		return listings
	}

	result := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if matchesAll(l.Metadata, matchers) {
			result = append(result, l)
		}
	}
	return result
}

func matchesAll(meta domain.ListingMetadata, matchers []metadataMatcher) bool {
	for _, m := range matchers {
		if !m(meta) {
			return false
		}
	}
	return true
}

package dto

import (
	"github.com/hkgcity/directory/internal/domain"
)

// NewCategoryResponse resolves category texts for locale.
func NewCategoryResponse(c domain.Category, locale domain.Locale, listingCount int) CategoryResponse {
	filters := make([]FilterResponse, 0, len(c.Filters))
	for _, f := range c.Filters {
		options := make([]OptionResponse, 0, len(f.Options))
		for _, o := range f.Options {
			options = append(options, OptionResponse{Value: o.Value, Label: o.Label.Resolve(locale)})
		}
		filters = append(filters, FilterResponse{
			Key:     f.Key,
			Type:    string(f.Type),
			Label:   f.Label.Resolve(locale),
			Options: options,
		})
	}

	return CategoryResponse{
		ID:           c.ID,
		Slug:         c.Slug,
		Name:         c.Name.Resolve(locale),
		Description:  c.Description.Resolve(locale),
		Image:        c.Image,
		Icon:         c.Icon,
		SortOrder:    c.SortOrder,
		Filters:      filters,
		ListingCount: listingCount,
	}
}

// NewListingResponse resolves listing texts and the region label for locale.
func NewListingResponse(l domain.Listing, locale domain.Locale) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		CategoryID:  l.CategoryID,
		Name:        l.Name.Resolve(locale),
		Description: l.Description.Resolve(locale),
		URL:         l.URL,
		Image:       l.Image,
		Region:      l.Region,
		SubRegion:   l.SubRegion,
		Location:    domain.RegionName(l.Region, l.SubRegion, locale),
		Metadata:    l.Metadata,
		SortOrder:   l.SortOrder,
		ClickCount:  l.ClickCount,
		CreatedAt:   l.CreatedAt,
	}
}

// NewListingResponses maps a slice, keeping order.
func NewListingResponses(listings []domain.Listing, locale domain.Locale) []ListingResponse {
	result := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		result = append(result, NewListingResponse(l, locale))
	}
	return result
}

// NewRegionResponses resolves the static region taxonomy for locale.
func NewRegionResponses(locale domain.Locale) []RegionResponse {
	result := make([]RegionResponse, 0, len(domain.Regions))
	for _, r := range domain.Regions {
		subs := make([]SubRegionResponse, 0, len(r.SubRegions))
		for _, s := range r.SubRegions {
			subs = append(subs, SubRegionResponse{ID: s.ID, Name: s.Name.Resolve(locale)})
		}
		result = append(result, RegionResponse{ID: r.ID, Name: r.Name.Resolve(locale), SubRegions: subs})
	}
	return result
}

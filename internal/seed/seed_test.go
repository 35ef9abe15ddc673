package seed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/pkg/validator"
	"github.com/hkgcity/directory/internal/seed"
)

func TestLoad(t *testing.T) {
	ds, err := seed.Load()
	require.NoError(t, err)

	assert.Len(t, ds.Categories, 7)
	assert.Len(t, ds.Listings, 19)
}

func TestLoad_RecordsAreValid(t *testing.T) {
	ds, err := seed.Load()
	require.NoError(t, err)

	for _, c := range ds.Categories {
		assert.NoError(t, validator.Validate(c), "category %s", c.ID)
		assert.False(t, c.CreatedAt.IsZero(), "category %s", c.ID)
	}

	categories := make(map[string]bool, len(ds.Categories))
	for _, c := range ds.Categories {
		categories[c.ID] = true
	}

	for _, l := range ds.Listings {
		assert.NoError(t, validator.Validate(l), "listing %s", l.ID)
		assert.True(t, categories[l.CategoryID], "listing %s has unknown category %s", l.ID, l.CategoryID)
		_, ok := domain.FindRegion(l.Region)
		assert.True(t, ok, "listing %s has unknown region %s", l.ID, l.Region)
	}
}

func TestLoad_TypedMetadata(t *testing.T) {
	listings, err := seed.Listings()
	require.NoError(t, err)

	byID := make(map[string]domain.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	peninsula := byID["peninsula-hk"]
	require.NotNil(t, peninsula.Metadata.Stars)
	assert.Equal(t, 5, *peninsula.Metadata.Stars)
	require.NotNil(t, peninsula.Metadata.PriceRange)
	assert.Equal(t, domain.PriceRangeLuxury, *peninsula.Metadata.PriceRange)

	canossa := byID["canossa"]
	require.NotNil(t, canossa.Metadata.IsPublic)
	assert.False(t, *canossa.Metadata.IsPublic)

	assert.True(t, byID["mtr"].Metadata.HasTag("rail"))
	assert.Equal(t, "港鐵公司", byID["mtr"].Name.Resolve(domain.LocaleZhHK))
}

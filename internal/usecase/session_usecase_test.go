package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/pkg/errors"
	"github.com/hkgcity/directory/internal/query"
	"github.com/hkgcity/directory/internal/state"
	"github.com/hkgcity/directory/internal/usecase"
	"github.com/hkgcity/directory/internal/usecase/dto"
)

func newSessionUseCase() (*usecase.SessionUseCase, *memoryPersister) {
	f := newCatalogFixture()
	persister := newMemoryPersister()
	return usecase.NewSessionUseCase(persister, f.uc, zap.NewNop()), persister
}

func TestSessionUseCase_CreateStartsWithDefaults(t *testing.T) {
	ctx := context.Background()
	uc, _ := newSessionUseCase()

	session, err := uc.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, session.SessionID)

	filters, err := uc.Filters(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.DefaultFilterState(), *filters)

	search, err := uc.SearchState(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Empty(t, search.Query)
	assert.False(t, search.IsSearching)
}

func TestSessionUseCase_UnknownSession(t *testing.T) {
	ctx := context.Background()
	uc, _ := newSessionUseCase()

	_, err := uc.Filters(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	_, err = uc.SetRegion(ctx, "missing", domain.RegionKowloon)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	_, err = uc.Search(ctx, "missing", dto.SessionSearchRequest{Query: "mtr"})
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestSessionUseCase_RegionCascade(t *testing.T) {
	ctx := context.Background()
	uc, _ := newSessionUseCase()
	session, err := uc.Create(ctx)
	require.NoError(t, err)
	id := session.SessionID

	_, err = uc.SetRegion(ctx, id, domain.RegionKowloon)
	require.NoError(t, err)

	filters, err := uc.SetSubRegion(ctx, id, "mong-kok")
	require.NoError(t, err)
	assert.Equal(t, "mong-kok", filters.SubRegion)

	filters, err = uc.SetRegion(ctx, id, domain.RegionHongKongIsland)
	require.NoError(t, err)
	assert.Equal(t, domain.RegionHongKongIsland, filters.Region)
	assert.Empty(t, filters.SubRegion)
}

func TestSessionUseCase_RejectsUnknownValues(t *testing.T) {
	ctx := context.Background()
	uc, _ := newSessionUseCase()
	session, err := uc.Create(ctx)
	require.NoError(t, err)
	id := session.SessionID

	_, err = uc.SetRegion(ctx, id, "atlantis")
	assert.ErrorIs(t, err, errors.ErrInvalidRegion)

	_, err = uc.SetRegion(ctx, id, domain.RegionKowloon)
	require.NoError(t, err)
	_, err = uc.SetSubRegion(ctx, id, "stanley")
	assert.ErrorIs(t, err, errors.ErrInvalidRegion, "stanley is not in Kowloon")

	_, err = uc.SetSort(ctx, id, "bogus")
	assert.ErrorIs(t, err, errors.ErrInvalidSortKey)

	filters, err := uc.Filters(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, filters.SubRegion)
	assert.Equal(t, query.SortDefault, filters.SortKey)
}

func TestSessionUseCase_FacetsAndClear(t *testing.T) {
	ctx := context.Background()
	uc, _ := newSessionUseCase()
	session, err := uc.Create(ctx)
	require.NoError(t, err)
	id := session.SessionID

	_, err = uc.SetFacet(ctx, id, dto.SetFacetRequest{Key: "stars", Value: "5"})
	require.NoError(t, err)
	filters, err := uc.SetFacet(ctx, id, dto.SetFacetRequest{Key: "priceRange", Value: "luxury"})
	require.NoError(t, err)
	assert.Len(t, filters.FacetFilters, 2)

	filters, err = uc.SetFacet(ctx, id, dto.SetFacetRequest{Key: "priceRange", Value: ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"stars": "5"}, filters.FacetFilters)

	_, err = uc.SetSort(ctx, id, query.SortPopular)
	require.NoError(t, err)

	first, err := uc.ClearFilters(ctx, id)
	require.NoError(t, err)
	second, err := uc.ClearFilters(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, state.DefaultFilterState(), *second)
}

func TestSessionUseCase_ListingsUseStoredFilters(t *testing.T) {
	ctx := context.Background()
	uc, _ := newSessionUseCase()
	session, err := uc.Create(ctx)
	require.NoError(t, err)
	id := session.SessionID

	_, err = uc.SetFacet(ctx, id, dto.SetFacetRequest{Key: "stars", Value: "5"})
	require.NoError(t, err)
	_, err = uc.SetSort(ctx, id, query.SortNameAsc)
	require.NoError(t, err)

	resp, err := uc.Listings(ctx, id, "hotels", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"sheraton-hk", "peninsula-hk"}, listingIDs(resp.Listings))
	assert.Equal(t, query.SortNameAsc, resp.Applied.SortKey)

	_, err = uc.Listings(ctx, id, "nope", "en")
	assert.ErrorIs(t, err, errors.ErrCategoryNotFound)
}

func TestSessionUseCase_SearchIsPersisted(t *testing.T) {
	ctx := context.Background()
	uc, _ := newSessionUseCase()
	session, err := uc.Create(ctx)
	require.NoError(t, err)
	id := session.SessionID

	resp, err := uc.Search(ctx, id, dto.SessionSearchRequest{Query: "rail", Language: "en"})
	require.NoError(t, err)
	assert.Contains(t, listingIDs(resp.Listings), "mtr")

	stored, err := uc.SearchState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "rail", stored.Query)
	assert.False(t, stored.IsSearching)
	assert.NotEmpty(t, stored.Results)

	_, err = uc.Search(ctx, id, dto.SessionSearchRequest{Query: ""})
	require.NoError(t, err)
	stored, err = uc.SearchState(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, stored.Results)

	filters, err := uc.Filters(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, state.DefaultFilterState(), *filters, "search must not touch filters")
}

// savingHookPersister вызывает onSave после каждого сохранения
type savingHookPersister struct {
	*memoryPersister
	onSave func()
}

func (p *savingHookPersister) Save(ctx context.Context, storeName, sessionID string, data []byte) error {
	if err := p.memoryPersister.Save(ctx, storeName, sessionID, data); err != nil {
		return err
	}
	if p.onSave != nil {
		p.onSave()
	}
	return nil
}

func TestSessionUseCase_SearchAnswersWithStoredResults(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	persister := &savingHookPersister{memoryPersister: newMemoryPersister()}
	uc := usecase.NewSessionUseCase(persister, f.uc, zap.NewNop())

	session, err := uc.Create(ctx)
	require.NoError(t, err)

	// снимок меняется сразу после сохранения состояния поиска
	persister.onSave = func() {
		f.catalog.ApplyListings(usecase.Fetch[domain.Listing]{Generation: 1 << 40, Items: []domain.Listing{}})
	}

	resp, err := uc.Search(ctx, session.SessionID, dto.SessionSearchRequest{Query: "rail", Language: "en"})
	require.NoError(t, err)

	stored, err := uc.SearchState(ctx, session.SessionID)
	require.NoError(t, err)

	storedIDs := make([]string, 0, len(stored.Results))
	for _, l := range stored.Results {
		storedIDs = append(storedIDs, l.ID)
	}
	assert.Contains(t, storedIDs, "mtr")
	assert.Equal(t, storedIDs, listingIDs(resp.Listings))
	assert.Equal(t, len(resp.Listings)+len(resp.Categories), resp.Total)
}

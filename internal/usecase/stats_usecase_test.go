package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain"
	apperrors "github.com/hkgcity/directory/internal/pkg/errors"
	"github.com/hkgcity/directory/internal/usecase"
	"github.com/hkgcity/directory/internal/usecase/dto"
)

func newStatsFixture(cache *MockCacheRepository) (*usecase.StatsUseCase, *catalogFixture) {
	f := newCatalogFixture()
	return usecase.NewStatsUseCase(f.docs, cache, f.gateway, f.catalog, 48*time.Hour, zap.NewNop()), f
}

func today() string {
	return time.Now().UTC().Format(domain.StatsDateLayout)
}

func TestStatsUseCase_RecordPageView(t *testing.T) {
	ctx := context.Background()
	cache := &MockCacheRepository{}
	cache.On("AddToSet", mock.Anything, "visitors:"+today(), "visitor-1", 48*time.Hour).Return(true, nil).Once()
	cache.On("AddToSet", mock.Anything, "visitors:"+today(), "visitor-1", 48*time.Hour).Return(false, nil)

	uc, f := newStatsFixture(cache)

	require.NoError(t, uc.RecordPageView(ctx, dto.PageViewRequest{
		Page: "/hotels", Referrer: "https://www.google.com/search?q=hk", VisitorID: "visitor-1",
	}))
	require.NoError(t, uc.RecordPageView(ctx, dto.PageViewRequest{
		Page: "/hotels", VisitorID: "visitor-1",
	}))
	require.NoError(t, uc.RecordPageView(ctx, dto.PageViewRequest{Page: "/"}))

	body := f.docs.body(domain.CollectionStats, today())
	require.NotNil(t, body)
	assert.Equal(t, today(), body["date"])
	assert.Equal(t, float64(3), body["page_views"])
	assert.Equal(t, float64(1), body["unique_visitors"])
	assert.Equal(t, map[string]any{"/hotels": float64(2), "/": float64(1)}, body["page_stats"])
	assert.Equal(t, map[string]any{"google.com": float64(1), "direct": float64(2)}, body["referrer_stats"])

	cache.AssertNumberOfCalls(t, "AddToSet", 2)
}

func TestStatsUseCase_RecordPageViewVisitorTrackingIsOptional(t *testing.T) {
	ctx := context.Background()
	cache := &MockCacheRepository{}
	cache.On("AddToSet", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(false, errors.New("redis down"))

	uc, f := newStatsFixture(cache)

	require.NoError(t, uc.RecordPageView(ctx, dto.PageViewRequest{Page: "/", VisitorID: "v"}))

	body := f.docs.body(domain.CollectionStats, today())
	assert.Equal(t, float64(1), body["page_views"])
	assert.Equal(t, float64(0), body["unique_visitors"])
}

func TestStatsUseCase_RecordPageViewStoreFailure(t *testing.T) {
	docs := &MockDocumentRepository{}
	docs.On("Insert", mock.Anything, domain.CollectionStats, mock.Anything, mock.Anything).
		Return(false, errors.New("connection reset"))

	f := newCatalogFixture()
	uc := usecase.NewStatsUseCase(docs, nil, f.gateway, f.catalog, time.Hour, zap.NewNop())

	err := uc.RecordPageView(context.Background(), dto.PageViewRequest{Page: "/"})
	assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
}

func TestStatsUseCase_GetStats(t *testing.T) {
	ctx := context.Background()
	uc, f := newStatsFixture(&MockCacheRepository{})

	now := time.Now().UTC()
	day := func(offset int) string { return now.AddDate(0, 0, -offset).Format(domain.StatsDateLayout) }

	f.docs.put(domain.CollectionStats, day(0), domain.TrafficStats{
		Date: day(0), PageViews: 5, UniqueVisitors: 2,
		PageStats:     map[string]int64{"/": 3, "/hotels": 2},
		ReferrerStats: map[string]int64{"direct": 5},
	})
	f.docs.put(domain.CollectionStats, day(1), domain.TrafficStats{
		Date: day(1), PageViews: 4, UniqueVisitors: 1,
		PageStats:     map[string]int64{"/hotels": 4},
		ReferrerStats: map[string]int64{"google.com": 4},
	})
	f.docs.put(domain.CollectionStats, day(30), domain.TrafficStats{
		Date: day(30), PageViews: 100,
		PageStats: map[string]int64{"/old": 100},
	})

	f.catalog.Refresh(ctx)
	require.NoError(t, f.gateway.ApplyListingClick(ctx, "mtr"))
	require.NoError(t, f.gateway.ApplyListingClick(ctx, "mtr"))
	require.NoError(t, f.gateway.ApplyListingClick(ctx, "peninsula-hk"))

	stats := uc.GetStats(ctx, 7)

	assert.Equal(t, 7, stats.Days)
	assert.Len(t, stats.Daily, 2)
	assert.Equal(t, int64(9), stats.TotalViews)
	assert.Equal(t, int64(3), stats.UniqueVisitors)
	require.NotEmpty(t, stats.TopPages)
	assert.Equal(t, dto.Counter{Key: "/hotels", Count: 6}, stats.TopPages[0])
	assert.Equal(t, dto.Counter{Key: "direct", Count: 5}, stats.TopReferrers[0])

	assert.Equal(t, 19, stats.TotalListings)
	assert.Equal(t, int64(3), stats.TotalClicks)
	require.Len(t, stats.TopCategories, 5)
	assert.Equal(t, "transport", stats.TopCategories[0].CategoryID)
	assert.Equal(t, int64(2), stats.TopCategories[0].TotalClicks)
	assert.Equal(t, 5, stats.TopCategories[0].ListingCount)
	assert.Equal(t, "hotels", stats.TopCategories[1].CategoryID)
}

func TestStatsUseCase_GetStatsDefaultsDays(t *testing.T) {
	uc, _ := newStatsFixture(&MockCacheRepository{})

	stats := uc.GetStats(context.Background(), 0)

	assert.Equal(t, 7, stats.Days)
	assert.Empty(t, stats.Daily)
}

package usecase

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/domain/repository"
	"github.com/hkgcity/directory/internal/pkg/errors"
	"github.com/hkgcity/directory/internal/usecase/dto"
)

const (
	visitorsKeyPrefix = "visitors:"
	directReferrer    = "direct"
	defaultStatsDays  = 7
	topCountersLimit  = 10
	topCategoryLimit  = 5
)

// StatsUseCase обрабатывает статистику посещений: суточные документы в
// коллекции stats и клики по листингам.
type StatsUseCase struct {
	docs       repository.DocumentRepository
	cache      repository.CacheRepository
	gateway    *Gateway
	catalog    *Catalog
	visitorTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewStatsUseCase(
	docs repository.DocumentRepository,
	cache repository.CacheRepository,
	gateway *Gateway,
	catalog *Catalog,
	visitorTTL time.Duration,
	logger *zap.Logger,
) *StatsUseCase {
	return &StatsUseCase{
		docs:       docs,
		cache:      cache,
		gateway:    gateway,
		catalog:    catalog,
		visitorTTL: visitorTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordPageView increments today's counters. The daily document is created on first use.
func (uc *StatsUseCase) RecordPageView(ctx context.Context, req dto.PageViewRequest) error {
	now := uc.now().UTC()
	date := now.Format(domain.StatsDateLayout)

	// 1. Суточный документ
	initial, err := json.Marshal(domain.TrafficStats{
		Date:          date,
		PageStats:     map[string]int64{},
		ReferrerStats: map[string]int64{},
		CreatedAt:     now,
	})
	if err != nil {
		return fmt.Errorf("encode stats document: %w", err)
	}

	if _, err := uc.docs.Insert(ctx, domain.CollectionStats, date, initial); err != nil {
		uc.logger.Error("Failed to create stats document", zap.String("date", date), zap.Error(err))
		return errors.ErrDatabaseError
	}

	// 2. Счётчики
	deltas := []domain.FieldDelta{
		{Path: []string{"page_views"}, By: 1},
		{Path: []string{"page_stats", req.Page}, By: 1},
		{Path: []string{"referrer_stats", referrerKey(req.Referrer)}, By: 1},
	}
	if uc.isNewVisitor(ctx, date, req.VisitorID) {
		deltas = append(deltas, domain.FieldDelta{Path: []string{"unique_visitors"}, By: 1})
	}

	if err := uc.docs.Increment(ctx, domain.CollectionStats, date, deltas); err != nil {
		uc.logger.Error("Failed to record page view", zap.String("date", date), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (uc *StatsUseCase) isNewVisitor(ctx context.Context, date, visitorID string) bool {
	if visitorID == "" || uc.cache == nil {
		return false
	}

	added, err := uc.cache.AddToSet(ctx, visitorsKeyPrefix+date, visitorID, uc.visitorTTL)
	if err != nil {
		uc.logger.Warn("Failed to track visitor", zap.Error(err))
		return false
	}
	return added
}

// referrerKey reduces a referrer URL to its host; empty means direct traffic.
func referrerKey(referrer string) string {
	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		return directReferrer
	}
	if u, err := url.Parse(referrer); err == nil && u.Host != "" {
		return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	}
	return referrer
}

// GetStats aggregates the last days of traffic together with listing clicks.
func (uc *StatsUseCase) GetStats(ctx context.Context, days int) *dto.StatsResponse {
	if days <= 0 {
		days = defaultStatsDays
	}

	cutoff := uc.now().UTC().AddDate(0, 0, -(days - 1)).Format(domain.StatsDateLayout)

	resp := &dto.StatsResponse{
		Days:  days,
		Daily: make([]domain.TrafficStats, 0, days),
	}

	pages := make(map[string]int64)
	referrers := make(map[string]int64)
	for _, s := range uc.gateway.FetchStats(ctx) {
		if s.Date < cutoff {
			continue
		}
		resp.Daily = append(resp.Daily, s)
		resp.TotalViews += s.PageViews
		resp.UniqueVisitors += s.UniqueVisitors
		for k, v := range s.PageStats {
			pages[k] += v
		}
		for k, v := range s.ReferrerStats {
			referrers[k] += v
		}
	}
	resp.TopPages = topCounters(pages, topCountersLimit)
	resp.TopReferrers = topCounters(referrers, topCountersLimit)

	// Клики читаются из хранилища, а не из снимка каталога
	listings := uc.gateway.FetchListings(ctx).Items
	resp.TotalListings = len(listings)
	resp.TopCategories = topCategories(uc.catalog.Categories(ctx), listings, topCategoryLimit)
	for _, l := range listings {
		resp.TotalClicks += l.ClickCount
	}

	return resp
}

func topCounters(counts map[string]int64, limit int) []dto.Counter {
	result := make([]dto.Counter, 0, len(counts))
	for k, v := range counts {
		result = append(result, dto.Counter{Key: k, Count: v})
	}
	slices.SortFunc(result, func(a, b dto.Counter) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func topCategories(categories []domain.Category, listings []domain.Listing, limit int) []domain.CategoryClicks {
	result := make([]domain.CategoryClicks, 0, len(categories))
	for _, c := range categories {
		entry := domain.CategoryClicks{
			CategoryID: c.ID,
			Name:       c.Name.Resolve(domain.DefaultLocale),
		}
		for _, l := range listings {
			if l.CategoryID == c.ID {
				entry.ListingCount++
				entry.TotalClicks += l.ClickCount
			}
		}
		result = append(result, entry)
	}

	slices.SortStableFunc(result, func(a, b domain.CategoryClicks) int {
		return cmp.Compare(b.TotalClicks, a.TotalClicks)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

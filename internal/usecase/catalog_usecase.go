package usecase

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/pkg/errors"
	"github.com/hkgcity/directory/internal/query"
	"github.com/hkgcity/directory/internal/usecase/dto"
)

// Catalog - снимок категорий и листингов в памяти. Ответ шлюза применяется,
// только если его поколение новее уже применённого. Неудачное чтение снимок
// не затирает; пока обе коллекции не прочитаны успешно, каждое обращение
// повторяет Refresh.
type Catalog struct {
	gateway *Gateway
	logger  *zap.Logger

	mu            sync.RWMutex
	categories    []domain.Category
	categoriesGen uint64
	listings      []domain.Listing
	listingsGen   uint64
	// коллекция хотя бы раз прочитана успешно
	categoriesOK bool
	listingsOK   bool
}

func NewCatalog(gateway *Gateway, logger *zap.Logger) *Catalog {
	return &Catalog{
		gateway: gateway,
		logger:  logger,
	}
}

// Refresh re-reads categories and listings concurrently.
func (c *Catalog) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		c.ApplyCategories(c.gateway.FetchCategories(ctx))
	}()
	go func() {
		defer wg.Done()
		c.ApplyListings(c.gateway.FetchListings(ctx))
	}()

	wg.Wait()
}

// ApplyListings stores f unless a newer generation was already applied.
// A failed fetch is discarded so the previous snapshot survives.
func (c *Catalog) ApplyListings(f Fetch[domain.Listing]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f.Failed {
		c.logger.Warn("Keeping previous listings snapshot after failed fetch",
			zap.Uint64("generation", f.Generation),
			zap.Int("kept", len(c.listings)),
		)
		return false
	}
	if f.Generation <= c.listingsGen {
		c.logger.Debug("Discarding stale listings response",
			zap.Uint64("generation", f.Generation),
			zap.Uint64("applied", c.listingsGen),
		)
		return false
	}

	c.listings = f.Items
	c.listingsGen = f.Generation
	c.listingsOK = true
	return true
}

// ApplyCategories stores f unless a newer generation was already applied.
// A failed fetch is discarded so the previous snapshot survives.
func (c *Catalog) ApplyCategories(f Fetch[domain.Category]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f.Failed {
		c.logger.Warn("Keeping previous categories snapshot after failed fetch",
			zap.Uint64("generation", f.Generation),
			zap.Int("kept", len(c.categories)),
		)
		return false
	}
	if f.Generation <= c.categoriesGen {
		c.logger.Debug("Discarding stale categories response",
			zap.Uint64("generation", f.Generation),
			zap.Uint64("applied", c.categoriesGen),
		)
		return false
	}

	c.categories = f.Items
	c.categoriesGen = f.Generation
	c.categoriesOK = true
	return true
}

func (c *Catalog) ensureLoaded(ctx context.Context) {
	c.mu.RLock()
	loaded := c.categoriesOK && c.listingsOK
	c.mu.RUnlock()

	if !loaded {
		c.Refresh(ctx)
	}
}

// Listings returns the listing snapshot. The slice must not be modified.
func (c *Catalog) Listings(ctx context.Context) []domain.Listing {
	c.ensureLoaded(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listings
}

// Categories returns the category snapshot. The slice must not be modified.
func (c *Catalog) Categories(ctx context.Context) []domain.Category {
	c.ensureLoaded(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.categories
}

// CatalogUseCase - публичные сценарии каталога
type CatalogUseCase struct {
	catalog *Catalog
	gateway *Gateway
	logger  *zap.Logger
	now     func() time.Time
}

func NewCatalogUseCase(catalog *Catalog, gateway *Gateway, logger *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		catalog: catalog,
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
	}
}

func activeCategories(categories []domain.Category) []domain.Category {
	result := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		if c.IsActive {
			result = append(result, c)
		}
	}
	slices.SortStableFunc(result, func(a, b domain.Category) int {
		return a.SortOrder - b.SortOrder
	})
	return result
}

func activeListings(listings []domain.Listing) []domain.Listing {
	result := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.IsActive {
			result = append(result, l)
		}
	}
	return result
}

// ListCategories returns active categories ordered by sort order.
func (uc *CatalogUseCase) ListCategories(ctx context.Context, language string) []dto.CategoryResponse {
	locale := domain.ParseLocale(language)
	listings := uc.catalog.Listings(ctx)

	categories := activeCategories(uc.catalog.Categories(ctx))
	result := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		count := len(query.FilterByCategory(listings, c.ID))
		result = append(result, dto.NewCategoryResponse(c, locale, count))
	}
	return result
}

// FindCategory looks up an active category by slug.
func (uc *CatalogUseCase) FindCategory(ctx context.Context, slug string) (*domain.Category, error) {
	for _, c := range uc.catalog.Categories(ctx) {
		if c.Slug == slug && c.IsActive {
			cat := c
			return &cat, nil
		}
	}
	return nil, errors.ErrCategoryNotFound
}

// Browse runs the query pipeline for one category.
func (uc *CatalogUseCase) Browse(ctx context.Context, req dto.BrowseRequest) (*dto.BrowseResponse, error) {
	category, err := uc.FindCategory(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	locale := domain.ParseLocale(req.Language)
	criteria := query.Criteria{
		CategoryID: category.ID,
		Region:     req.Region,
		SubRegion:  req.SubRegion,
		Facets:     req.Facets,
		SortKey:    req.Sort,
		Locale:     locale,
	}

	return uc.browse(ctx, *category, criteria), nil
}

func (uc *CatalogUseCase) browse(ctx context.Context, category domain.Category, criteria query.Criteria) *dto.BrowseResponse {
	listings := uc.catalog.Listings(ctx)
	total := len(query.FilterByCategory(listings, category.ID))
	result := query.Apply(listings, criteria)

	sortKey := criteria.SortKey
	if !query.IsSortKey(sortKey) {
		sortKey = query.SortDefault
	}
	facets := criteria.Facets
	if facets == nil {
		facets = map[string]string{}
	}

	return &dto.BrowseResponse{
		Category: dto.NewCategoryResponse(category, criteria.Locale, total),
		Listings: dto.NewListingResponses(result, criteria.Locale),
		Total:    len(result),
		Applied: dto.AppliedFilters{
			Region:    criteria.Region,
			SubRegion: criteria.SubRegion,
			Facets:    facets,
			SortKey:   sortKey,
		},
	}
}

// Search matches active listings and categories. A blank query returns empty results.
func (uc *CatalogUseCase) Search(ctx context.Context, req dto.SearchRequest) *dto.SearchResponse {
	locale := domain.ParseLocale(req.Language)
	listings, categories := uc.searchDomain(ctx, req.Query, locale)
	return newSearchResponse(req.Query, listings, categories, locale)
}

func newSearchResponse(q string, listings []domain.Listing, categories []domain.Category, locale domain.Locale) *dto.SearchResponse {
	categoryResults := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		categoryResults = append(categoryResults, dto.NewCategoryResponse(c, locale, 0))
	}

	return &dto.SearchResponse{
		Query:      q,
		Listings:   dto.NewListingResponses(listings, locale),
		Categories: categoryResults,
		Total:      len(listings) + len(categories),
	}
}

func (uc *CatalogUseCase) searchDomain(ctx context.Context, q string, locale domain.Locale) ([]domain.Listing, []domain.Category) {
	categories := query.SearchCategories(uc.catalog.Categories(ctx), q, locale)

	// SearchListings returns its input for a blank query; a blank search shows nothing
	if isBlank(q) {
		return []domain.Listing{}, categories
	}
	return query.SearchListings(activeListings(uc.catalog.Listings(ctx)), q, locale), categories
}

// Regions returns the static region taxonomy.
func (uc *CatalogUseCase) Regions(language string) []dto.RegionResponse {
	return dto.NewRegionResponses(domain.ParseLocale(language))
}

// Announcements returns live announcements, optionally limited to one category.
func (uc *CatalogUseCase) Announcements(ctx context.Context, categoryID, language string) []dto.AnnouncementResponse {
	locale := domain.ParseLocale(language)
	now := uc.now()

	result := make([]dto.AnnouncementResponse, 0)
	for _, a := range uc.gateway.FetchAnnouncements(ctx) {
		if !a.IsLive(now) {
			continue
		}
		if categoryID != "" && a.CategoryID != categoryID {
			continue
		}
		result = append(result, dto.AnnouncementResponse{
			ID:         a.ID,
			CategoryID: a.CategoryID,
			Title:      a.Title.Resolve(locale),
			Content:    a.Content.Resolve(locale),
			Image:      a.Image,
			StartDate:  a.StartDate,
			EndDate:    a.EndDate,
		})
	}
	return result
}

// Banners returns live banners, optionally limited to one position.
func (uc *CatalogUseCase) Banners(ctx context.Context, position string) []dto.BannerResponse {
	now := uc.now()

	result := make([]dto.BannerResponse, 0)
	for _, b := range uc.gateway.FetchBanners(ctx) {
		if !b.IsLive(now) {
			continue
		}
		if position != "" && string(b.Position) != position {
			continue
		}
		result = append(result, dto.BannerResponse{
			ID:       b.ID,
			Position: string(b.Position),
			Name:     b.Name,
			Code:     b.Code,
		})
	}
	return result
}

// TrackClick records a click on an active listing without waiting for the store.
func (uc *CatalogUseCase) TrackClick(ctx context.Context, listingID string) error {
	for _, l := range uc.catalog.Listings(ctx) {
		if l.ID == listingID && l.IsActive {
			if !uc.gateway.IncrementListingClicks(ctx, listingID) {
				uc.logger.Warn("Click was not recorded", zap.String("listing_id", listingID))
			}
			return nil
		}
	}
	return errors.ErrListingNotFound
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/domain/repository"
	"github.com/hkgcity/directory/internal/pkg/validator"
	"github.com/hkgcity/directory/internal/seed"
)

// FetchState - состояние загрузки коллекции
type FetchState string

const (
	FetchStateUnfetched      FetchState = "unfetched"
	FetchStateFetching       FetchState = "fetching"
	FetchStatePopulated      FetchState = "populated"
	FetchStateEmptyNeedsSeed FetchState = "empty_needs_seed"
	FetchStateSeeding        FetchState = "seeding"
)

const collectionCacheKeyPrefix = "collection:"

// Fetch - результат чтения коллекции с номером поколения запроса
type Fetch[T any] struct {
	Generation uint64
	Items      []T
	// Failed - хранилище недоступно и в кеше ничего нет; Items пустой
	Failed bool
}

// Gateway - fail-soft доступ к документному хранилищу: ошибки логируются и
// превращаются в пустой результат, пустые listings/categories засеваются
// встроенным каталогом.
type Gateway struct {
	docs     repository.DocumentRepository
	cache    repository.CacheRepository
	streams  repository.StreamRepository
	cacheTTL time.Duration
	logger   *zap.Logger

	mu         sync.Mutex
	states     map[domain.Collection]FetchState
	generation atomic.Uint64
	now        func() time.Time
}

func NewGateway(
	docs repository.DocumentRepository,
	cache repository.CacheRepository,
	streams repository.StreamRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *Gateway {
	return &Gateway{
		docs:     docs,
		cache:    cache,
		streams:  streams,
		cacheTTL: cacheTTL,
		logger:   logger,
		states:   make(map[domain.Collection]FetchState),
		now:      time.Now,
	}
}

// State returns the fetch state of a collection.
func (g *Gateway) State(c domain.Collection) FetchState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s, ok := g.states[c]; ok {
		return s
	}
	return FetchStateUnfetched
}

func (g *Gateway) setState(c domain.Collection, s FetchState) {
	g.mu.Lock()
	g.states[c] = s
	g.mu.Unlock()
}

// FetchAll returns every document of the collection in its default order.
func (g *Gateway) FetchAll(ctx context.Context, c domain.Collection) []domain.Document {
	return g.fetch(ctx, c).Items
}

func (g *Gateway) fetch(ctx context.Context, c domain.Collection) Fetch[domain.Document] {
	gen := g.generation.Add(1)
	g.setState(c, FetchStateFetching)

	docs, err := g.docs.FetchAll(ctx, c, domain.DefaultOrder(c))
	if err != nil {
		g.logger.Error("Failed to fetch collection", zap.String("collection", string(c)), zap.Error(err))
		g.setState(c, FetchStateUnfetched)
		cached, ok := g.cachedCollection(ctx, c)
		return Fetch[domain.Document]{Generation: gen, Items: cached, Failed: !ok}
	}

	if len(docs) == 0 && seedable(c) {
		docs = g.seedAndRefetch(ctx, c)
		if docs == nil {
			return Fetch[domain.Document]{Generation: gen, Items: []domain.Document{}, Failed: true}
		}
	}

	g.setState(c, FetchStatePopulated)
	g.cacheCollection(ctx, c, docs)

	return Fetch[domain.Document]{Generation: gen, Items: docs}
}

func seedable(c domain.Collection) bool {
	return c == domain.CollectionListings || c == domain.CollectionCategories
}

// seedAndRefetch writes the embedded dataset (upsert by id) and reads the collection again.
// Returns nil when seeding failed.
func (g *Gateway) seedAndRefetch(ctx context.Context, c domain.Collection) []domain.Document {
	g.setState(c, FetchStateEmptyNeedsSeed)
	g.logger.Info("Collection is empty, seeding default data", zap.String("collection", string(c)))
	g.setState(c, FetchStateSeeding)

	records, err := g.seedRecords(c)
	if err != nil {
		g.logger.Error("Failed to load seed data", zap.String("collection", string(c)), zap.Error(err))
		g.setState(c, FetchStateUnfetched)
		return nil
	}

	for id, data := range records {
		if err := g.docs.Upsert(ctx, c, id, data); err != nil {
			g.logger.Error("Failed to seed document",
				zap.String("collection", string(c)),
				zap.String("id", id),
				zap.Error(err),
			)
			g.setState(c, FetchStateUnfetched)
			return nil
		}
	}

	g.logger.Info("Seeded default data",
		zap.String("collection", string(c)),
		zap.Int("count", len(records)),
	)

	docs, err := g.docs.FetchAll(ctx, c, domain.DefaultOrder(c))
	if err != nil {
		g.logger.Error("Failed to fetch after seeding", zap.String("collection", string(c)), zap.Error(err))
		g.setState(c, FetchStateUnfetched)
		return nil
	}

	return docs
}

func (g *Gateway) seedRecords(c domain.Collection) (map[string]json.RawMessage, error) {
	ds, err := seed.Load()
	if err != nil {
		return nil, err
	}

	now := g.now().UTC()
	records := make(map[string]json.RawMessage)

	switch c {
	case domain.CollectionListings:
		for _, l := range ds.Listings {
			l.CreatedAt, l.UpdatedAt = now, now
			data, err := json.Marshal(l)
			if err != nil {
				return nil, fmt.Errorf("encode seed listing %s: %w", l.ID, err)
			}
			records[l.ID] = data
		}
	case domain.CollectionCategories:
		for _, cat := range ds.Categories {
			cat.CreatedAt, cat.UpdatedAt = now, now
			data, err := json.Marshal(cat)
			if err != nil {
				return nil, fmt.Errorf("encode seed category %s: %w", cat.ID, err)
			}
			records[cat.ID] = data
		}
	}

	return records, nil
}

func (g *Gateway) cacheCollection(ctx context.Context, c domain.Collection, docs []domain.Document) {
	if g.cache == nil {
		return
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, collectionCacheKeyPrefix+string(c), data, g.cacheTTL); err != nil {
		g.logger.Warn("Failed to cache collection", zap.String("collection", string(c)), zap.Error(err))
	}
}

// cachedCollection returns the last good read of the collection. ok is false
// when nothing usable is cached; docs is then an empty slice.
func (g *Gateway) cachedCollection(ctx context.Context, c domain.Collection) (docs []domain.Document, ok bool) {
	if g.cache == nil {
		return []domain.Document{}, false
	}

	data, err := g.cache.Get(ctx, collectionCacheKeyPrefix+string(c))
	if err != nil || data == nil {
		return []domain.Document{}, false
	}

	if err := json.Unmarshal(data, &docs); err != nil {
		return []domain.Document{}, false
	}

	g.logger.Warn("Serving stale collection from cache",
		zap.String("collection", string(c)),
		zap.Int("count", len(docs)),
	)
	return docs, true
}

func (g *Gateway) invalidate(ctx context.Context, c domain.Collection) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Delete(ctx, collectionCacheKeyPrefix+string(c)); err != nil {
		g.logger.Warn("Failed to invalidate collection cache", zap.String("collection", string(c)), zap.Error(err))
	}
}

// QueryWhere returns documents whose field equals value. Errors yield an empty slice.
func (g *Gateway) QueryWhere(ctx context.Context, c domain.Collection, field string, value any) []domain.Document {
	docs, err := g.docs.QueryWhere(ctx, c, field, value, domain.DefaultOrder(c))
	if err != nil {
		g.logger.Error("Failed to query collection",
			zap.String("collection", string(c)),
			zap.String("field", field),
			zap.Error(err),
		)
		return []domain.Document{}
	}
	return docs
}

// Get returns one document, or nil when missing or on error.
func (g *Gateway) Get(ctx context.Context, c domain.Collection, id string) *domain.Document {
	doc, err := g.docs.Get(ctx, c, id)
	if err != nil {
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			g.logger.Error("Failed to get document",
				zap.String("collection", string(c)),
				zap.String("id", id),
				zap.Error(err),
			)
		}
		return nil
	}
	return doc
}

// Create stores data under a new id (data["id"] when present, else a UUID) and
// stamps created_at/updated_at. Returns ("", false) on failure or id collision.
func (g *Gateway) Create(ctx context.Context, c domain.Collection, data map[string]any) (string, bool) {
	id, _ := data["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	now := g.now().UTC()
	body := make(map[string]any, len(data)+3)
	for k, v := range data {
		body[k] = v
	}
	body["id"] = id
	body["created_at"] = now
	body["updated_at"] = now

	encoded, err := json.Marshal(body)
	if err != nil {
		g.logger.Error("Failed to encode document", zap.String("collection", string(c)), zap.Error(err))
		return "", false
	}

	created, err := g.docs.Insert(ctx, c, id, encoded)
	if err != nil {
		g.logger.Error("Failed to create document", zap.String("collection", string(c)), zap.Error(err))
		return "", false
	}
	if !created {
		g.logger.Warn("Document already exists", zap.String("collection", string(c)), zap.String("id", id))
		return "", false
	}

	g.invalidate(ctx, c)
	return id, true
}

// Update merges patch into the document (last write wins) and bumps updated_at.
func (g *Gateway) Update(ctx context.Context, c domain.Collection, id string, patch map[string]any) bool {
	body := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		if k == "id" || k == "created_at" {
			continue
		}
		body[k] = v
	}
	body["updated_at"] = g.now().UTC()

	encoded, err := json.Marshal(body)
	if err != nil {
		g.logger.Error("Failed to encode patch", zap.String("collection", string(c)), zap.Error(err))
		return false
	}

	if err := g.docs.Patch(ctx, c, id, encoded); err != nil {
		g.logger.Error("Failed to update document",
			zap.String("collection", string(c)),
			zap.String("id", id),
			zap.Error(err),
		)
		return false
	}

	g.invalidate(ctx, c)
	return true
}

func (g *Gateway) Delete(ctx context.Context, c domain.Collection, id string) bool {
	if err := g.docs.Delete(ctx, c, id); err != nil {
		g.logger.Error("Failed to delete document",
			zap.String("collection", string(c)),
			zap.String("id", id),
			zap.Error(err),
		)
		return false
	}

	g.invalidate(ctx, c)
	return true
}

// IncrementListingClicks publishes a click event and returns immediately.
// The click worker applies the increment.
func (g *Gateway) IncrementListingClicks(ctx context.Context, listingID string) bool {
	event := domain.ListingClickEvent{
		EventID:    uuid.New(),
		ListingID:  listingID,
		OccurredAt: g.now().UTC(),
	}

	if err := g.streams.PublishListingClick(ctx, event); err != nil {
		g.logger.Error("Failed to publish click event", zap.String("listing_id", listingID), zap.Error(err))
		return false
	}
	return true
}

// ApplyListingClick performs the atomic click_count + 1.
func (g *Gateway) ApplyListingClick(ctx context.Context, listingID string) error {
	return g.docs.Increment(ctx, domain.CollectionListings, listingID, []domain.FieldDelta{
		{Path: []string{"click_count"}, By: 1},
	})
}

// ============================================================================
// Typed fetchers
// ============================================================================

// FetchListings returns valid listings tagged with the request generation.
func (g *Gateway) FetchListings(ctx context.Context) Fetch[domain.Listing] {
	f := g.fetch(ctx, domain.CollectionListings)
	return Fetch[domain.Listing]{Generation: f.Generation, Items: decodeValid[domain.Listing](g.logger, f.Items), Failed: f.Failed}
}

// FetchCategories returns valid categories tagged with the request generation.
func (g *Gateway) FetchCategories(ctx context.Context) Fetch[domain.Category] {
	f := g.fetch(ctx, domain.CollectionCategories)
	return Fetch[domain.Category]{Generation: f.Generation, Items: decodeValid[domain.Category](g.logger, f.Items), Failed: f.Failed}
}

func (g *Gateway) FetchAnnouncements(ctx context.Context) []domain.Announcement {
	return decodeValid[domain.Announcement](g.logger, g.FetchAll(ctx, domain.CollectionAnnouncements))
}

func (g *Gateway) FetchBanners(ctx context.Context) []domain.Banner {
	return decodeValid[domain.Banner](g.logger, g.FetchAll(ctx, domain.CollectionBanners))
}

func (g *Gateway) FetchStats(ctx context.Context) []domain.TrafficStats {
	return decodeAll[domain.TrafficStats](g.logger, g.FetchAll(ctx, domain.CollectionStats))
}

// decodeAll decodes document bodies; the document id wins over any "id" in the body.
func decodeAll[T any](logger *zap.Logger, docs []domain.Document) []T {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := decodeDocument(doc, &item); err != nil {
			logger.Warn("Skipping undecodable document",
				zap.String("collection", string(doc.Collection)),
				zap.String("id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	return items
}

// decodeValid is decodeAll plus struct validation; invalid records never reach the engine.
func decodeValid[T any](logger *zap.Logger, docs []domain.Document) []T {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := decodeDocument(doc, &item); err != nil {
			logger.Warn("Skipping undecodable document",
				zap.String("collection", string(doc.Collection)),
				zap.String("id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		if err := validator.Validate(item); err != nil {
			logger.Warn("Skipping invalid document",
				zap.String("collection", string(doc.Collection)),
				zap.String("id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	return items
}

func decodeDocument(doc domain.Document, out any) error {
	if err := json.Unmarshal(doc.Data, out); err != nil {
		return err
	}
	idOnly, err := json.Marshal(map[string]string{"id": doc.ID})
	if err != nil {
		return err
	}
	return json.Unmarshal(idOnly, out)
}

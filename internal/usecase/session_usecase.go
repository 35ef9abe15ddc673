package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/pkg/errors"
	"github.com/hkgcity/directory/internal/query"
	"github.com/hkgcity/directory/internal/state"
	"github.com/hkgcity/directory/internal/usecase/dto"
)

// SessionUseCase - view-state сессии просмотра. Каждая операция загружает
// снимок store, выполняет переход и сохраняет снимок обратно.
type SessionUseCase struct {
	persister state.Persister
	catalog   *CatalogUseCase
	logger    *zap.Logger
}

func NewSessionUseCase(persister state.Persister, catalog *CatalogUseCase, logger *zap.Logger) *SessionUseCase {
	return &SessionUseCase{
		persister: persister,
		catalog:   catalog,
		logger:    logger,
	}
}

// Create starts a session with default filter and search state.
func (uc *SessionUseCase) Create(ctx context.Context) (*dto.SessionResponse, error) {
	id := uuid.NewString()

	if err := state.SaveFilter(ctx, uc.persister, id, state.NewFilterStore()); err != nil {
		uc.logger.Error("Failed to create session", zap.Error(err))
		return nil, errors.ErrCacheError
	}
	if err := state.SaveSearch(ctx, uc.persister, id, state.NewSearchStore()); err != nil {
		uc.logger.Error("Failed to create session", zap.Error(err))
		return nil, errors.ErrCacheError
	}

	return &dto.SessionResponse{SessionID: id}, nil
}

func (uc *SessionUseCase) loadFilter(ctx context.Context, sessionID string) (*state.FilterStore, error) {
	raw, err := uc.persister.Load(ctx, state.FilterStoreName, sessionID)
	if err != nil {
		uc.logger.Error("Failed to load filter state", zap.String("session_id", sessionID), zap.Error(err))
		return nil, errors.ErrCacheError
	}
	if raw == nil {
		return nil, errors.ErrSessionNotFound
	}

	store, err := state.LoadFilter(ctx, uc.persister, sessionID)
	if err != nil {
		uc.logger.Warn("Discarding unreadable filter state", zap.String("session_id", sessionID), zap.Error(err))
		return state.NewFilterStore(), nil
	}
	return store, nil
}

func (uc *SessionUseCase) updateFilter(
	ctx context.Context,
	sessionID string,
	apply func(s *state.FilterStore) error,
) (*state.FilterState, error) {
	store, err := uc.loadFilter(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := apply(store); err != nil {
		return nil, err
	}

	if err := state.SaveFilter(ctx, uc.persister, sessionID, store); err != nil {
		uc.logger.Error("Failed to save filter state", zap.String("session_id", sessionID), zap.Error(err))
		return nil, errors.ErrCacheError
	}

	snap := store.Snapshot()
	return &snap, nil
}

// Filters returns the current filter state.
func (uc *SessionUseCase) Filters(ctx context.Context, sessionID string) (*state.FilterState, error) {
	store, err := uc.loadFilter(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := store.Snapshot()
	return &snap, nil
}

// SetRegion selects a region (empty clears it) and resets the sub-region.
func (uc *SessionUseCase) SetRegion(ctx context.Context, sessionID, region string) (*state.FilterState, error) {
	if region != "" {
		if _, ok := domain.FindRegion(region); !ok {
			return nil, errors.ErrInvalidRegion
		}
	}

	return uc.updateFilter(ctx, sessionID, func(s *state.FilterStore) error {
		s.SetRegion(region)
		return nil
	})
}

// SetSubRegion selects a sub-region of the current region (empty clears it).
func (uc *SessionUseCase) SetSubRegion(ctx context.Context, sessionID, subRegion string) (*state.FilterState, error) {
	return uc.updateFilter(ctx, sessionID, func(s *state.FilterStore) error {
		if subRegion != "" {
			if _, ok := domain.FindSubRegion(s.Snapshot().Region, subRegion); !ok {
				return errors.ErrInvalidRegion
			}
		}
		s.SetSubRegion(subRegion)
		return nil
	})
}

// SetFacet upserts a facet; an empty value removes it.
func (uc *SessionUseCase) SetFacet(ctx context.Context, sessionID string, req dto.SetFacetRequest) (*state.FilterState, error) {
	return uc.updateFilter(ctx, sessionID, func(s *state.FilterStore) error {
		s.SetFacetFilter(req.Key, req.Value)
		return nil
	})
}

// SetSort selects one of the known sort keys.
func (uc *SessionUseCase) SetSort(ctx context.Context, sessionID, sortKey string) (*state.FilterState, error) {
	if !query.IsSortKey(sortKey) {
		return nil, errors.ErrInvalidSortKey
	}

	return uc.updateFilter(ctx, sessionID, func(s *state.FilterStore) error {
		s.SetSortKey(sortKey)
		return nil
	})
}

// ClearFilters resets region, facets and sort.
func (uc *SessionUseCase) ClearFilters(ctx context.Context, sessionID string) (*state.FilterState, error) {
	return uc.updateFilter(ctx, sessionID, func(s *state.FilterStore) error {
		s.ClearAll()
		return nil
	})
}

// Listings browses a category with the session's stored filters.
func (uc *SessionUseCase) Listings(ctx context.Context, sessionID, slug, language string) (*dto.BrowseResponse, error) {
	store, err := uc.loadFilter(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	category, err := uc.catalog.FindCategory(ctx, slug)
	if err != nil {
		return nil, err
	}

	return uc.catalog.browse(ctx, *category, store.Criteria(category.ID, language)), nil
}

// Search runs a search and stores query and results in the session.
func (uc *SessionUseCase) Search(ctx context.Context, sessionID string, req dto.SessionSearchRequest) (*dto.SearchResponse, error) {
	if _, err := uc.loadFilter(ctx, sessionID); err != nil {
		return nil, err
	}

	store, err := state.LoadSearch(ctx, uc.persister, sessionID)
	if err != nil {
		store = state.NewSearchStore()
	}

	locale := domain.ParseLocale(req.Language)
	listings, categories := uc.catalog.searchDomain(ctx, req.Query, locale)

	store.SetSearchQuery(req.Query)
	if isBlank(req.Query) {
		store.Clear()
	} else {
		store.SetSearching(true)
		store.SetSearchResults(listings)
	}

	if err := state.SaveSearch(ctx, uc.persister, sessionID, store); err != nil {
		uc.logger.Error("Failed to save search state", zap.String("session_id", sessionID), zap.Error(err))
		return nil, errors.ErrCacheError
	}

	return newSearchResponse(req.Query, listings, categories, locale), nil
}

// SearchState returns the stored search state.
func (uc *SessionUseCase) SearchState(ctx context.Context, sessionID string) (*state.SearchState, error) {
	if _, err := uc.loadFilter(ctx, sessionID); err != nil {
		return nil, err
	}

	store, err := state.LoadSearch(ctx, uc.persister, sessionID)
	if err != nil {
		uc.logger.Warn("Discarding unreadable search state", zap.String("session_id", sessionID), zap.Error(err))
		store = state.NewSearchStore()
	}

	snap := store.Snapshot()
	return &snap, nil
}

package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hkgcity/directory/internal/domain"
)

// Store names used as persistence keys
const (
	FilterStoreName = "filter-storage"
	SearchStoreName = "search-storage"
)

// Persister сохраняет и загружает снимки store в виде JSON.
// Load возвращает (nil, nil), если снимка нет.
type Persister interface {
	Save(ctx context.Context, storeName, sessionID string, data []byte) error
	Load(ctx context.Context, storeName, sessionID string) ([]byte, error)
	Remove(ctx context.Context, storeName, sessionID string) error
}

// SaveFilter persists the filter store snapshot.
func SaveFilter(ctx context.Context, p Persister, sessionID string, s *FilterStore) error {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal filter state: %w", err)
	}
	return p.Save(ctx, FilterStoreName, sessionID, data)
}

// LoadFilter restores the filter store, or returns a fresh one when nothing is stored.
func LoadFilter(ctx context.Context, p Persister, sessionID string) (*FilterStore, error) {
	data, err := p.Load(ctx, FilterStoreName, sessionID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return NewFilterStore(), nil
	}

	var snap FilterState
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal filter state: %w", err)
	}
	return RestoreFilterStore(snap), nil
}

// SaveSearch persists the search store snapshot.
func SaveSearch(ctx context.Context, p Persister, sessionID string, s *SearchStore) error {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal search state: %w", err)
	}
	return p.Save(ctx, SearchStoreName, sessionID, data)
}

// LoadSearch restores the search store, or returns a fresh one when nothing is stored.
func LoadSearch(ctx context.Context, p Persister, sessionID string) (*SearchStore, error) {
	data, err := p.Load(ctx, SearchStoreName, sessionID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return NewSearchStore(), nil
	}

	var snap SearchState
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal search state: %w", err)
	}
	return RestoreSearchStore(snap), nil
}

func parseLocale(s string) domain.Locale {
	return domain.ParseLocale(s)
}

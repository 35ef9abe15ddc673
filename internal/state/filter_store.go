// Package state holds the view-scoped filter and search state of a browsing
// session. Stores are plain in-memory containers with synchronous transitions
// and no I/O; persistence is left to a Persister owned by the caller.
package state

import (
	"maps"
	"sync"

	"github.com/hkgcity/directory/internal/query"
)

// FilterState - снимок состояния фильтров
type FilterState struct {
	Region       string            `json:"region,omitempty"`
	SubRegion    string            `json:"sub_region,omitempty"`
	FacetFilters map[string]string `json:"facet_filters"`
	SortKey      string            `json:"sort_key"`
}

// DefaultFilterState возвращает начальное состояние
func DefaultFilterState() FilterState {
	return FilterState{
		FacetFilters: map[string]string{},
		SortKey:      query.SortDefault,
	}
}

// FilterStore хранит регион, фасеты и сортировку текущего представления категории
type FilterStore struct {
	mu    sync.RWMutex
	state FilterState
}

// NewFilterStore создаёт store в начальном состоянии
func NewFilterStore() *FilterStore {
	return &FilterStore{state: DefaultFilterState()}
}

// RestoreFilterStore создаёт store из сохранённого снимка
func RestoreFilterStore(s FilterState) *FilterStore {
	if s.FacetFilters == nil {
		s.FacetFilters = map[string]string{}
	} else {
		s.FacetFilters = maps.Clone(s.FacetFilters)
	}
	if s.SortKey == "" {
		s.SortKey = query.SortDefault
	}
	return &FilterStore{state: s}
}

// SetRegion sets the region and clears the sub-region, which is only
// meaningful relative to its parent region.
func (s *FilterStore) SetRegion(region string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Region = region
	s.state.SubRegion = ""
}

// SetSubRegion sets the sub-region without touching the region.
func (s *FilterStore) SetSubRegion(subRegion string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SubRegion = subRegion
}

// SetFacetFilter upserts one facet. An empty value removes it.
func (s *FilterStore) SetFacetFilter(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		delete(s.state.FacetFilters, key)
		return
	}
	s.state.FacetFilters[key] = value
}

// SetSortKey replaces the sort key.
func (s *FilterStore) SetSortKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SortKey = key
}

// ClearAll resets region, sub-region, facets and sort key. Idempotent.
func (s *FilterStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = DefaultFilterState()
}

// Snapshot returns a copy of the current state.
func (s *FilterStore) Snapshot() FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.FacetFilters = maps.Clone(s.state.FacetFilters)
	return snap
}

// Criteria builds query criteria for a category from the current state.
func (s *FilterStore) Criteria(categoryID string, locale string) query.Criteria {
	snap := s.Snapshot()
	return query.Criteria{
		CategoryID: categoryID,
		Region:     snap.Region,
		SubRegion:  snap.SubRegion,
		Facets:     snap.FacetFilters,
		SortKey:    snap.SortKey,
		Locale:     parseLocale(locale),
	}
}

package state

import (
	"slices"
	"sync"

	"github.com/hkgcity/directory/internal/domain"
)

// SearchState - снимок состояния поиска
type SearchState struct {
	Query       string           `json:"query"`
	Results     []domain.Listing `json:"results"`
	IsSearching bool             `json:"is_searching"`
}

// SearchStore хранит строку поиска и результаты. Не зависит от FilterStore:
// искать можно вне страницы категории.
type SearchStore struct {
	mu    sync.RWMutex
	state SearchState
}

// NewSearchStore создаёт пустой store
func NewSearchStore() *SearchStore {
	return &SearchStore{state: SearchState{Results: []domain.Listing{}}}
}

// RestoreSearchStore создаёт store из сохранённого снимка
func RestoreSearchStore(s SearchState) *SearchStore {
	if s.Results == nil {
		s.Results = []domain.Listing{}
	}
	return &SearchStore{state: s}
}

// SetSearchQuery replaces the query.
func (s *SearchStore) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Query = q
}

// SetSearchResults replaces the results and ends the searching phase.
func (s *SearchStore) SetSearchResults(results []domain.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Results = slices.Clone(results)
	if s.state.Results == nil {
		s.state.Results = []domain.Listing{}
	}
	s.state.IsSearching = false
}

// SetSearching marks a search as in flight.
func (s *SearchStore) SetSearching(searching bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.IsSearching = searching
}

// Clear resets query and results.
func (s *SearchStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = SearchState{Results: []domain.Listing{}}
}

// Snapshot returns a copy of the current state.
func (s *SearchStore) Snapshot() SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Results = slices.Clone(s.state.Results)
	return snap
}

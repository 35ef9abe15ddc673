package postgres_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/domain/repository"
	"github.com/hkgcity/directory/internal/repository/postgres/testhelpers"
)

// DocumentRepositoryTestSuite тестирует DocumentRepository на реальной PostgreSQL
type DocumentRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.DocumentRepository
	ctx    context.Context
}

func (s *DocumentRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.repo = testhelpers.NewDocumentRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *DocumentRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *DocumentRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *DocumentRepositoryTestSuite) upsert(c domain.Collection, id string, body map[string]any) {
	data, err := json.Marshal(body)
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Upsert(s.ctx, c, id, data))
}

func decodeBody(s *DocumentRepositoryTestSuite, doc domain.Document) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(doc.Data, &body))
	return body
}

// ============================================================================
// FetchAll / QueryWhere
// ============================================================================

func (s *DocumentRepositoryTestSuite) TestFetchAll_OrdersNumerically() {
	s.upsert(domain.CollectionListings, "c", map[string]any{"sort_order": 10})
	s.upsert(domain.CollectionListings, "a", map[string]any{"sort_order": 2})
	s.upsert(domain.CollectionListings, "b", map[string]any{"sort_order": 1})
	s.upsert(domain.CollectionCategories, "other", map[string]any{"sort_order": 0})

	docs, err := s.repo.FetchAll(s.ctx, domain.CollectionListings, domain.DefaultOrder(domain.CollectionListings))

	s.NoError(err)
	s.Require().Len(docs, 3)
	s.Equal("b", docs[0].ID)
	s.Equal("a", docs[1].ID)
	s.Equal("c", docs[2].ID)
}

func (s *DocumentRepositoryTestSuite) TestFetchAll_EmptyCollection() {
	docs, err := s.repo.FetchAll(s.ctx, domain.CollectionBanners, domain.DefaultOrder(domain.CollectionBanners))

	s.NoError(err)
	s.Empty(docs)
}

func (s *DocumentRepositoryTestSuite) TestFetchAll_Descending() {
	s.upsert(domain.CollectionStats, "2024-01-01", map[string]any{"date": "2024-01-01"})
	s.upsert(domain.CollectionStats, "2024-01-03", map[string]any{"date": "2024-01-03"})
	s.upsert(domain.CollectionStats, "2024-01-02", map[string]any{"date": "2024-01-02"})

	docs, err := s.repo.FetchAll(s.ctx, domain.CollectionStats, domain.DefaultOrder(domain.CollectionStats))

	s.NoError(err)
	s.Require().Len(docs, 3)
	s.Equal("2024-01-03", docs[0].ID)
	s.Equal("2024-01-01", docs[2].ID)
}

func (s *DocumentRepositoryTestSuite) TestQueryWhere() {
	s.upsert(domain.CollectionListings, "mtr", map[string]any{"category_id": "transport", "is_active": true, "sort_order": 2})
	s.upsert(domain.CollectionListings, "kmb", map[string]any{"category_id": "transport", "is_active": false, "sort_order": 1})
	s.upsert(domain.CollectionListings, "ibis", map[string]any{"category_id": "hotels", "is_active": true, "sort_order": 1})

	byCategory, err := s.repo.QueryWhere(s.ctx, domain.CollectionListings, "category_id", "transport",
		domain.DefaultOrder(domain.CollectionListings))
	s.NoError(err)
	s.Require().Len(byCategory, 2)
	s.Equal("kmb", byCategory[0].ID)

	active, err := s.repo.QueryWhere(s.ctx, domain.CollectionListings, "is_active", true, domain.OrderBy{})
	s.NoError(err)
	s.Len(active, 2)
}

// ============================================================================
// Get / GetMany
// ============================================================================

func (s *DocumentRepositoryTestSuite) TestGet_NotFound() {
	doc, err := s.repo.Get(s.ctx, domain.CollectionListings, "missing")

	s.ErrorIs(err, domain.ErrDocumentNotFound)
	s.Nil(doc)
}

func (s *DocumentRepositoryTestSuite) TestGetMany_SkipsMissing() {
	s.upsert(domain.CollectionListings, "a", map[string]any{})
	s.upsert(domain.CollectionListings, "b", map[string]any{})

	docs, err := s.repo.GetMany(s.ctx, domain.CollectionListings, []string{"a", "b", "zzz"})

	s.NoError(err)
	s.Len(docs, 2)
}

// ============================================================================
// Insert / Upsert / Patch / Delete
// ============================================================================

func (s *DocumentRepositoryTestSuite) TestInsert_DoesNotOverwrite() {
	created, err := s.repo.Insert(s.ctx, domain.CollectionStats, "2024-05-01", json.RawMessage(`{"page_views":1}`))
	s.NoError(err)
	s.True(created)

	created, err = s.repo.Insert(s.ctx, domain.CollectionStats, "2024-05-01", json.RawMessage(`{"page_views":0}`))
	s.NoError(err)
	s.False(created)

	doc, err := s.repo.Get(s.ctx, domain.CollectionStats, "2024-05-01")
	s.Require().NoError(err)
	s.Equal(float64(1), decodeBody(s, *doc)["page_views"])
}

func (s *DocumentRepositoryTestSuite) TestPatch_MergesTopLevelFields() {
	s.upsert(domain.CollectionListings, "mtr", map[string]any{"is_active": true, "sort_order": 1})

	err := s.repo.Patch(s.ctx, domain.CollectionListings, "mtr", json.RawMessage(`{"is_active":false}`))
	s.NoError(err)

	doc, err := s.repo.Get(s.ctx, domain.CollectionListings, "mtr")
	s.Require().NoError(err)
	body := decodeBody(s, *doc)
	s.Equal(false, body["is_active"])
	s.Equal(float64(1), body["sort_order"])
}

func (s *DocumentRepositoryTestSuite) TestPatch_Missing() {
	err := s.repo.Patch(s.ctx, domain.CollectionListings, "missing", json.RawMessage(`{}`))
	s.ErrorIs(err, domain.ErrDocumentNotFound)
}

func (s *DocumentRepositoryTestSuite) TestDelete() {
	s.upsert(domain.CollectionBanners, "top", map[string]any{"position": "top"})

	s.NoError(s.repo.Delete(s.ctx, domain.CollectionBanners, "top"))
	s.ErrorIs(s.repo.Delete(s.ctx, domain.CollectionBanners, "top"), domain.ErrDocumentNotFound)

	count, err := s.repo.Count(s.ctx, domain.CollectionBanners)
	s.NoError(err)
	s.Zero(count)
}

// ============================================================================
// Increment
// ============================================================================

func (s *DocumentRepositoryTestSuite) TestIncrement_NestedPaths() {
	s.upsert(domain.CollectionStats, "2024-05-01", map[string]any{"page_views": 3})

	err := s.repo.Increment(s.ctx, domain.CollectionStats, "2024-05-01", []domain.FieldDelta{
		{Path: []string{"page_views"}, By: 1},
		{Path: []string{"page_stats", "/hotels"}, By: 1},
		{Path: []string{"referrer_stats", "google.com"}, By: 2},
	})
	s.NoError(err)

	doc, err := s.repo.Get(s.ctx, domain.CollectionStats, "2024-05-01")
	s.Require().NoError(err)
	body := decodeBody(s, *doc)
	s.Equal(float64(4), body["page_views"])
	s.Equal(map[string]any{"/hotels": float64(1)}, body["page_stats"])
	s.Equal(map[string]any{"google.com": float64(2)}, body["referrer_stats"])
}

func (s *DocumentRepositoryTestSuite) TestIncrement_ConcurrentClicksAreNotLost() {
	s.upsert(domain.CollectionListings, "mtr", map[string]any{"click_count": 0})

	const clicks = 20
	var wg sync.WaitGroup
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.repo.Increment(s.ctx, domain.CollectionListings, "mtr", []domain.FieldDelta{
				{Path: []string{"click_count"}, By: 1},
			})
		}()
	}
	wg.Wait()

	doc, err := s.repo.Get(s.ctx, domain.CollectionListings, "mtr")
	s.Require().NoError(err)
	s.Equal(float64(clicks), decodeBody(s, *doc)["click_count"])
}

func (s *DocumentRepositoryTestSuite) TestIncrement_Missing() {
	err := s.repo.Increment(s.ctx, domain.CollectionListings, "missing", []domain.FieldDelta{
		{Path: []string{"click_count"}, By: 1},
	})
	s.ErrorIs(err, domain.ErrDocumentNotFound)
}

func TestDocumentRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentRepositoryTestSuite))
}

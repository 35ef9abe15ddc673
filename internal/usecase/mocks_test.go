package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hkgcity/directory/internal/domain"
)

// MockDocumentRepository is a mock of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FetchAll(ctx context.Context, collection domain.Collection, order domain.OrderBy) ([]domain.Document, error) {
	args := m.Called(ctx, collection, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) QueryWhere(ctx context.Context, collection domain.Collection, field string, value any, order domain.OrderBy) ([]domain.Document, error) {
	args := m.Called(ctx, collection, field, value, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Get(ctx context.Context, collection domain.Collection, id string) (*domain.Document, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) GetMany(ctx context.Context, collection domain.Collection, ids []string) ([]domain.Document, error) {
	args := m.Called(ctx, collection, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Insert(ctx context.Context, collection domain.Collection, id string, data json.RawMessage) (bool, error) {
	args := m.Called(ctx, collection, id, data)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) Upsert(ctx context.Context, collection domain.Collection, id string, data json.RawMessage) error {
	args := m.Called(ctx, collection, id, data)
	return args.Error(0)
}

func (m *MockDocumentRepository) Patch(ctx context.Context, collection domain.Collection, id string, patch json.RawMessage) error {
	args := m.Called(ctx, collection, id, patch)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, collection domain.Collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) Increment(ctx context.Context, collection domain.Collection, id string, deltas []domain.FieldDelta) error {
	args := m.Called(ctx, collection, id, deltas)
	return args.Error(0)
}

func (m *MockDocumentRepository) Count(ctx context.Context, collection domain.Collection) (int, error) {
	args := m.Called(ctx, collection)
	return args.Int(0), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) AddToSet(ctx context.Context, key, member string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, member, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration) (int, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle)
	return args.Int(0), args.Error(1)
}

func (m *MockStreamRepository) PublishListingClick(ctx context.Context, event domain.ListingClickEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// memoryDocuments - DocumentRepository в памяти для сценариев из нескольких вызовов
type memoryDocuments struct {
	mu   sync.Mutex
	data map[domain.Collection]map[string]json.RawMessage
}

func newMemoryDocuments() *memoryDocuments {
	return &memoryDocuments{data: make(map[domain.Collection]map[string]json.RawMessage)}
}

func (m *memoryDocuments) put(c domain.Collection, id string, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[c] == nil {
		m.data[c] = make(map[string]json.RawMessage)
	}
	m.data[c][id] = data
}

func (m *memoryDocuments) body(c domain.Collection, id string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[c][id]
	if !ok {
		return nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		panic(err)
	}
	return body
}

func (m *memoryDocuments) FetchAll(_ context.Context, c domain.Collection, _ domain.OrderBy) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.data[c]))
	for id := range m.data[c] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, domain.Document{ID: id, Collection: c, Data: m.data[c][id]})
	}
	return docs, nil
}

func (m *memoryDocuments) QueryWhere(ctx context.Context, c domain.Collection, field string, value any, order domain.OrderBy) ([]domain.Document, error) {
	all, _ := m.FetchAll(ctx, c, order)
	want, _ := json.Marshal(value)

	result := make([]domain.Document, 0)
	for _, doc := range all {
		var body map[string]json.RawMessage
		if err := json.Unmarshal(doc.Data, &body); err != nil {
			continue
		}
		if string(body[field]) == string(want) {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (m *memoryDocuments) Get(_ context.Context, c domain.Collection, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[c][id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return &domain.Document{ID: id, Collection: c, Data: raw}, nil
}

func (m *memoryDocuments) GetMany(ctx context.Context, c domain.Collection, ids []string) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if doc, err := m.Get(ctx, c, id); err == nil {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (m *memoryDocuments) Insert(_ context.Context, c domain.Collection, id string, data json.RawMessage) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[c] == nil {
		m.data[c] = make(map[string]json.RawMessage)
	}
	if _, ok := m.data[c][id]; ok {
		return false, nil
	}
	m.data[c][id] = data
	return true, nil
}

func (m *memoryDocuments) Upsert(_ context.Context, c domain.Collection, id string, data json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[c] == nil {
		m.data[c] = make(map[string]json.RawMessage)
	}
	m.data[c][id] = data
	return nil
}

func (m *memoryDocuments) Patch(_ context.Context, c domain.Collection, id string, patch json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[c][id]
	if !ok {
		return domain.ErrDocumentNotFound
	}

	var body, changes map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}
	if err := json.Unmarshal(patch, &changes); err != nil {
		return err
	}
	for k, v := range changes {
		body[k] = v
	}

	merged, err := json.Marshal(body)
	if err != nil {
		return err
	}
	m.data[c][id] = merged
	return nil
}

func (m *memoryDocuments) Delete(_ context.Context, c domain.Collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[c][id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(m.data[c], id)
	return nil
}

func (m *memoryDocuments) Increment(_ context.Context, c domain.Collection, id string, deltas []domain.FieldDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[c][id]
	if !ok {
		return domain.ErrDocumentNotFound
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}

	for _, d := range deltas {
		node := body
		for _, key := range d.Path[:len(d.Path)-1] {
			next, ok := node[key].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[key] = next
			}
			node = next
		}
		leaf := d.Path[len(d.Path)-1]
		current, _ := node[leaf].(float64)
		node[leaf] = current + float64(d.By)
	}

	updated, err := json.Marshal(body)
	if err != nil {
		return err
	}
	m.data[c][id] = updated
	return nil
}

func (m *memoryDocuments) Count(_ context.Context, c domain.Collection) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data[c]), nil
}

// flakyDocuments - memoryDocuments, у которого можно "уронить" чтение коллекций
type flakyDocuments struct {
	*memoryDocuments
	down atomic.Bool
}

func (f *flakyDocuments) FetchAll(ctx context.Context, c domain.Collection, order domain.OrderBy) ([]domain.Document, error) {
	if f.down.Load() {
		return nil, errors.New("connection refused")
	}
	return f.memoryDocuments.FetchAll(ctx, c, order)
}

// memoryPersister - state.Persister в памяти
type memoryPersister struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryPersister() *memoryPersister {
	return &memoryPersister{data: make(map[string][]byte)}
}

func (p *memoryPersister) Save(_ context.Context, storeName, sessionID string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[storeName+":"+sessionID] = append([]byte(nil), data...)
	return nil
}

func (p *memoryPersister) Load(_ context.Context, storeName, sessionID string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.data[storeName+":"+sessionID]
	if !ok {
		return nil, nil
	}
	return data, nil
}

func (p *memoryPersister) Remove(_ context.Context, storeName, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, storeName+":"+sessionID)
	return nil
}

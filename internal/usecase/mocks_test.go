package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/analoghub/backend/internal/domain"
)

// MockSearchGateway is a mock implementation of domain.SearchGateway
type MockSearchGateway struct {
	searchFn func(index string, query domain.Query) (*domain.SearchHits, error)
	docs     map[string]json.RawMessage
	fetchErr error
	queries  []domain.Query
	indices  []string
}

func NewMockSearchGateway() *MockSearchGateway {
	return &MockSearchGateway{docs: make(map[string]json.RawMessage)}
}

func (m *MockSearchGateway) Search(ctx context.Context, index string, query domain.Query) (*domain.SearchHits, error) {
	m.queries = append(m.queries, query)
	m.indices = append(m.indices, index)
	if m.searchFn == nil {
		return &domain.SearchHits{}, nil
	}
	return m.searchFn(index, query)
}

func (m *MockSearchGateway) FetchByID(ctx context.Context, index, id string) (json.RawMessage, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	doc, ok := m.docs[index+"/"+id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// hitsOf encodes docs as a search result
func hitsOf(docs ...interface{}) *domain.SearchHits {
	hits := &domain.SearchHits{Total: len(docs)}
	for _, d := range docs {
		raw, _ := json.Marshal(d)
		hits.Sources = append(hits.Sources, raw)
	}
	return hits
}

// mustClause digs the must clause out of a built query
func mustClause(q domain.Query) (string, map[string]interface{}) {
	must := q["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].(map[string]interface{})
	for name, body := range must {
		return name, body.(map[string]interface{})
	}
	return "", nil
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data     map[string]interface{}
	getError error
	setError error
	ttls     map[string]time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	if m.getError != nil {
		return false, m.getError
	}
	_, ok := m.data[key]
	return ok, nil
}

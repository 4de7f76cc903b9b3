package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/textnorm"
)

// Default page window of interactive searches
const (
	DefaultPageSize = 20
)

// Search fields per index and mode
var (
	analogNgramFields   = []string{domain.FieldAnalogNameNgram, domain.FieldBaseNameNgram}
	analogStringFields  = []string{domain.FieldAnalogName, domain.FieldBaseName}
	productNgramFields  = []string{domain.FieldProductNameNgram, domain.FieldProductSearch}
	productStringFields = []string{domain.FieldProductName}
)

// SearchServiceConfig holds index names for the search service
type SearchServiceConfig struct {
	AnalogIndex  string
	ProductIndex string
}

// SearchRequest is an interactive search
type SearchRequest struct {
	Query        string
	Mode         domain.SearchMode
	Manufacturer string // products only
	PageNumber   int
	PageSize     int
}

// SearchService runs typed searches over the analog and product indices
type SearchService struct {
	gateway      domain.SearchGateway
	builder      *QueryBuilder
	analogIndex  string
	productIndex string
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(gateway domain.SearchGateway, builder *QueryBuilder, config SearchServiceConfig) *SearchService {
	if config.AnalogIndex == "" {
		config.AnalogIndex = "analog"
	}
	if config.ProductIndex == "" {
		config.ProductIndex = "product"
	}
	return &SearchService{
		gateway:      gateway,
		builder:      builder,
		analogIndex:  config.AnalogIndex,
		productIndex: config.ProductIndex,
	}
}

// SearchAnalogs finds analog records matching the normalized query text.
// No match is ErrNotFound.
func (s *SearchService) SearchAnalogs(ctx context.Context, req SearchRequest) ([]domain.AnalogRecord, error) {
	if err := validatePage(req); err != nil {
		return nil, err
	}

	fields := analogNgramFields
	if req.Mode == domain.SearchModeString {
		fields = analogStringFields
	}

	records, err := s.FindAnalogs(ctx, domain.SearchQuery{
		Fields:     fields,
		Text:       textnorm.Normalize(req.Query),
		Mode:       req.Mode,
		PageNumber: req.PageNumber,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}
	return records, nil
}

// SearchProducts finds price-list records, optionally filtered by manufacturer.
// No match is ErrNotFound.
func (s *SearchService) SearchProducts(ctx context.Context, req SearchRequest) ([]domain.ProductRecord, error) {
	if err := validatePage(req); err != nil {
		return nil, err
	}
	manufacturer, err := domain.ParseManufacturerFilter(req.Manufacturer)
	if err != nil {
		return nil, err
	}

	fields := productNgramFields
	if req.Mode == domain.SearchModeString {
		fields = productStringFields
	}

	hits, err := s.gateway.Search(ctx, s.productIndex, s.builder.Build(domain.SearchQuery{
		Fields:       fields,
		Text:         textnorm.Normalize(req.Query),
		Manufacturer: manufacturer,
		Mode:         req.Mode,
		PageNumber:   req.PageNumber,
		PageSize:     req.PageSize,
	}))
	if err != nil {
		return nil, err
	}
	if hits.Empty() {
		return nil, domain.ErrNotFound
	}
	return decodeHits[domain.ProductRecord](hits)
}

// FindAnalogs runs q against the analog index as given. Zero hits is an
// empty slice, not an error, so batch callers can branch on it.
func (s *SearchService) FindAnalogs(ctx context.Context, q domain.SearchQuery) ([]domain.AnalogRecord, error) {
	hits, err := s.gateway.Search(ctx, s.analogIndex, s.builder.Build(q))
	if err != nil {
		return nil, err
	}
	if hits.Empty() {
		return []domain.AnalogRecord{}, nil
	}
	return decodeHits[domain.AnalogRecord](hits)
}

// GetAnalog fetches one analog record by id
func (s *SearchService) GetAnalog(ctx context.Context, id string) (*domain.AnalogRecord, error) {
	return fetchOne[domain.AnalogRecord](ctx, s.gateway, s.analogIndex, id)
}

// GetProduct fetches one product record by id
func (s *SearchService) GetProduct(ctx context.Context, id string) (*domain.ProductRecord, error) {
	return fetchOne[domain.ProductRecord](ctx, s.gateway, s.productIndex, id)
}

func validatePage(req SearchRequest) error {
	if req.PageNumber < 0 || req.PageSize < 1 {
		return fmt.Errorf("%w: page_number must be >= 0 and page_size >= 1", domain.ErrInvalidRequest)
	}
	return nil
}

// decodeHits unmarshals every hit source into T
func decodeHits[T any](hits *domain.SearchHits) ([]T, error) {
	out := make([]T, 0, len(hits.Sources))
	for _, src := range hits.Sources {
		var v T
		if err := json.Unmarshal(src, &v); err != nil {
			return nil, fmt.Errorf("%w: decode hit: %v", domain.ErrBadQuery, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func fetchOne[T any](ctx context.Context, gateway domain.SearchGateway, index, id string) (*T, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	src, err := gateway.FetchByID(ctx, index, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch %s/%s: %w", index, id, err)
	}
	var v T
	if err := json.Unmarshal(src, &v); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", domain.ErrBadQuery, err)
	}
	return &v, nil
}

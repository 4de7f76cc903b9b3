package usecase

import (
	"github.com/analoghub/backend/internal/domain"
)

// Query clause names per search mode
const (
	clauseMultiMatch  = "multi_match"
	clauseQueryString = "query_string"
)

// QueryBuilder assembles search-engine request bodies
type QueryBuilder struct {
	priority []string
}

// NewQueryBuilder creates a builder that expands the PRIORITY filter to the given manufacturers
func NewQueryBuilder(priority []string) *QueryBuilder {
	p := make([]string, len(priority))
	copy(p, priority)
	return &QueryBuilder{priority: p}
}

// MultiMatch builds a bool query matching text over fields, optionally
// filtered by manufacturer.
//
//	{"query": {"bool": {"must": {<clause>: {"query": text, "fields": fields}}, "filter": ...}}}
func (b *QueryBuilder) MultiMatch(fields []string, text, manufacturer string, mode domain.SearchMode) domain.Query {
	clause := clauseMultiMatch
	if mode == domain.SearchModeString {
		clause = clauseQueryString
	}

	boolQuery := map[string]interface{}{
		"must": map[string]interface{}{
			clause: map[string]interface{}{
				"query":  text,
				"fields": fields,
			},
		},
	}

	if filter := b.manufacturerFilter(manufacturer); filter != nil {
		boolQuery["filter"] = filter
	}

	return domain.Query{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}
}

// manufacturerFilter returns the filter clause for manufacturer, or nil for ALL
func (b *QueryBuilder) manufacturerFilter(manufacturer string) map[string]interface{} {
	switch manufacturer {
	case "", domain.ManufacturerAll:
		return nil
	case domain.ManufacturerPriority:
		return map[string]interface{}{
			"terms": map[string]interface{}{domain.FieldManufacturer: b.priority},
		}
	default:
		return map[string]interface{}{
			"term": map[string]interface{}{domain.FieldManufacturer: manufacturer},
		}
	}
}

// Pagination returns the from/size window for a zero-based page
func (b *QueryBuilder) Pagination(page, size int) domain.Query {
	return domain.Query{"from": page * size, "size": size}
}

// Build merges the match clause of q with its pagination window
func (b *QueryBuilder) Build(q domain.SearchQuery) domain.Query {
	query := b.MultiMatch(q.Fields, q.Text, q.Manufacturer, q.Mode)
	for k, v := range b.Pagination(q.PageNumber, q.PageSize) {
		query[k] = v
	}
	return query
}

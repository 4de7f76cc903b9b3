package domain

import (
	"encoding/json"
	"fmt"
)

// Query is a search-engine request body
type Query map[string]interface{}

// SearchMode selects how query text is matched
type SearchMode string

const (
	// SearchModeNgram is fuzzy multi_match over n-gram analyzed fields
	SearchModeNgram SearchMode = "ngram"
	// SearchModeString is query_string matching over keyword fields
	SearchModeString SearchMode = "string"
)

// ParseSearchMode accepts the API names ("ngram_search", "string_search") and the bare modes
func ParseSearchMode(s string) (SearchMode, error) {
	switch s {
	case "", "ngram_search", string(SearchModeNgram):
		return SearchModeNgram, nil
	case "string_search", string(SearchModeString):
		return SearchModeString, nil
	default:
		return "", fmt.Errorf("%w: unknown search type %q", ErrInvalidRequest, s)
	}
}

// SearchQuery describes one paginated search
type SearchQuery struct {
	Fields       []string
	Text         string
	Manufacturer string // "", ManufacturerAll, ManufacturerPriority or a manufacturer name
	Mode         SearchMode
	PageNumber   int
	PageSize     int
}

// SearchHits holds the raw _source documents of a search response.
// An empty hit list is a valid result, not an error.
type SearchHits struct {
	Total   int
	Sources []json.RawMessage
}

// Empty reports whether the search matched nothing
func (h *SearchHits) Empty() bool {
	return h == nil || len(h.Sources) == 0
}

// Index field names
const (
	FieldBaseName         = "base_name_normalized"
	FieldBaseNameNgram    = "base_name_normalized.ngram"
	FieldAnalogName       = "analog_name_normalized"
	FieldAnalogNameNgram  = "analog_name_normalized.ngram"
	FieldProductName      = "name_normalized"
	FieldProductNameNgram = "name_normalized.ngram"
	FieldProductSearch    = "search_field"
	FieldManufacturer     = "manufacturer"
)

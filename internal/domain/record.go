package domain

import (
	"github.com/google/uuid"

	"github.com/analoghub/backend/internal/textnorm"
)

// Document is anything that can be bulk-loaded into the search index.
type Document interface {
	DocumentID() string
}

// AnalogRecord links a base tool to its analog from another manufacturer
type AnalogRecord struct {
	ID                   string `json:"id"`
	BaseName             string `json:"base_name"`
	BaseNameNormalized   string `json:"base_name_normalized"`
	BaseManufacturer     string `json:"base_manufacturer"`
	AnalogName           string `json:"analog_name"`
	AnalogNameNormalized string `json:"analog_name_normalized"`
	AnalogManufacturer   string `json:"analog_manufacturer"`
}

// NewAnalogRecord creates a record with a fresh id and derived normalized names
func NewAnalogRecord(baseName, baseManufacturer, analogName, analogManufacturer string) AnalogRecord {
	return AnalogRecord{
		ID:                   uuid.NewString(),
		BaseName:             baseName,
		BaseNameNormalized:   textnorm.Normalize(baseName),
		BaseManufacturer:     baseManufacturer,
		AnalogName:           analogName,
		AnalogNameNormalized: textnorm.Normalize(analogName),
		AnalogManufacturer:   analogManufacturer,
	}
}

// DocumentID implements Document
func (r AnalogRecord) DocumentID() string { return r.ID }

// ProductRecord is one line of a manufacturer price list
type ProductRecord struct {
	ID             string `json:"id"`
	Article        string `json:"article,omitempty"`
	Name           string `json:"name"`
	NameNormalized string `json:"name_normalized"`
	Manufacturer   string `json:"manufacturer"`
	SearchField    string `json:"search_field,omitempty"` // alternate lookup text when the name is not explicit
	Description    string `json:"description,omitempty"`
	PositionState  string `json:"position_state,omitempty"`
	ProductLine    string `json:"product_line,omitempty"`
}

// NewProductRecord assigns a fresh id and derives NameNormalized from p.Name.
// Any id or normalized name already set on p is overwritten.
func NewProductRecord(p ProductRecord) ProductRecord {
	p.ID = uuid.NewString()
	p.NameNormalized = textnorm.Normalize(p.Name)
	return p
}

// DocumentID implements Document
func (r ProductRecord) DocumentID() string { return r.ID }

package usecase

import (
	"strings"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/textnorm"
)

// RowMapper turns one price-list row into a product record
type RowMapper func(row []string) domain.ProductRecord

// ManufacturerMapping binds a manufacturer to the layout of its price list
type ManufacturerMapping struct {
	Manufacturer string
	MapRow       RowMapper
}

// cell returns row[i], or "" when the row is shorter
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// ManufacturerRegistry is the ordered list of known price-list layouts.
// Lookup by file name takes the first manufacturer whose name prefixes it.
var ManufacturerRegistry = []ManufacturerMapping{
	{domain.Palbit, func(x []string) domain.ProductRecord {
		return domain.ProductRecord{
			Article:       cell(x, 0),
			Name:          cell(x, 1),
			Manufacturer:  domain.Palbit,
			PositionState: cell(x, 4),
			ProductLine:   cell(x, 6),
		}
	}},
	{domain.YG1, func(x []string) domain.ProductRecord {
		desc := cell(x, 1)
		if extra := cell(x, 5); extra != "-" {
			desc += extra
		}
		return domain.ProductRecord{
			Article:      cell(x, 0),
			Name:         cell(x, 0),
			Manufacturer: domain.YG1,
			Description:  desc,
			SearchField:  textnorm.RemoveSeparators(textnorm.RemoveCyrillic(desc)),
			ProductLine:  cell(x, 3),
		}
	}},
	{domain.Vergnano, articleName(domain.Vergnano)},
	{domain.Vargus, articleName(domain.Vargus)},
	{domain.Sanhog, articleNameDescription(domain.Sanhog)},
	{domain.Omap, nameOnly(domain.Omap)},
	{domain.Nanoloy, nameOnly(domain.Nanoloy)},
	{domain.Likon, nameOnly(domain.Likon)},
	{domain.Horn, articleName(domain.Horn)},
	{domain.Helion, articleAsName(domain.Helion)},
	{domain.GabrielMauvais, func(x []string) domain.ProductRecord {
		return domain.ProductRecord{
			Name:         cell(x, 1),
			Description:  cell(x, 3),
			Manufacturer: domain.GabrielMauvais,
		}
	}},
	{domain.Fresal, articleAsName(domain.Fresal)},
	{domain.Derek, nameOnly(domain.Derek)},
	{domain.Brice, articleNameDescription(domain.Brice)},
	{domain.Bribase, articleNameDescription(domain.Bribase)},
	{domain.Askup, nameOnly(domain.Askup)},
	{domain.Ilix, func(x []string) domain.ProductRecord {
		return domain.ProductRecord{
			Article:      cell(x, 0),
			Name:         strings.TrimSpace(cell(x, 1)) + " " + strings.TrimSpace(cell(x, 2)),
			Description:  strings.TrimSpace(cell(x, 3)),
			Manufacturer: domain.Ilix,
		}
	}},
}

func nameOnly(m string) RowMapper {
	return func(x []string) domain.ProductRecord {
		return domain.ProductRecord{Name: cell(x, 0), Manufacturer: m}
	}
}

func articleName(m string) RowMapper {
	return func(x []string) domain.ProductRecord {
		return domain.ProductRecord{Article: cell(x, 0), Name: cell(x, 1), Manufacturer: m}
	}
}

func articleNameDescription(m string) RowMapper {
	return func(x []string) domain.ProductRecord {
		return domain.ProductRecord{
			Article:      cell(x, 0),
			Name:         cell(x, 1),
			Description:  cell(x, 2),
			Manufacturer: m,
		}
	}
}

// articleAsName is for price lists whose article number doubles as the product name
func articleAsName(m string) RowMapper {
	return func(x []string) domain.ProductRecord {
		return domain.ProductRecord{
			Article:      cell(x, 0),
			Name:         cell(x, 0),
			Description:  cell(x, 1),
			Manufacturer: m,
		}
	}
}

// DetectManufacturer finds the mapping for a price-list file name.
// The name is transliterated first so Cyrillic look-alikes match.
func DetectManufacturer(fileName string) (ManufacturerMapping, bool) {
	name := textnorm.Transliterate(fileName)
	for _, m := range ManufacturerRegistry {
		if strings.HasPrefix(name, m.Manufacturer) {
			return m, true
		}
	}
	return ManufacturerMapping{}, false
}

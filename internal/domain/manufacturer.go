package domain

import "fmt"

// Manufacturer filter sentinels
const (
	ManufacturerAll      = "ALL"
	ManufacturerPriority = "PRIORITY"
)

// Known manufacturers. The order is the order in which archive file names
// are matched against manufacturer prefixes.
const (
	Palbit         = "PALBIT"
	YG1            = "YG-1"
	Vergnano       = "VERGNANO"
	Vargus         = "VARGUS"
	Sanhog         = "SANHOG"
	Omap           = "OMAP"
	Nanoloy        = "NANOLOY"
	Likon          = "LIKON"
	Horn           = "HORN"
	Helion         = "HELION"
	GabrielMauvais = "GABRIEL_MAUVAIS"
	Fresal         = "FRESAL"
	Derek          = "DEREK"
	Brice          = "BRICE"
	Bribase        = "Bribase"
	Askup          = "ASKUP"
	Ilix           = "ILIX"
)

// Manufacturers lists every manufacturer with a price-list mapping
var Manufacturers = []string{
	Palbit, YG1, Vergnano, Vargus, Sanhog, Omap, Nanoloy, Likon, Horn,
	Helion, GabrielMauvais, Fresal, Derek, Brice, Bribase, Askup, Ilix,
}

// ParseManufacturerFilter validates a manufacturer filter value.
// Empty means ALL.
func ParseManufacturerFilter(s string) (string, error) {
	switch s {
	case "", ManufacturerAll:
		return ManufacturerAll, nil
	case ManufacturerPriority:
		return ManufacturerPriority, nil
	}
	for _, m := range Manufacturers {
		if m == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown manufacturer %q", ErrInvalidRequest, s)
}

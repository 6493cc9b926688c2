package config

import (
	"fmt"
	"strings"
)

// Vertical names.
const (
	Caffeine = "caffeine"
	Alcohol  = "alcohol"
)

// Vertical describes one independently persisted feature set.
type Vertical struct {
	Name string
	// Unit is the display unit of amounts ("mg", "ml").
	Unit string
	// StorageKey is the key the entry list is persisted under.
	StorageKey string
	DailyLimit int
	// CatalogFile is a user catalog path; empty selects BundledCatalog.
	CatalogFile    string
	BundledCatalog string
	// AmountField is the JSON/YAML field holding the amount in catalog records.
	AmountField string
}

// Verticals returns the caffeine and alcohol definitions with the configured
// limits and catalogs applied.
func (c Config) Verticals() []Vertical {
	return []Vertical{
		{
			Name:           Caffeine,
			Unit:           "mg",
			StorageKey:     "caffeineEntries",
			DailyLimit:     c.Caffeine.DailyLimit,
			CatalogFile:    c.Caffeine.Catalog,
			BundledCatalog: "caffeine_data.json",
			AmountField:    "caffeineMg",
		},
		{
			Name:           Alcohol,
			Unit:           "ml",
			StorageKey:     "alcoholEntries",
			DailyLimit:     c.Alcohol.DailyLimit,
			CatalogFile:    c.Alcohol.Catalog,
			BundledCatalog: "alcohol_data.json",
			AmountField:    "amountML",
		},
	}
}

// Vertical looks up a vertical by name (case-insensitive).
func (c Config) Vertical(name string) (Vertical, error) {
	for _, v := range c.Verticals() {
		if strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return Vertical{}, fmt.Errorf("%w %q (want %s or %s)", ErrUnknownVertical, name, Caffeine, Alcohol)
}

// Default returns the built-in configuration rooted at home.
func Default(home string) Config {
	return defaultConfig(home)
}

package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// CatalogEntry describes one resource to seed at startup.
type CatalogEntry struct {
	ID             string   `toml:"id"`
	OwnerID        string   `toml:"owner_id"`
	Kind           string   `toml:"kind"`
	Name           string   `toml:"name"`
	Capacity       int      `toml:"capacity"`
	UnitPriceCents int64    `toml:"unit_price_cents"`
	Currency       string   `toml:"currency"`
	Category       string   `toml:"category"`
	Location       string   `toml:"location"`
	SessionCount   int      `toml:"session_count"`
	Tags           []string `toml:"tags"`
}

// Catalog is the seed file layout:
//
//	[[resource]]
//	id = "…"
//	kind = "time_slot"
type Catalog struct {
	Resources []CatalogEntry `toml:"resource"`
}

// LoadCatalog decodes a TOML catalogue. Unknown keys are an error.
func LoadCatalog(path string) (*Catalog, error) {
	var cat Catalog
	meta, err := toml.DecodeFile(path, &cat)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("failed to load catalog: unknown keys %v", undecoded)
	}
	return &cat, nil
}

// Package catalog loads the read-only drink lists a user picks entries from.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Tiliavir/sip/internal/log"
	"github.com/Tiliavir/sip/internal/model"
)

//go:embed data/*.json
var bundledFS embed.FS

// Status tells an intentionally empty catalog apart from a failed load.
type Status int

const (
	StatusLoaded Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Catalog is an immutable, ordered list of drinks.
type Catalog struct {
	items  []model.CatalogItem
	status Status
	err    error
}

// Bundled loads one of the catalogs compiled into the binary.
func Bundled(name, amountField string, logger *log.Logger) *Catalog {
	return Load(bundledFS, "data/"+name, amountField, logger)
}

// LoadFile loads a user catalog from disk.
func LoadFile(path, amountField string, logger *log.Logger) *Catalog {
	return Load(os.DirFS(filepath.Dir(path)), filepath.Base(path), amountField, logger)
}

// Load reads and decodes name from fsys. It never fails: read and parse
// errors yield an empty catalog with StatusFailed and are logged.
func Load(fsys fs.FS, name, amountField string, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentCatalog)

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		logger.Warn("catalog not readable", log.FieldPath, name, log.FieldError, err)
		return &Catalog{status: StatusFailed, err: fmt.Errorf("reading catalog %s: %w", name, err)}
	}

	items, err := Decode(data, formatOf(name), amountField)
	if err != nil {
		logger.Warn("catalog not decodable", log.FieldPath, name, log.FieldError, err)
		return &Catalog{status: StatusFailed, err: fmt.Errorf("decoding catalog %s: %w", name, err)}
	}

	logger.Debug("catalog loaded", log.FieldPath, name, log.FieldCount, len(items))
	return New(items)
}

// New wraps already decoded items.
func New(items []model.CatalogItem) *Catalog {
	status := StatusLoaded
	if len(items) == 0 {
		status = StatusEmpty
	}
	return &Catalog{items: append([]model.CatalogItem(nil), items...), status: status}
}

func formatOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Status reports how the catalog was loaded.
func (c *Catalog) Status() Status { return c.status }

// Err returns the load error for StatusFailed catalogs.
func (c *Catalog) Err() error { return c.err }

// Items returns the drinks in resource order.
func (c *Catalog) Items() []model.CatalogItem {
	return append([]model.CatalogItem(nil), c.items...)
}

// ByCategory groups drinks by category, keeping resource order inside a group.
func (c *Catalog) ByCategory() map[string][]model.CatalogItem {
	groups := map[string][]model.CatalogItem{}
	for _, it := range c.items {
		groups[it.Category] = append(groups[it.Category], it)
	}
	return groups
}

// Categories returns the category names sorted alphabetically.
func (c *Catalog) Categories() []string {
	groups := c.ByCategory()
	out := make([]string, 0, len(groups))
	for k := range groups {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Find looks a drink up by name, ignoring case and surrounding space.
func (c *Catalog) Find(name string) (model.CatalogItem, bool) {
	name = strings.TrimSpace(name)
	for _, it := range c.items {
		if strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return model.CatalogItem{}, false
}

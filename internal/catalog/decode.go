package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/sip/internal/model"
)

// Catalog resource formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Decode parses a list of {name, <amountField>, category} records. A record
// without amountField may use a plain "amount" key instead.
func Decode(data []byte, format, amountField string) ([]model.CatalogItem, error) {
	var records []map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	}

	items := make([]model.CatalogItem, 0, len(records))
	for i, r := range records {
		name, _ := r["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("record %d: missing name", i)
		}

		raw, ok := r[amountField]
		if !ok {
			raw, ok = r["amount"]
		}
		if !ok {
			return nil, fmt.Errorf("record %d (%s): missing %q", i, name, amountField)
		}
		amount, err := toInt(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, name, err)
		}
		if amount < 0 {
			return nil, fmt.Errorf("record %d (%s): negative amount %d", i, name, amount)
		}

		category, _ := r["category"].(string)
		category = strings.TrimSpace(category)
		if category == "" {
			category = "Other"
		}

		items = append(items, model.CatalogItem{Name: name, Amount: amount, Category: category})
	}
	return items, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("amount %q is not an integer", n.String())
		}
		return int(i), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("amount %v is not an integer", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("amount has unsupported type %T", v)
	}
}

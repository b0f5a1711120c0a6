package headers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Catalog is the read-only carrier -> expected column name mapping. Inventory
// uploads use the carrier name with an "Inventory" suffix. Loaded once at
// startup; a missing backing file is fatal there.
type Catalog struct {
	expected map[string][]string
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading header catalog %s: %w", path, err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing header catalog %s: %w", path, err)
	}

	c := &Catalog{expected: make(map[string][]string, len(raw))}
	for k, v := range raw {
		c.expected[strings.ToLower(k)] = v
	}

	return c, nil
}

// Expected returns the required headers for a carrier upload. Lookup is
// case-insensitive. An unknown key is a configuration error.
func (c *Catalog) Expected(carrier string, inventory bool) ([]string, error) {
	key := strings.ToLower(carrier)
	if inventory {
		key += "inventory"
	}

	cols, ok := c.expected[key]
	if !ok {
		return nil, fmt.Errorf("no expected headers configured for %q", key)
	}

	return cols, nil
}

// Package fallback holds the built-in name list shown when the store is
// unavailable during a tournament.
package fallback

import (
	_ "embed"
	"fmt"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
)

//go:embed names.yaml
var namesYAML []byte

var (
	loadOnce sync.Once
	loaded   []names.Item
	loadErr  error
)

type entry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
}

// Names returns a fresh copy of the built-in list.
func Names() []names.Item {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(namesYAML)
	})
	if loadErr != nil {
		panic(fmt.Sprintf("fallback: embedded names.yaml: %v", loadErr))
	}
	return names.CloneAll(loaded)
}

// Parse decodes a fallback document. Entries without an id or name are
// rejected.
func Parse(data []byte) ([]names.Item, error) {
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing fallback names: %w", err)
	}
	items := make([]names.Item, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("fallback entry %d: id and name are required", i)
		}
		items = append(items, names.Item{
			ID:          names.ID(e.ID),
			Name:        e.Name,
			Description: e.Description,
			Category:    e.Category,
		})
	}
	return items, nil
}

package marketplace

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/egoavara/codex-plugins/internal/plugin"
)

// LoadIndex loads a marketplace index from the given file path.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", plugin.ErrMarketplaceIndexMissing, path)
		}
		return nil, fmt.Errorf("failed to read marketplace index %s: %w", path, err)
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("invalid marketplace index %s: %w", path, err)
	}

	return &index, nil
}

// Find finds a plugin entry by exact name.
func (m *Index) Find(name string) *Entry {
	for i := range m.Plugins {
		if m.Plugins[i].Name == name {
			return &m.Plugins[i]
		}
	}
	return nil
}

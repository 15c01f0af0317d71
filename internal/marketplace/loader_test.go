package marketplace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/egoavara/codex-plugins/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIndex(t *testing.T) {
	t.Run("loads entries", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "marketplace.json")
		content := `{
			"name": "community",
			"plugins": [
				{"name": "formatter", "source": "github:owner/formatter", "description": "Formats things"},
				{"name": "linter", "source": "./plugins/linter"}
			]
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		index, err := LoadIndex(path)
		require.NoError(t, err)
		assert.Equal(t, "community", index.Name)
		require.Len(t, index.Plugins, 2)
		assert.Equal(t, "github:owner/formatter", index.Plugins[0].Source)
	})

	t.Run("name is optional", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "marketplace.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"plugins":[]}`), 0o644))

		index, err := LoadIndex(path)
		require.NoError(t, err)
		assert.Empty(t, index.Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadIndex(filepath.Join(t.TempDir(), "gone.json"))
		assert.ErrorIs(t, err, plugin.ErrMarketplaceIndexMissing)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "marketplace.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

		_, err := LoadIndex(path)
		assert.Error(t, err)
	})
}

func TestIndexFind(t *testing.T) {
	index := &Index{Plugins: []Entry{
		{Name: "formatter", Source: "gh:o/f"},
		{Name: "linter", Source: "gh:o/l"},
	}}

	entry := index.Find("linter")
	require.NotNil(t, entry)
	assert.Equal(t, "gh:o/l", entry.Source)

	assert.Nil(t, index.Find("ghost"))
}

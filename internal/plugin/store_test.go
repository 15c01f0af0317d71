package plugin

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorePaths(t *testing.T) {
	t.Run("user store", func(t *testing.T) {
		store := UserStore("/home/dev/.codex")

		assert.Equal(t, "/home/dev/.codex/plugins", store.Root())
		assert.Equal(t, ScopeUser, store.Scope())
		assert.Equal(t, filepath.Join("/home/dev/.codex/plugins", RegistryFilename), store.RegistryPath())
		assert.Equal(t, "/home/dev/.codex/plugins/demo", store.PluginDir("demo"))
	})

	t.Run("project store", func(t *testing.T) {
		store := ProjectStore("/work/repo/.codex")

		assert.Equal(t, "/work/repo/.codex/plugins", store.Root())
		assert.Equal(t, ScopeProject, store.Scope())
	})
}

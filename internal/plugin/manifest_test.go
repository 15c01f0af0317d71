package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadManifest(t *testing.T) {
	t.Run("loads from root plugin.json", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, "plugin.json", `{"name":"demo","description":"Demo plugin"}`)

		manifest, err := LoadManifest(root)
		require.NoError(t, err)
		assert.Equal(t, "demo", manifest.Name)
		assert.Equal(t, "Demo plugin", manifest.Description)
	})

	t.Run("loads from .claude-plugin directory", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, ".claude-plugin/plugin.json", `{"name":"demo"}`)

		manifest, err := LoadManifest(root)
		require.NoError(t, err)
		assert.Equal(t, "demo", manifest.Name)
	})

	t.Run("claude-plugin location wins over root", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, ".claude-plugin/plugin.json", `{"name":"inner"}`)
		writeManifest(t, root, "plugin.json", `{"name":"outer"}`)

		manifest, err := LoadManifest(root)
		require.NoError(t, err)
		assert.Equal(t, "inner", manifest.Name)
	})

	t.Run("missing manifest", func(t *testing.T) {
		root := t.TempDir()

		_, err := LoadManifest(root)
		assert.ErrorIs(t, err, ErrManifestNotFound)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, "plugin.json", `{"name":`)

		_, err := LoadManifest(root)
		assert.ErrorIs(t, err, ErrManifestInvalid)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, "plugin.json", `{"name":"demo","future_field":{"nested":true}}`)

		manifest, err := LoadManifest(root)
		require.NoError(t, err)
		assert.Equal(t, "demo", manifest.Name)
	})

	t.Run("mcpServers alias maps to mcp-configs", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, "plugin.json", `{"name":"demo","mcpServers":"./servers"}`)

		manifest, err := LoadManifest(root)
		require.NoError(t, err)
		assert.Equal(t, "./servers", manifest.McpConfigs)
	})

	t.Run("mcp-configs wins over alias", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, "plugin.json", `{"name":"demo","mcp-configs":"./a","mcpServers":"./b"}`)

		manifest, err := LoadManifest(root)
		require.NoError(t, err)
		assert.Equal(t, "./a", manifest.McpConfigs)
	})
}

func TestResolveComponentDir(t *testing.T) {
	t.Run("declared relative path resolves", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "my-commands"), 0o755))
		manifest := &Manifest{Name: "demo", Commands: "./my-commands"}

		got := manifest.ResolveComponentDir(root, ComponentCommands)
		require.NotEmpty(t, got)
		assert.Equal(t, "my-commands", filepath.Base(got))
	})

	t.Run("falls back to conventional directory", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "skills"), 0o755))
		manifest := &Manifest{Name: "demo"}

		got := manifest.ResolveComponentDir(root, ComponentSkills)
		require.NotEmpty(t, got)
		assert.Equal(t, "skills", filepath.Base(got))
	})

	t.Run("mcp-configs conventional name", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "mcp-configs"), 0o755))
		manifest := &Manifest{Name: "demo"}

		got := manifest.ResolveComponentDir(root, ComponentMcpConfigs)
		assert.Equal(t, "mcp-configs", filepath.Base(got))
	})

	t.Run("empty when nothing exists", func(t *testing.T) {
		root := t.TempDir()
		manifest := &Manifest{Name: "demo"}

		assert.Empty(t, manifest.ResolveComponentDir(root, ComponentRules))
	})

	t.Run("empty for absolute declared path", func(t *testing.T) {
		root := t.TempDir()
		manifest := &Manifest{Name: "demo", Hooks: "/etc/hooks"}

		assert.Empty(t, manifest.ResolveComponentDir(root, ComponentHooks))
	})

	t.Run("empty for parent-directory traversal", func(t *testing.T) {
		root := t.TempDir()
		manifest := &Manifest{Name: "demo", Agents: "../outside"}

		assert.Empty(t, manifest.ResolveComponentDir(root, ComponentAgents))
	})

	t.Run("empty for declared path that does not exist", func(t *testing.T) {
		root := t.TempDir()
		manifest := &Manifest{Name: "demo", Commands: "./gone"}

		assert.Empty(t, manifest.ResolveComponentDir(root, ComponentCommands))
	})
}

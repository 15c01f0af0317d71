package installer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/egoavara/codex-plugins/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPluginDir lays out a plugin source directory from relative path to
// content.
func newPluginDir(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func localSource(path string) ResolvedSource {
	return ResolvedSource{Kind: KindLocalPath, Path: path}
}

func TestInstallLocalDirectory(t *testing.T) {
	ctx := context.Background()
	store := plugin.UserStore(t.TempDir())

	source := newPluginDir(t, map[string]string{
		"plugin.json":       `{"name":"demo","description":"Demo plugin"}`,
		"commands/hello.md": "# hello",
	})

	outcome, err := Install(ctx, store, localSource(source))
	require.NoError(t, err)

	assert.Equal(t, "demo", outcome.Entry.Name)
	assert.True(t, outcome.Entry.Enabled)
	assert.Equal(t, plugin.ScopeUser, outcome.Entry.Scope)
	assert.Equal(t, plugin.Policy{}, outcome.Entry.Policy)
	assert.Equal(t, []string{"license missing; verify compliance"}, outcome.Entry.Compliance.Warnings)
	assert.Equal(t, store.PluginDir("demo"), outcome.Root)

	// Files copied into the store.
	assert.FileExists(t, filepath.Join(outcome.Root, "plugin.json"))
	assert.FileExists(t, filepath.Join(outcome.Root, "commands", "hello.md"))

	// Registry reload round-trips the returned entry.
	registry, err := plugin.LoadRegistry(store.RegistryPath())
	require.NoError(t, err)
	require.Len(t, registry.Plugins, 1)
	assert.Equal(t, outcome.Entry, registry.Plugins[0])
}

func TestInstallSkipsGitSubtree(t *testing.T) {
	ctx := context.Background()
	store := plugin.UserStore(t.TempDir())

	source := newPluginDir(t, map[string]string{
		"plugin.json":     `{"name":"demo","license":"MIT"}`,
		".git/HEAD":       "ref: refs/heads/main",
		".git/config":     "[core]",
		"commands/run.md": "# run",
	})

	outcome, err := Install(ctx, store, localSource(source))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outcome.Root, "commands", "run.md"))
	assert.NoDirExists(t, filepath.Join(outcome.Root, ".git"))
}

func TestInstallZipFile(t *testing.T) {
	ctx := context.Background()
	store := plugin.UserStore(t.TempDir())

	data := buildZip(t, map[string][]byte{
		"demo-main/plugin.json":       []byte(`{"name":"demo","license":"MIT"}`),
		"demo-main/skills/x/SKILL.md": []byte("# x"),
	})
	path := filepath.Join(t.TempDir(), "demo.zip")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	outcome, err := Install(ctx, store, localSource(path))
	require.NoError(t, err)

	assert.Equal(t, "demo", outcome.Entry.Name)
	assert.FileExists(t, filepath.Join(outcome.Root, "skills", "x", "SKILL.md"))
	assert.Equal(t, plugin.SourceLocalPath, outcome.Entry.Source.Kind)
}

func TestInstallHookAndScriptDetection(t *testing.T) {
	ctx := context.Background()
	store := plugin.UserStore(t.TempDir())

	source := newPluginDir(t, map[string]string{
		"plugin.json":      `{"name":"demo","hooks":"./hooks"}`,
		"hooks/on-save.sh": "#!/bin/sh",
		"scripts/setup.sh": "#!/bin/sh",
	})

	outcome, err := Install(ctx, store, localSource(source))
	require.NoError(t, err)

	assert.True(t, outcome.Entry.Compliance.HooksDetected)
	assert.True(t, outcome.Entry.Compliance.ScriptsDetected)
	assert.Equal(t, []string{"hooks/scripts detected; policy required"}, outcome.Entry.Compliance.Warnings)
	assert.False(t, outcome.Entry.Policy.AllowHooks)
	assert.False(t, outcome.Entry.Policy.AllowScripts)
}

func TestInstallValidationFailure(t *testing.T) {
	ctx := context.Background()
	store := plugin.UserStore(t.TempDir())

	source := newPluginDir(t, map[string]string{
		"plugin.json": `{"name":"demo","commands":"../evil"}`,
	})

	_, err := Install(ctx, store, localSource(source))
	var validationErr *plugin.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"path escapes plugin root: ../evil"}, validationErr.Errors)

	// Nothing was created in the store.
	assert.NoDirExists(t, store.PluginDir("demo"))
	assert.NoFileExists(t, store.RegistryPath())
}

func TestInstallAlreadyInstalled(t *testing.T) {
	ctx := context.Background()
	store := plugin.UserStore(t.TempDir())

	source := newPluginDir(t, map[string]string{
		"plugin.json": `{"name":"demo","license":"MIT"}`,
	})

	_, err := Install(ctx, store, localSource(source))
	require.NoError(t, err)

	_, err = Install(ctx, store, localSource(source))
	assert.ErrorIs(t, err, plugin.ErrAlreadyInstalled)
}

func TestInstallAlreadyRegistered(t *testing.T) {
	ctx := context.Background()
	store := plugin.UserStore(t.TempDir())

	// Registry entry exists but the plugin directory does not.
	registry := plugin.NewRegistry()
	registry.Plugins = append(registry.Plugins, plugin.RegistryEntry{
		Name:       "demo",
		Enabled:    true,
		Scope:      plugin.ScopeUser,
		Source:     plugin.LocalPathSource("/elsewhere"),
		Compliance: plugin.EmptyComplianceReport(),
	})
	require.NoError(t, registry.Save(store.RegistryPath()))

	source := newPluginDir(t, map[string]string{
		"plugin.json": `{"name":"demo","license":"MIT"}`,
	})

	_, err := Install(ctx, store, localSource(source))
	assert.ErrorIs(t, err, plugin.ErrAlreadyRegistered)
	assert.NoDirExists(t, store.PluginDir("demo"))
}

func TestInstallCopyFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := plugin.UserStore(t.TempDir())

	source := newPluginDir(t, map[string]string{
		"plugin.json":     `{"name":"demo","license":"MIT"}`,
		"commands/run.md": "# run",
	})
	// A socket cannot be opened for reading, so the copy fails after the
	// destination has already started to fill (walk order is lexical).
	listener, err := net.Listen("unix", filepath.Join(source, "zz.sock"))
	require.NoError(t, err)
	defer listener.Close()

	_, err = Install(ctx, store, localSource(source))
	require.Error(t, err)

	// The rollback guard removed the partial destination and the registry
	// was never written.
	assert.NoDirExists(t, store.PluginDir("demo"))
	assert.NoFileExists(t, store.RegistryPath())
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestInstallGitHubRecordsHeadReference(t *testing.T) {
	ctx := context.Background()
	store := plugin.UserStore(t.TempDir())

	data := buildZip(t, map[string][]byte{
		"tool-HEAD/plugin.json": []byte(`{"name":"tool","license":"MIT"}`),
	})

	var requested string
	original := httpClient
	httpClient = &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		requested = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Header:     make(http.Header),
			Body:       io.NopCloser(bytes.NewReader(data)),
		}, nil
	})}
	t.Cleanup(func() { httpClient = original })

	outcome, err := Install(ctx, store, ResolvedSource{Kind: KindGitHub, Repo: "owner/tool"})
	require.NoError(t, err)

	assert.Equal(t, "https://codeload.github.com/owner/tool/zip/HEAD", requested)
	assert.Equal(t, plugin.SourceGitHub, outcome.Entry.Source.Kind)
	assert.Equal(t, "owner/tool", outcome.Entry.Source.Repo)
	assert.Equal(t, "HEAD", outcome.Entry.Source.Reference)
}

func TestCleanupGuard(t *testing.T) {
	t.Run("release removes armed path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dest")
		require.NoError(t, os.MkdirAll(path, 0o755))

		guard := newCleanupGuard(path)
		guard.Release()
		assert.NoDirExists(t, path)
	})

	t.Run("disarm keeps path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dest")
		require.NoError(t, os.MkdirAll(path, 0o755))

		guard := newCleanupGuard(path)
		guard.Disarm()
		guard.Release()
		assert.DirExists(t, path)
	})
}

func TestInstallFromMarketplace(t *testing.T) {
	ctx := context.Background()
	store := plugin.UserStore(t.TempDir())

	indexDir := t.TempDir()
	pluginDir := filepath.Join(indexDir, "plugins", "formatter")
	require.NoError(t, os.MkdirAll(pluginDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "plugin.json"),
		[]byte(`{"name":"formatter","license":"MIT"}`), 0o644))

	index := map[string]any{
		"name": "local-index",
		"plugins": []map[string]string{
			{"name": "formatter", "source": "./plugins/formatter"},
		},
	}
	indexData, err := json.Marshal(index)
	require.NoError(t, err)
	indexPath := filepath.Join(indexDir, "marketplace.json")
	require.NoError(t, os.WriteFile(indexPath, indexData, 0o644))

	t.Run("entry with relative path source", func(t *testing.T) {
		outcome, err := Install(ctx, store, ResolvedSource{
			Kind:      KindMarketplace,
			IndexPath: indexPath,
			Name:      "formatter",
		})
		require.NoError(t, err)

		assert.Equal(t, "formatter", outcome.Entry.Name)
		assert.Equal(t, plugin.SourceMarketplace, outcome.Entry.Source.Kind)
		assert.Equal(t, "formatter", outcome.Entry.Source.Name)
		assert.Equal(t, "./plugins/formatter", outcome.Entry.Source.Origin)
	})

	t.Run("entry not found", func(t *testing.T) {
		_, err := Install(ctx, store, ResolvedSource{
			Kind:      KindMarketplace,
			IndexPath: indexPath,
			Name:      "ghost",
		})
		assert.ErrorIs(t, err, plugin.ErrMarketplaceEntryNotFound)
	})

	t.Run("index missing", func(t *testing.T) {
		_, err := Install(ctx, store, ResolvedSource{
			Kind:      KindMarketplace,
			IndexPath: filepath.Join(indexDir, "gone.json"),
			Name:      "formatter",
		})
		assert.ErrorIs(t, err, plugin.ErrMarketplaceIndexMissing)
	})
}

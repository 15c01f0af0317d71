package installer

import (
	"testing"

	"github.com/egoavara/codex-plugins/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSource(t *testing.T) {
	t.Run("github prefix", func(t *testing.T) {
		resolved, err := ResolveSource("github:owner/repo@v1.2.0", "")
		require.NoError(t, err)
		assert.Equal(t, KindGitHub, resolved.Kind)
		assert.Equal(t, "owner/repo", resolved.Repo)
		assert.Equal(t, "v1.2.0", resolved.Reference)
	})

	t.Run("gh prefix without reference", func(t *testing.T) {
		resolved, err := ResolveSource("gh:owner/repo", "")
		require.NoError(t, err)
		assert.Equal(t, KindGitHub, resolved.Kind)
		assert.Equal(t, "owner/repo", resolved.Repo)
		assert.Empty(t, resolved.Reference)
	})

	t.Run("github with empty repo", func(t *testing.T) {
		_, err := ResolveSource("github:@ref", "")
		assert.ErrorIs(t, err, plugin.ErrSourceMalformed)
	})

	t.Run("http url", func(t *testing.T) {
		resolved, err := ResolveSource("https://example.com/p.zip", "")
		require.NoError(t, err)
		assert.Equal(t, KindURL, resolved.Kind)
		assert.Equal(t, "https://example.com/p.zip", resolved.URL)
	})

	t.Run("non-http scheme treated as path", func(t *testing.T) {
		_, err := ResolveSource("ftp://example.com/p.zip", "")
		assert.ErrorIs(t, err, plugin.ErrSourceUnrecognized)
	})

	t.Run("marketplace prefix", func(t *testing.T) {
		resolved, err := ResolveSource("marketplace:formatter", "/idx/marketplace.json")
		require.NoError(t, err)
		assert.Equal(t, KindMarketplace, resolved.Kind)
		assert.Equal(t, "formatter", resolved.Name)
		assert.Equal(t, "/idx/marketplace.json", resolved.IndexPath)
	})

	t.Run("marketplace prefix without index", func(t *testing.T) {
		_, err := ResolveSource("marketplace:formatter", "")
		assert.ErrorIs(t, err, plugin.ErrMarketplaceUnconfigured)
	})

	t.Run("existing path", func(t *testing.T) {
		dir := t.TempDir()
		resolved, err := ResolveSource(dir, "")
		require.NoError(t, err)
		assert.Equal(t, KindLocalPath, resolved.Kind)
		assert.Equal(t, dir, resolved.Path)
	})

	t.Run("path beats bare marketplace name", func(t *testing.T) {
		dir := t.TempDir()
		resolved, err := ResolveSource(dir, "/idx/marketplace.json")
		require.NoError(t, err)
		assert.Equal(t, KindLocalPath, resolved.Kind)
	})

	t.Run("bare name with index", func(t *testing.T) {
		resolved, err := ResolveSource("formatter", "/idx/marketplace.json")
		require.NoError(t, err)
		assert.Equal(t, KindMarketplace, resolved.Kind)
		assert.Equal(t, "formatter", resolved.Name)
	})

	t.Run("bare name without index", func(t *testing.T) {
		_, err := ResolveSource("formatter", "")
		assert.ErrorIs(t, err, plugin.ErrSourceUnrecognized)
		assert.Contains(t, err.Error(), "Use a path, URL, github:owner/repo@ref, or --marketplace")
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := ResolveSource("", "")
		assert.ErrorIs(t, err, plugin.ErrSourceUnrecognized)

		_, err = ResolveSource("", "/idx/marketplace.json")
		assert.ErrorIs(t, err, plugin.ErrSourceUnrecognized)
	})
}

package installer

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/egoavara/codex-plugins/internal/logger"
	"github.com/egoavara/codex-plugins/internal/marketplace"
	"github.com/egoavara/codex-plugins/internal/plugin"
)

// Install drives the pipeline for a resolved source: stage, load manifest,
// validate, copy into the store under a rollback guard, then register. The
// destination is fully copied before the registry entry appears, and the
// registry write is atomic.
func Install(ctx context.Context, store *plugin.Store, resolved ResolvedSource) (*plugin.InstallOutcome, error) {
	switch resolved.Kind {
	case KindLocalPath:
		staged, err := stageLocal(ctx, resolved.Path)
		if err != nil {
			return nil, err
		}
		defer staged.Cleanup()
		return installFromRoot(store, staged.root, plugin.LocalPathSource(resolved.Path))

	case KindURL:
		staged, err := stageURL(ctx, resolved.URL)
		if err != nil {
			return nil, err
		}
		defer staged.Cleanup()
		return installFromRoot(store, staged.root, plugin.URLSource(resolved.URL))

	case KindGitHub:
		// The registry records the reference the snapshot was actually
		// fetched at, so a bare repo source audits as HEAD.
		reference := resolved.Reference
		if reference == "" {
			reference = "HEAD"
		}
		staged, err := stageGitHub(ctx, resolved.Repo, reference)
		if err != nil {
			return nil, err
		}
		defer staged.Cleanup()
		return installFromRoot(store, staged.root, plugin.GitHubSource(resolved.Repo, reference))

	case KindMarketplace:
		return installFromMarketplace(ctx, store, resolved.IndexPath, resolved.Name)
	}

	return nil, fmt.Errorf("%w: unhandled source kind", plugin.ErrSourceUnrecognized)
}

// installFromMarketplace looks up the named entry in the index and installs
// from whatever source shape the entry declares.
func installFromMarketplace(ctx context.Context, store *plugin.Store, indexPath, name string) (*plugin.InstallOutcome, error) {
	index, err := marketplace.LoadIndex(indexPath)
	if err != nil {
		return nil, err
	}
	entry := index.Find(name)
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", plugin.ErrMarketplaceEntryNotFound, name)
	}

	entrySource := plugin.MarketplaceSource(entry.Name, entry.Source)

	staged, err := stageMarketplaceEntry(ctx, indexPath, entry.Source)
	if err != nil {
		return nil, err
	}
	defer staged.Cleanup()
	return installFromRoot(store, staged.root, entrySource)
}

// stageMarketplaceEntry materializes an index entry's source string:
// github:owner/repo[@ref], an http(s) URL, or a path relative to the index
// file's directory.
func stageMarketplaceEntry(ctx context.Context, indexPath, source string) (*stagedSource, error) {
	if rest, ok := strings.CutPrefix(source, "github:"); ok {
		repo, reference, err := splitGitHubReference(rest)
		if err != nil {
			return nil, err
		}
		return stageGitHub(ctx, repo, reference)
	}

	if parsed, err := url.Parse(source); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		return stageURL(ctx, source)
	}

	base := filepath.Dir(indexPath)
	return stageLocal(ctx, filepath.Join(base, source))
}

// installFromRoot performs steps shared by every source shape once a plugin
// root is on local disk.
func installFromRoot(store *plugin.Store, sourceRoot string, source plugin.Source) (*plugin.InstallOutcome, error) {
	manifest, err := plugin.LoadManifest(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin manifest: %w", err)
	}

	report, err := plugin.Validate(sourceRoot, manifest)
	if err != nil {
		return nil, err
	}
	if len(report.Errors) > 0 {
		return nil, &plugin.ValidationError{Errors: report.Errors}
	}

	destRoot := store.PluginDir(manifest.Name)
	if pathExists(destRoot) {
		return nil, fmt.Errorf("%w: %s", plugin.ErrAlreadyInstalled, manifest.Name)
	}

	registry, err := plugin.LoadRegistry(store.RegistryPath())
	if err != nil {
		return nil, err
	}
	if registry.FindEntry(manifest.Name) != nil {
		return nil, fmt.Errorf("%w: %s", plugin.ErrAlreadyRegistered, manifest.Name)
	}

	if err := os.MkdirAll(store.Root(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plugin store %s: %w", store.Root(), err)
	}

	guard := newCleanupGuard(destRoot)
	defer guard.Release()

	if err := copyPluginDir(sourceRoot, destRoot); err != nil {
		return nil, err
	}

	entry := plugin.RegistryEntry{
		Name:    manifest.Name,
		Enabled: true,
		Scope:   store.Scope(),
		Source:  source,
		Policy:  plugin.Policy{},
		Compliance: plugin.ComplianceReport{
			Errors:          []string{},
			Warnings:        report.Warnings,
			HooksDetected:   report.HooksDetected,
			ScriptsDetected: report.ScriptsDetected,
		},
	}

	registry.Plugins = append(registry.Plugins, entry)
	if err := registry.Save(store.RegistryPath()); err != nil {
		return nil, err
	}

	guard.Disarm()
	logger.Get().Debug().Str("plugin", manifest.Name).Str("dest", destRoot).Msg("plugin installed")

	return &plugin.InstallOutcome{Entry: entry, Manifest: manifest, Root: destRoot}, nil
}

// cleanupGuard removes the install destination on failure. Disarm after the
// registry entry is persisted.
type cleanupGuard struct {
	path  string
	armed bool
}

func newCleanupGuard(path string) *cleanupGuard {
	return &cleanupGuard{path: path, armed: true}
}

// Disarm marks the install as committed; Release becomes a no-op.
func (g *cleanupGuard) Disarm() {
	g.armed = false
}

// Release removes the guarded path unless disarmed. Intended for defer so
// every exit path is covered.
func (g *cleanupGuard) Release() {
	if g.armed {
		os.RemoveAll(g.path)
	}
}

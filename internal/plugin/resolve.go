package plugin

import (
	"fmt"
	"os"

	"github.com/egoavara/codex-plugins/internal/logger"
)

// InstalledPlugin pairs a registry entry with its manifest and on-disk root.
type InstalledPlugin struct {
	Entry    RegistryEntry
	Manifest *Manifest
	Root     string
}

// ComponentDir is one resolved component directory of an enabled plugin.
type ComponentDir struct {
	PluginName string
	Scope      Scope
	Path       string
}

// LoadEnabledPlugins loads every enabled plugin across the given stores.
// Unreadable registries, missing roots, and broken manifests are skipped
// with a warning so one bad plugin cannot take down the host.
func LoadEnabledPlugins(stores []*Store) []InstalledPlugin {
	var plugins []InstalledPlugin
	for _, store := range stores {
		registry, err := LoadRegistry(store.RegistryPath())
		if err != nil {
			logger.Get().Warn().Err(err).Str("path", store.RegistryPath()).Msg("failed to load plugin registry")
			continue
		}
		for _, entry := range registry.Plugins {
			if !entry.Enabled {
				continue
			}
			root := store.PluginDir(entry.Name)
			if !pathExists(root) {
				logger.Get().Warn().Str("plugin", entry.Name).Str("root", root).Msg("plugin missing on disk")
				continue
			}
			manifest, err := LoadManifest(root)
			if err != nil {
				logger.Get().Warn().Err(err).Str("root", root).Msg("failed to load plugin manifest")
				continue
			}
			plugins = append(plugins, InstalledPlugin{Entry: entry, Manifest: manifest, Root: root})
		}
	}
	return plugins
}

// ComponentDirs resolves one component across every enabled plugin in the
// given stores. Hooks are hidden unless the entry's policy allows them.
// McpConfigs accepts a file or a directory; every other component requires
// a directory.
func ComponentDirs(stores []*Store, component Component) []ComponentDir {
	var out []ComponentDir
	for _, installed := range LoadEnabledPlugins(stores) {
		if component == ComponentHooks && !installed.Entry.Policy.AllowHooks {
			continue
		}
		path := installed.Manifest.ResolveComponentDir(installed.Root, component)
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if component != ComponentMcpConfigs && !info.IsDir() {
			continue
		}
		out = append(out, ComponentDir{
			PluginName: installed.Entry.Name,
			Scope:      installed.Entry.Scope,
			Path:       path,
		})
	}
	return out
}

// ResolveStoreForName finds the single store whose registry holds the named
// plugin. No match is ErrNotInstalled; more than one is ErrAmbiguousScope.
func ResolveStoreForName(stores []*Store, name string) (*Store, error) {
	var matches []*Store
	for _, store := range stores {
		registry, err := LoadRegistry(store.RegistryPath())
		if err != nil {
			return nil, err
		}
		if registry.FindEntry(name) != nil {
			matches = append(matches, store)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousScope, name)
	}
}

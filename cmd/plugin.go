package cmd

import (
	"fmt"
	"os"

	"github.com/egoavara/codex-plugins/internal/config"
	"github.com/egoavara/codex-plugins/internal/plugin"
	"github.com/spf13/cobra"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Manage plugins",
	Long: `Manage Codex plugins.

Commands:
  install    Install a plugin from a path, URL, GitHub repo, or marketplace
  list       List installed plugins
  enable     Enable an installed plugin
  disable    Disable an installed plugin
  policy     Manage per-plugin hook/script policy
  search     Search the marketplace index`,
}

func init() {
	pluginCmd.AddCommand(pluginInstallCmd)
	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginEnableCmd)
	pluginCmd.AddCommand(pluginDisableCmd)
	pluginCmd.AddCommand(pluginPolicyCmd)
	pluginCmd.AddCommand(pluginSearchCmd)
}

// storeForScope builds the store for one scope tag relative to the current
// working directory.
func storeForScope(scope plugin.Scope) *plugin.Store {
	if scope == plugin.ScopeProject {
		cwd, _ := os.Getwd()
		return plugin.ProjectStore(config.ProjectCodexDir(cwd))
	}
	return plugin.UserStore(config.CodexHome())
}

// allStores returns both scope stores, project first.
func allStores() []*plugin.Store {
	return []*plugin.Store{
		storeForScope(plugin.ScopeProject),
		storeForScope(plugin.ScopeUser),
	}
}

// parseScope validates a --scope flag value.
func parseScope(value string) (plugin.Scope, error) {
	switch value {
	case "user":
		return plugin.ScopeUser, nil
	case "project":
		return plugin.ScopeProject, nil
	default:
		return "", fmt.Errorf("invalid scope: %s (must be user or project)", value)
	}
}

// resolveTargetStore finds the store holding the named plugin. An explicit
// scope narrows the search to that store; without one, a plugin present in
// both scopes is ambiguous.
func resolveTargetStore(scopeFlag, name string) (*plugin.Store, error) {
	if scopeFlag != "" {
		scope, err := parseScope(scopeFlag)
		if err != nil {
			return nil, err
		}
		return plugin.ResolveStoreForName([]*plugin.Store{storeForScope(scope)}, name)
	}
	return plugin.ResolveStoreForName(allStores(), name)
}

package cmd

import (
	"fmt"

	"github.com/egoavara/codex-plugins/internal/i18n"
	"github.com/egoavara/codex-plugins/internal/plugin"
	"github.com/spf13/cobra"
)

var (
	enableScope  string
	disableScope string
)

var pluginEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable an installed plugin",
	Long: `Enable an installed plugin.

When the plugin is installed in both scopes, --scope is required.

Example:
  codex-plugins plugin enable formatter
  codex-plugins plugin enable formatter --scope project`,
	Args: cobra.ExactArgs(1),
	RunE: runPluginEnable,
}

var pluginDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable an installed plugin",
	Long: `Disable an installed plugin. The files stay in place; the plugin is
skipped when components are resolved.

Example:
  codex-plugins plugin disable formatter
  codex-plugins plugin disable formatter --scope user`,
	Args: cobra.ExactArgs(1),
	RunE: runPluginDisable,
}

func init() {
	pluginEnableCmd.Flags().StringVarP(&enableScope, "scope", "s", "", "scope to target (user or project)")
	pluginDisableCmd.Flags().StringVarP(&disableScope, "scope", "s", "", "scope to target (user or project)")
}

func runPluginEnable(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return setEnabled(args[0], enableScope, true)
}

func runPluginDisable(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return setEnabled(args[0], disableScope, false)
}

func setEnabled(name, scopeFlag string, enabled bool) error {
	store, err := resolveTargetStore(scopeFlag, name)
	if err != nil {
		return err
	}

	registry, err := plugin.LoadRegistry(store.RegistryPath())
	if err != nil {
		return err
	}
	entry := registry.FindEntry(name)
	if entry == nil {
		return fmt.Errorf("%w: %s", plugin.ErrNotInstalled, name)
	}

	entry.Enabled = enabled
	if err := registry.Save(store.RegistryPath()); err != nil {
		return err
	}

	if enabled {
		fmt.Println(i18n.T("PluginEnabled", map[string]any{"Name": name}))
	} else {
		fmt.Println(i18n.T("PluginDisabled", map[string]any{"Name": name}))
	}
	return nil
}

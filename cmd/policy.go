package cmd

import (
	"fmt"
	"strconv"

	"github.com/egoavara/codex-plugins/internal/i18n"
	"github.com/egoavara/codex-plugins/internal/plugin"
	"github.com/spf13/cobra"
)

var (
	policyScope        string
	policyAllowHooks   string
	policyAllowScripts string
)

var pluginPolicyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage per-plugin hook/script policy",
	Long: `Manage the hook and script policy of installed plugins.

Hooks and scripts shipped by a plugin stay inert until explicitly
allowed here.`,
}

var pluginPolicySetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Update a plugin's policy flags",
	Long: `Update a plugin's policy flags. At least one flag is required.

Example:
  codex-plugins plugin policy set formatter --allow-hooks true
  codex-plugins plugin policy set formatter --allow-hooks true --allow-scripts false -s project`,
	Args: cobra.ExactArgs(1),
	RunE: runPluginPolicySet,
}

func init() {
	pluginPolicySetCmd.Flags().StringVarP(&policyScope, "scope", "s", "", "scope to target (user or project)")
	// String-typed so "--allow-hooks true" works alongside "--allow-hooks=true".
	pluginPolicySetCmd.Flags().StringVar(&policyAllowHooks, "allow-hooks", "", "allow the plugin's hooks (true or false)")
	pluginPolicySetCmd.Flags().StringVar(&policyAllowScripts, "allow-scripts", "", "allow the plugin's scripts (true or false)")

	pluginPolicyCmd.AddCommand(pluginPolicySetCmd)
}

func runPluginPolicySet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	name := args[0]

	if policyAllowHooks == "" && policyAllowScripts == "" {
		return fmt.Errorf("%w: specify --allow-hooks or --allow-scripts", plugin.ErrNoChange)
	}

	var allowHooks, allowScripts *bool
	if policyAllowHooks != "" {
		value, err := strconv.ParseBool(policyAllowHooks)
		if err != nil {
			return fmt.Errorf("invalid --allow-hooks value: %s", policyAllowHooks)
		}
		allowHooks = &value
	}
	if policyAllowScripts != "" {
		value, err := strconv.ParseBool(policyAllowScripts)
		if err != nil {
			return fmt.Errorf("invalid --allow-scripts value: %s", policyAllowScripts)
		}
		allowScripts = &value
	}

	store, err := resolveTargetStore(policyScope, name)
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

	if allowHooks != nil {
		entry.Policy.AllowHooks = *allowHooks
	}
	if allowScripts != nil {
		entry.Policy.AllowScripts = *allowScripts
	}

	if err := registry.Save(store.RegistryPath()); err != nil {
		return err
	}

	fmt.Println(i18n.T("PolicyUpdated", map[string]any{
		"Name":    name,
		"Hooks":   entry.Policy.AllowHooks,
		"Scripts": entry.Policy.AllowScripts,
	}))
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/egoavara/codex-plugins/internal/config"
	"github.com/egoavara/codex-plugins/internal/i18n"
	"github.com/egoavara/codex-plugins/internal/installer"
	"github.com/egoavara/codex-plugins/internal/plugin"
	"github.com/spf13/cobra"
)

var (
	installScope       string
	installMarketplace string
)

var pluginInstallCmd = &cobra.Command{
	Use:   "install <source>",
	Short: "Install a plugin",
	Long: `Install a plugin from a source.

Accepted source shapes:
  ./my-plugin                      local directory
  ./my-plugin.zip                  local zip archive
  https://example.com/plugin.zip   remote zip archive
  github:owner/repo@ref            GitHub repository snapshot
  marketplace:formatter            entry in the marketplace index
  formatter                        entry name (requires --marketplace)

Example:
  codex-plugins plugin install ./my-plugin
  codex-plugins plugin install github:owner/repo@v1.2.0 -s project
  codex-plugins plugin install formatter --marketplace ./index.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPluginInstall,
}

func init() {
	pluginInstallCmd.Flags().StringVarP(&installScope, "scope", "s", "user", "install scope (user or project)")
	pluginInstallCmd.Flags().StringVarP(&installMarketplace, "marketplace", "m", "", "path to a marketplace index file")
}

func runPluginInstall(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	scope, err := parseScope(installScope)
	if err != nil {
		return err
	}
	store := storeForScope(scope)

	indexPath := marketplaceIndexPath(installMarketplace)

	resolved, err := installer.ResolveSource(args[0], indexPath)
	if err != nil {
		return err
	}

	if indexPath == "" && resolved.Kind != installer.KindMarketplace {
		fmt.Println(i18n.T("MarketplaceNotConfigured", nil))
	}

	outcome, err := installer.Install(cmd.Context(), store, resolved)
	if err != nil {
		return err
	}

	printInstallSummary(outcome)
	return nil
}

// marketplaceIndexPath returns the index path to consult: the --marketplace
// flag when given, else the default location when the file exists.
func marketplaceIndexPath(flag string) string {
	if flag != "" {
		return flag
	}
	def := config.DefaultMarketplaceIndexPath()
	if _, err := os.Stat(def); err == nil {
		return def
	}
	return ""
}

func printInstallSummary(outcome *plugin.InstallOutcome) {
	fmt.Println(i18n.T("InstallSuccess", map[string]any{
		"Name":  outcome.Entry.Name,
		"Scope": string(outcome.Entry.Scope),
		"Path":  outcome.Root,
	}))

	if len(outcome.Entry.Compliance.Warnings) > 0 {
		fmt.Println(i18n.T("WarningsHeader", nil))
		for _, warning := range outcome.Entry.Compliance.Warnings {
			fmt.Printf("  - %s\n", warning)
		}
	}

	if outcome.Entry.Compliance.HooksDetected || outcome.Entry.Compliance.ScriptsDetected {
		fmt.Println(i18n.T("PolicyHint", map[string]any{"Name": outcome.Entry.Name}))
	}
}

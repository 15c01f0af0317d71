package cmd

import (
	"fmt"
	"os"

	"github.com/egoavara/codex-plugins/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool

	rootCmd = &cobra.Command{
		Use:           "codex-plugins",
		Short:         "CLI tool for managing Codex plugins",
		SilenceErrors: true,
		Long: `codex-plugins installs and manages plugins for Codex.

Plugins are directories carrying a plugin.json manifest. They can be
installed from a local path, a zip archive, an http(s) URL, a GitHub
repository, or a configured marketplace index, into the user scope
(~/.codex/plugins) or the project scope (<project>/.codex/plugins).

Commands:
  plugin       Manage plugins (install, list, enable, disable, policy, search)
  config       Manage configuration
  version      Print version information

Shortcuts (aliases):
  install      = plugin install
  list         = plugin list
  search       = plugin search`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Setup(verbose)
		},
	}
)

// createAliasCommand creates a root-level alias that shares flags with a plugin subcommand
func createAliasCommand(pluginSubCmd *cobra.Command, aliases []string) *cobra.Command {
	aliasCmd := &cobra.Command{
		Use:     pluginSubCmd.Use,
		Short:   pluginSubCmd.Short + " (alias)",
		Long:    pluginSubCmd.Long,
		Args:    pluginSubCmd.Args,
		Aliases: aliases,
		RunE:    pluginSubCmd.RunE,
	}
	// Copy all flags from the original command
	pluginSubCmd.Flags().VisitAll(func(f *pflag.Flag) {
		aliasCmd.Flags().AddFlag(f)
	})
	return aliasCmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(pluginCmd)
	rootCmd.AddCommand(configCmd)
}

// RegisterPluginAliases registers root-level aliases for plugin subcommands
// Must be called after plugin subcommands are initialized
func RegisterPluginAliases() {
	rootCmd.AddCommand(createAliasCommand(pluginInstallCmd, nil))
	rootCmd.AddCommand(createAliasCommand(pluginListCmd, []string{"ls"}))
	rootCmd.AddCommand(createAliasCommand(pluginSearchCmd, nil))
}

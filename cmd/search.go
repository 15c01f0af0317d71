package cmd

import (
	"fmt"
	"strings"

	"github.com/egoavara/codex-plugins/internal/i18n"
	"github.com/egoavara/codex-plugins/internal/installer"
	"github.com/egoavara/codex-plugins/internal/marketplace"
	"github.com/egoavara/codex-plugins/internal/plugin"
	"github.com/egoavara/codex-plugins/internal/search"
	"github.com/egoavara/codex-plugins/internal/tui"
	"github.com/spf13/cobra"
)

var searchMarketplace string

var pluginSearchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search the marketplace index",
	Long: `Search the marketplace index using fuzzy matching.

Without arguments, opens an interactive fuzzy finder (TUI mode).
With a keyword, performs a text-based search.

The search looks through plugin names, descriptions, tags, and keywords.

Example:
  codex-plugins plugin search              # Interactive TUI mode
  codex-plugins plugin search formatter    # Text search mode`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPluginSearch,
}

func init() {
	pluginSearchCmd.Flags().StringVarP(&searchMarketplace, "marketplace", "m", "", "path to a marketplace index file")
}

func runPluginSearch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	indexPath := marketplaceIndexPath(searchMarketplace)
	if indexPath == "" {
		fmt.Println(i18n.T("MarketplaceNotConfigured", nil))
		return nil
	}

	index, err := marketplace.LoadIndex(indexPath)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return runInteractiveSearch(cmd, indexPath, index)
	}

	return runTextSearch(index, args[0])
}

// runInteractiveSearch opens the TUI finder and installs the selection.
func runInteractiveSearch(cmd *cobra.Command, indexPath string, index *marketplace.Index) error {
	installed := make(map[string]bool)
	for _, store := range allStores() {
		registry, err := plugin.LoadRegistry(store.RegistryPath())
		if err != nil {
			continue
		}
		for _, entry := range registry.Plugins {
			installed[entry.Name] = true
		}
	}

	result, err := tui.RunPluginFinder(index, installed)
	if err != nil {
		return err
	}

	if result.Cancelled {
		fmt.Println(i18n.T("SearchCancelled", nil))
		return nil
	}
	if len(result.ToInstall) == 0 {
		fmt.Println(i18n.T("NoChanges", nil))
		return nil
	}

	store := storeForScope(plugin.ScopeUser)
	for _, item := range result.ToInstall {
		resolved := installer.ResolvedSource{
			Kind:      installer.KindMarketplace,
			IndexPath: indexPath,
			Name:      item.Entry.Name,
		}
		outcome, err := installer.Install(cmd.Context(), store, resolved)
		if err != nil {
			fmt.Printf("  %s: %v\n", i18n.T("InstallFailed", map[string]any{"Name": item.Entry.Name}), err)
			continue
		}
		printInstallSummary(outcome)
	}
	return nil
}

// runTextSearch performs keyword search and prints matches.
func runTextSearch(index *marketplace.Index, keyword string) error {
	results := search.FuzzySearch(index, keyword)

	if len(results) == 0 {
		fmt.Println(i18n.T("NoResults", map[string]any{"Keyword": keyword}))
		return nil
	}

	fmt.Println(i18n.T("SearchResults", map[string]any{"Count": len(results)}, len(results)))
	fmt.Println()

	for _, r := range results {
		version := r.Entry.Version
		if version == "" {
			version = "latest"
		}

		fmt.Printf("  %s (v%s)\n", r.Entry.Name, version)

		if r.Entry.Description != "" {
			fmt.Printf("    %s\n", r.Entry.Description)
		}

		if len(r.Entry.Tags) > 0 {
			fmt.Printf("    Tags: %s\n", strings.Join(r.Entry.Tags, ", "))
		}

		if r.Entry.Category != "" {
			fmt.Printf("    Category: %s\n", r.Entry.Category)
		}

		fmt.Println()
	}

	return nil
}

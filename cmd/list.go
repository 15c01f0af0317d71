package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/egoavara/codex-plugins/internal/i18n"
	"github.com/egoavara/codex-plugins/internal/plugin"
	"github.com/spf13/cobra"
)

var listScope string

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed plugins",
	Long: `List installed plugins across scopes.

Example:
  codex-plugins plugin list
  codex-plugins plugin list --scope project`,
	RunE: runPluginList,
}

func init() {
	pluginListCmd.Flags().StringVarP(&listScope, "scope", "s", "", "limit to one scope (user or project)")
}

var listHeaderStyle = lipgloss.NewStyle().Bold(true)

// listRow is one rendered table line.
type listRow struct {
	Name        string
	Status      string
	Scope       plugin.Scope
	Description string
	Compliance  string
}

func runPluginList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	stores := allStores()
	if listScope != "" {
		scope, err := parseScope(listScope)
		if err != nil {
			return err
		}
		stores = []*plugin.Store{storeForScope(scope)}
	}

	var rows []listRow
	for _, store := range stores {
		registry, err := plugin.LoadRegistry(store.RegistryPath())
		if err != nil {
			return err
		}
		for _, entry := range registry.Plugins {
			rows = append(rows, listRow{
				Name:        entry.Name,
				Status:      statusLabel(entry.Enabled),
				Scope:       entry.Scope,
				Description: descriptionFor(store, entry.Name),
				Compliance:  complianceCell(entry.Compliance),
			})
		}
	}

	if len(rows) == 0 {
		fmt.Println(i18n.T("NoPluginsInstalled", nil))
		return nil
	}

	// Name ascending; on equal names the project entry comes first.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].Scope == plugin.ScopeProject && rows[j].Scope != plugin.ScopeProject
	})

	printListTable(rows)
	return nil
}

func statusLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// descriptionFor reads the installed manifest's description. A plugin whose
// directory or manifest vanished still lists, flagged instead of dropped.
func descriptionFor(store *plugin.Store, name string) string {
	manifest, err := plugin.LoadManifest(store.PluginDir(name))
	if err != nil {
		return "manifest missing"
	}
	if manifest.Description == "" {
		return "-"
	}
	return manifest.Description
}

func complianceCell(report plugin.ComplianceReport) string {
	if len(report.Warnings) == 0 {
		return "-"
	}
	return strings.Join(report.Warnings, "; ")
}

func printListTable(rows []listRow) {
	headers := []string{"Name", "Status", "Scope", "Description", "Compliance"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = []string{row.Name, row.Status, string(row.Scope), row.Description, row.Compliance}
		for j, cell := range cells[i] {
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	var headerLine []string
	for i, h := range headers {
		headerLine = append(headerLine, pad(h, widths[i]))
	}
	fmt.Println(listHeaderStyle.Render(strings.Join(headerLine, " | ")))

	for _, row := range cells {
		var line []string
		for i, cell := range row {
			line = append(line, pad(cell, widths[i]))
		}
		fmt.Println(strings.Join(line, " | "))
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

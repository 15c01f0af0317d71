package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestDir is the directory that takes precedence when locating plugin.json.
const ManifestDir = ".claude-plugin"

// ManifestFile is the plugin manifest filename.
const ManifestFile = "plugin.json"

// Author represents the plugin author information.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Manifest represents the plugin.json structure. Component fields are
// relative paths inside the plugin root; empty means "use the conventional
// directory if it exists". Unknown fields are ignored so plugins can grow
// new fields without breaking older hosts.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	Author      *Author  `json:"author,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
	Repository  string   `json:"repository,omitempty"`
	License     string   `json:"license,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Commands    string   `json:"commands,omitempty"`
	Skills      string   `json:"skills,omitempty"`
	Rules       string   `json:"rules,omitempty"`
	Contexts    string   `json:"contexts,omitempty"`
	Hooks       string   `json:"hooks,omitempty"`
	Agents      string   `json:"agents,omitempty"`
	McpConfigs  string   `json:"mcp-configs,omitempty"`
}

// UnmarshalJSON accepts both serialized names for the MCP configs field:
// "mcp-configs" and the legacy "mcpServers".
func (m *Manifest) UnmarshalJSON(data []byte) error {
	type manifestAlias Manifest
	aux := struct {
		*manifestAlias
		McpServers string `json:"mcpServers"`
	}{manifestAlias: (*manifestAlias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if m.McpConfigs == "" {
		m.McpConfigs = aux.McpServers
	}
	return nil
}

// ManifestPath returns the manifest location for a plugin root:
// <root>/.claude-plugin/plugin.json when present, else <root>/plugin.json.
func ManifestPath(root string) string {
	claudePath := filepath.Join(root, ManifestDir, ManifestFile)
	if pathExists(claudePath) {
		return claudePath
	}
	return filepath.Join(root, ManifestFile)
}

// LoadManifest loads and parses the manifest for the given plugin root.
func LoadManifest(root string) (*Manifest, error) {
	path := ManifestPath(root)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, wrapPath(err, path)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestInvalid, path, err)
	}

	return &manifest, nil
}

// ComponentPath returns the manifest-declared path for a component, or ""
// when the manifest does not declare one.
func (m *Manifest) ComponentPath(component Component) string {
	switch component {
	case ComponentCommands:
		return m.Commands
	case ComponentSkills:
		return m.Skills
	case ComponentRules:
		return m.Rules
	case ComponentContexts:
		return m.Contexts
	case ComponentHooks:
		return m.Hooks
	case ComponentAgents:
		return m.Agents
	case ComponentMcpConfigs:
		return m.McpConfigs
	}
	return ""
}

// ResolveComponentDir resolves the on-disk location of a component. The
// declared manifest path wins when present; it must be relative, contain no
// parent-directory segments, exist, and canonicalize inside the canonical
// plugin root. Otherwise the conventional directory name is used if it
// exists. Returns "" when the component cannot be resolved safely.
func (m *Manifest) ResolveComponentDir(root string, component Component) string {
	relative := m.ComponentPath(component)
	if relative != "" {
		if filepath.IsAbs(relative) || hasParentSegment(relative) {
			return ""
		}
	} else {
		fallback := filepath.Join(root, component.DefaultDirName())
		if !pathExists(fallback) {
			return ""
		}
		relative = component.DefaultDirName()
	}

	candidate := filepath.Join(root, relative)
	if !pathExists(candidate) {
		return ""
	}

	canonicalRoot, err := canonicalize(root)
	if err != nil {
		return ""
	}
	canonicalCandidate, err := canonicalize(candidate)
	if err != nil {
		return ""
	}
	if !isWithin(canonicalRoot, canonicalCandidate) {
		return ""
	}
	return canonicalCandidate
}

package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RegistryVersion is the only registry format version this build accepts.
const RegistryVersion = 1

// Scope partitions plugin installations: user-wide or project-local.
type Scope string

const (
	ScopeUser    Scope = "user"
	ScopeProject Scope = "project"
)

// Policy gates whether hooks and scripts discovered by the validator are
// surfaced to consumers. Both default to false.
type Policy struct {
	AllowHooks   bool `json:"allow_hooks"`
	AllowScripts bool `json:"allow_scripts"`
}

// ComplianceReport records validator findings persisted with the entry.
type ComplianceReport struct {
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	HooksDetected   bool     `json:"hooks_detected"`
	ScriptsDetected bool     `json:"scripts_detected"`
}

// EmptyComplianceReport returns a report with no findings.
func EmptyComplianceReport() ComplianceReport {
	return ComplianceReport{Errors: []string{}, Warnings: []string{}}
}

// RuntimeSpec describes an optional plugin runtime binding.
type RuntimeSpec struct {
	Kind       string `json:"kind"`
	Entrypoint string `json:"entrypoint"`
}

// RegistryEntry is a single installed plugin in a scope's registry.
type RegistryEntry struct {
	Name       string           `json:"name"`
	Enabled    bool             `json:"enabled"`
	Scope      Scope            `json:"scope"`
	Source     Source           `json:"source"`
	Policy     Policy           `json:"policy"`
	Compliance ComplianceReport `json:"compliance"`
	Runtime    *RuntimeSpec     `json:"runtime,omitempty"`
}

// Registry is the authoritative index of installed plugins for one scope.
// The on-disk file is the sole source of truth for installed state.
type Registry struct {
	Version int             `json:"version"`
	Plugins []RegistryEntry `json:"plugins"`
}

// NewRegistry returns an empty registry at the current version.
func NewRegistry() *Registry {
	return &Registry{Version: RegistryVersion}
}

// LoadRegistry reads a registry file. A missing file yields an empty
// registry; malformed data or an unsupported version is ErrRegistryCorrupt.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRegistry(), nil
		}
		return nil, wrapPath(err, path)
	}

	var registry Registry
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRegistryCorrupt, path, err)
	}

	// A missing version field reads as the current version.
	if registry.Version == 0 {
		registry.Version = RegistryVersion
	}
	if registry.Version != RegistryVersion {
		return nil, fmt.Errorf("%w: %s: unsupported version %d", ErrRegistryCorrupt, path, registry.Version)
	}

	return &registry, nil
}

// Save serializes the registry pretty-printed and replaces the target
// atomically: write to a temp file in the same directory, then rename.
// Readers never observe a torn write.
func (r *Registry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return wrapPath(err, dir)
	}

	tmp, err := os.CreateTemp(dir, ".installed_plugins-*.json")
	if err != nil {
		return wrapPath(err, dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return wrapPath(err, tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return wrapPath(err, tmpName)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return wrapPath(err, path)
	}
	return nil
}

// FindEntry returns the first entry with the given name, or nil.
func (r *Registry) FindEntry(name string) *RegistryEntry {
	for i := range r.Plugins {
		if r.Plugins[i].Name == name {
			return &r.Plugins[i]
		}
	}
	return nil
}

// InstallOutcome is returned on a successful install.
type InstallOutcome struct {
	Entry    RegistryEntry
	Manifest *Manifest
	Root     string
}

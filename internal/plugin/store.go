package plugin

import "path/filepath"

// RegistryFilename is the per-scope registry file inside a store root.
const RegistryFilename = "installed_plugins.json"

// Store identifies one scope's plugin directory layout. It owns the naming
// convention only; the registry and installer do the I/O.
type Store struct {
	root  string
	scope Scope
}

// UserStore roots the user scope at <codexHome>/plugins.
func UserStore(codexHome string) *Store {
	return &Store{root: filepath.Join(codexHome, "plugins"), scope: ScopeUser}
}

// ProjectStore roots the project scope at <dotCodexDir>/plugins.
func ProjectStore(dotCodexDir string) *Store {
	return &Store{root: filepath.Join(dotCodexDir, "plugins"), scope: ScopeProject}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Scope returns the store's scope tag.
func (s *Store) Scope() Scope {
	return s.scope
}

// RegistryPath returns the registry file path for this scope.
func (s *Store) RegistryPath() string {
	return filepath.Join(s.root, RegistryFilename)
}

// PluginDir returns the install destination for a plugin name.
func (s *Store) PluginDir(name string) string {
	return filepath.Join(s.root, name)
}

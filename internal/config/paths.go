package config

import (
	"os"
	"path/filepath"
)

var homeDir string

func init() {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		homeDir = "~"
	}
}

// CodexHome returns the application home directory: $CODEX_HOME when set,
// else ~/.codex.
func CodexHome() string {
	if home := os.Getenv("CODEX_HOME"); home != "" {
		return home
	}
	return filepath.Join(homeDir, ".codex")
}

// FindProjectRoot ascends from cwd until a .git entry is found; when none
// exists, the working directory itself is the project root.
func FindProjectRoot(cwd string) string {
	cursor := cwd
	for {
		if _, err := os.Lstat(filepath.Join(cursor, ".git")); err == nil {
			return cursor
		}
		parent := filepath.Dir(cursor)
		if parent == cursor {
			return cwd
		}
		cursor = parent
	}
}

// ProjectCodexDir returns the project-scope root: <projectRoot>/.codex.
func ProjectCodexDir(cwd string) string {
	return filepath.Join(FindProjectRoot(cwd), ".codex")
}

// DefaultMarketplaceIndexPath returns the index consulted when --marketplace
// is not given: <codexHome>/marketplace.json.
func DefaultMarketplaceIndexPath() string {
	return filepath.Join(CodexHome(), "marketplace.json")
}

// ConfigDir returns the codex-plugins config directory path.
// ~/.config/codex-plugins/
func ConfigDir() string {
	return filepath.Join(homeDir, ".config", "codex-plugins")
}

// ConfigPath returns the config.json file path.
// ~/.config/codex-plugins/config.json
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

package plugin

import (
	"os"
	"path/filepath"
	"strings"
)

// canonicalize resolves path to an absolute, symlink-free form so that
// prefix comparisons against the plugin root are meaningful.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// isWithin reports whether path is root itself or a descendant of root.
// Both arguments must already be canonical.
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// hasParentSegment reports whether any segment of the relative path is the
// parent-directory token.
func hasParentSegment(path string) bool {
	for _, part := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if part == ".." {
			return true
		}
	}
	return false
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

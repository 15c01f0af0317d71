package plugin

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the install pipeline. Callers match with errors.Is;
// wrapping adds the contextual detail (path, URL, entry name).
var (
	ErrSourceUnrecognized       = errors.New("unknown plugin source")
	ErrSourceMalformed          = errors.New("malformed plugin source")
	ErrSourceUnsupported        = errors.New("source is not a directory or zip archive")
	ErrMarketplaceUnconfigured  = errors.New("marketplace index not configured")
	ErrMarketplaceIndexMissing  = errors.New("marketplace index not found")
	ErrMarketplaceEntryNotFound = errors.New("plugin not found in marketplace")

	ErrFetchFailed = errors.New("download failed")

	ErrArchiveInvalid         = errors.New("invalid zip archive")
	ErrArchiveEntryEscapes    = errors.New("zip entry escapes extraction dir")
	ErrArchiveContainsSymlink = errors.New("zip entry is symlink")
	ErrManifestNotFound       = errors.New("plugin manifest not found")
	ErrManifestInvalid        = errors.New("invalid plugin manifest")

	ErrAlreadyInstalled  = errors.New("plugin is already installed")
	ErrAlreadyRegistered = errors.New("plugin is already registered")
	ErrRegistryCorrupt   = errors.New("plugin registry is corrupt")

	ErrNotInstalled   = errors.New("plugin is not installed")
	ErrAmbiguousScope = errors.New("plugin exists in multiple scopes; use --scope")
	ErrNoChange       = errors.New("no policy changes requested")
)

// ValidationError carries the full list of validator findings that caused
// an install to abort.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "plugin validation failed:\n- " + strings.Join(e.Errors, "\n- ")
}

// wrapPath annotates an I/O error with the path it concerns.
func wrapPath(err error, path string) error {
	return fmt.Errorf("%s: %w", path, err)
}

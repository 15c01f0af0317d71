package installer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/egoavara/codex-plugins/internal/plugin"
)

// SourceKind tags a resolved install source.
type SourceKind int

const (
	// KindLocalPath is an existing filesystem path (directory or zip file).
	KindLocalPath SourceKind = iota
	// KindURL is a remote archive over http or https.
	KindURL
	// KindGitHub is an owner/repo shorthand fetched via codeload.
	KindGitHub
	// KindMarketplace is a named entry looked up in a marketplace index.
	KindMarketplace
)

// ResolvedSource is the normalized install request produced from a raw
// user-supplied source string.
type ResolvedSource struct {
	Kind SourceKind

	Path      string // KindLocalPath
	URL       string // KindURL
	Repo      string // KindGitHub
	Reference string // KindGitHub, may be empty
	IndexPath string // KindMarketplace
	Name      string // KindMarketplace
}

// ResolveSource parses a raw source string into a tagged install request.
// Precedence: github:/gh: prefix, http(s) URL, marketplace: prefix,
// existing filesystem path, then marketplace name when an index is
// configured. marketplaceIndex may be empty when no index is configured.
func ResolveSource(raw string, marketplaceIndex string) (ResolvedSource, error) {
	if strings.TrimSpace(raw) == "" {
		return ResolvedSource{}, fmt.Errorf("%w: empty source", plugin.ErrSourceUnrecognized)
	}

	if rest, ok := stripGitHubPrefix(raw); ok {
		repo, reference, err := splitGitHubReference(rest)
		if err != nil {
			return ResolvedSource{}, err
		}
		return ResolvedSource{Kind: KindGitHub, Repo: repo, Reference: reference}, nil
	}

	if parsed, err := url.Parse(raw); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		return ResolvedSource{Kind: KindURL, URL: raw}, nil
	}

	if rest, ok := strings.CutPrefix(raw, "marketplace:"); ok {
		name := strings.TrimSpace(rest)
		if marketplaceIndex == "" {
			return ResolvedSource{}, plugin.ErrMarketplaceUnconfigured
		}
		return ResolvedSource{Kind: KindMarketplace, IndexPath: marketplaceIndex, Name: name}, nil
	}

	if pathExists(raw) {
		return ResolvedSource{Kind: KindLocalPath, Path: raw}, nil
	}

	if marketplaceIndex != "" {
		return ResolvedSource{Kind: KindMarketplace, IndexPath: marketplaceIndex, Name: raw}, nil
	}

	return ResolvedSource{}, fmt.Errorf(
		"%w: %q. Use a path, URL, github:owner/repo@ref, or --marketplace",
		plugin.ErrSourceUnrecognized, raw)
}

func stripGitHubPrefix(source string) (string, bool) {
	if rest, ok := strings.CutPrefix(source, "github:"); ok {
		return rest, true
	}
	return strings.CutPrefix(source, "gh:")
}

// splitGitHubReference splits "owner/repo[@ref]" at the first '@'. An empty
// repo is malformed; an empty reference after '@' means no reference.
func splitGitHubReference(source string) (string, string, error) {
	repo, reference, _ := strings.Cut(source, "@")
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return "", "", fmt.Errorf("%w: github source missing repo", plugin.ErrSourceMalformed)
	}
	return repo, strings.TrimSpace(reference), nil
}

package plugin

import (
	"encoding/json"
	"fmt"
)

// SourceKind tags the origin shape of an installed plugin.
type SourceKind string

const (
	SourceLocalPath   SourceKind = "local_path"
	SourceURL         SourceKind = "url"
	SourceGitHub      SourceKind = "github"
	SourceMarketplace SourceKind = "marketplace"
)

// Source records where a plugin was installed from, for audit. It is a
// tagged variant: exactly one shape is populated, selected by Kind.
type Source struct {
	Kind SourceKind

	// SourceLocalPath
	Path string
	// SourceURL
	URL string
	// SourceGitHub
	Repo      string
	Reference string
	// SourceMarketplace
	Name   string
	Origin string
}

// LocalPathSource builds a local-path source tag.
func LocalPathSource(path string) Source {
	return Source{Kind: SourceLocalPath, Path: path}
}

// URLSource builds a URL source tag.
func URLSource(url string) Source {
	return Source{Kind: SourceURL, URL: url}
}

// GitHubSource builds a GitHub source tag. reference may be empty.
func GitHubSource(repo, reference string) Source {
	return Source{Kind: SourceGitHub, Repo: repo, Reference: reference}
}

// MarketplaceSource builds a marketplace source tag; origin is the raw
// source string recorded in the index entry.
func MarketplaceSource(name, origin string) Source {
	return Source{Kind: SourceMarketplace, Name: name, Origin: origin}
}

type githubSourceJSON struct {
	Repo      string `json:"repo"`
	Reference string `json:"reference,omitempty"`
}

type marketplaceSourceJSON struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// MarshalJSON serializes the source as an externally tagged object, e.g.
// {"local_path":"/p"}, {"url":"https://..."}, {"github":{"repo":"o/r"}},
// {"marketplace":{"name":"n","source":"s"}}.
func (s Source) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SourceLocalPath:
		return json.Marshal(map[string]string{string(SourceLocalPath): s.Path})
	case SourceURL:
		return json.Marshal(map[string]string{string(SourceURL): s.URL})
	case SourceGitHub:
		return json.Marshal(map[string]githubSourceJSON{
			string(SourceGitHub): {Repo: s.Repo, Reference: s.Reference},
		})
	case SourceMarketplace:
		return json.Marshal(map[string]marketplaceSourceJSON{
			string(SourceMarketplace): {Name: s.Name, Source: s.Origin},
		})
	}
	return nil, fmt.Errorf("unknown source kind: %q", s.Kind)
}

// UnmarshalJSON decodes the externally tagged form produced by MarshalJSON.
func (s *Source) UnmarshalJSON(data []byte) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if len(tagged) != 1 {
		return fmt.Errorf("source must have exactly one tag, got %d", len(tagged))
	}

	for tag, raw := range tagged {
		switch SourceKind(tag) {
		case SourceLocalPath:
			s.Kind = SourceLocalPath
			return json.Unmarshal(raw, &s.Path)
		case SourceURL:
			s.Kind = SourceURL
			return json.Unmarshal(raw, &s.URL)
		case SourceGitHub:
			var gh githubSourceJSON
			if err := json.Unmarshal(raw, &gh); err != nil {
				return err
			}
			s.Kind = SourceGitHub
			s.Repo = gh.Repo
			s.Reference = gh.Reference
			return nil
		case SourceMarketplace:
			var mp marketplaceSourceJSON
			if err := json.Unmarshal(raw, &mp); err != nil {
				return err
			}
			s.Kind = SourceMarketplace
			s.Name = mp.Name
			s.Origin = mp.Source
			return nil
		default:
			return fmt.Errorf("unknown source kind: %q", tag)
		}
	}
	return fmt.Errorf("empty source")
}

func (s Source) String() string {
	switch s.Kind {
	case SourceLocalPath:
		return s.Path
	case SourceURL:
		return s.URL
	case SourceGitHub:
		if s.Reference != "" {
			return fmt.Sprintf("github:%s@%s", s.Repo, s.Reference)
		}
		return "github:" + s.Repo
	case SourceMarketplace:
		return "marketplace:" + s.Name
	}
	return ""
}

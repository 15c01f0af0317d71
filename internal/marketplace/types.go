package marketplace

// Index represents a marketplace index file: a named catalog of plugin
// entries that can be installed by name.
type Index struct {
	Name    string  `json:"name,omitempty"`
	Plugins []Entry `json:"plugins"`
}

// Entry represents a plugin entry in the marketplace index. Source accepts
// github:owner/repo[@ref], any parseable URL, or a path relative to the
// index file's directory. Fields beyond the first three are optional
// catalog metadata surfaced by search and the finder.
type Entry struct {
	Name        string   `json:"name"`
	Source      string   `json:"source"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	Author      *Owner   `json:"author,omitempty"`
	License     string   `json:"license,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Owner represents author information for an index entry.
type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

package search

import (
	"sort"
	"strings"

	"github.com/egoavara/codex-plugins/internal/marketplace"
	"github.com/sahilm/fuzzy"
)

// Result represents a search result.
type Result struct {
	Entry       marketplace.Entry
	Marketplace string
	Score       int // Higher is better
}

// indexSearchable wraps index entries for fuzzy searching.
type indexSearchable struct {
	entries []marketplace.Entry
}

// String returns the searchable string for an entry.
func (s indexSearchable) String(i int) string {
	entry := s.entries[i]
	parts := []string{entry.Name}

	if entry.Description != "" {
		parts = append(parts, entry.Description)
	}

	parts = append(parts, entry.Tags...)
	parts = append(parts, entry.Keywords...)

	if entry.Category != "" {
		parts = append(parts, entry.Category)
	}

	return strings.ToLower(strings.Join(parts, " "))
}

// Len returns the number of entries.
func (s indexSearchable) Len() int {
	return len(s.entries)
}

// FuzzySearch performs a fuzzy search over a marketplace index. Results are
// ordered by descending match score.
func FuzzySearch(index *marketplace.Index, query string) []Result {
	if index == nil || len(index.Plugins) == 0 {
		return nil
	}

	searchable := indexSearchable{entries: index.Plugins}
	matches := fuzzy.FindFrom(strings.ToLower(query), searchable)

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		results = append(results, Result{
			Entry:       index.Plugins[match.Index],
			Marketplace: index.Name,
			Score:       match.Score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

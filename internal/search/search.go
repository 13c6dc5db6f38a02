// Package search runs fuzzy queries over the functions recorded in a
// generation manifest.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/oops"

	"github.com/mushkin/luadoc/internal/manifest"
)

type Result struct {
	Name       string `json:"name"`
	Signature  string `json:"signature"`
	Category   string `json:"category"`
	Page       string `json:"page"`
	Summary    string `json:"summary,omitempty"`
	MatchField string `json:"match_field"`
	MatchValue string `json:"match_value"`
	Score      int    `json:"score"`
}

type Options struct {
	Query    string
	Category string
	Limit    int
}

type indexEntry struct {
	fn         *manifest.FunctionInfo
	MatchField string
	MatchValue string
}

type searchIndex struct {
	entries []indexEntry
}

func (s searchIndex) String(i int) string {
	return s.entries[i].MatchValue
}

func (s searchIndex) Len() int {
	return len(s.entries)
}

// Functions matches the query against each function's name, signature and
// summary. Each function is reported once, under its best scoring field.
func Functions(m *manifest.Manifest, opts Options) ([]Result, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	if opts.Category != "" && m.Category(opts.Category) == nil {
		return nil, oops.
			Code("CATEGORY_NOT_FOUND").
			With("category", opts.Category).
			Hint("Run 'luadoc list' to see available categories").
			Errorf("category %q not found", opts.Category)
	}

	functions := m.FunctionsIn(opts.Category)
	entries := make([]indexEntry, 0, len(functions)*3)
	for i := range functions {
		fn := &functions[i]
		entries = append(entries,
			indexEntry{fn: fn, MatchField: "name", MatchValue: fn.Name},
			indexEntry{fn: fn, MatchField: "signature", MatchValue: fn.Signature},
		)
		if fn.Summary != "" {
			entries = append(entries, indexEntry{fn: fn, MatchField: "summary", MatchValue: fn.Summary})
		}
	}

	matches := fuzzy.FindFrom(query, searchIndex{entries: entries})

	deduped := make(map[string]Result)
	for _, match := range matches {
		if match.Score < 0 {
			continue
		}
		entry := entries[match.Index]

		if existing, exists := deduped[entry.fn.Name]; !exists || match.Score > existing.Score {
			deduped[entry.fn.Name] = Result{
				Name:       entry.fn.Name,
				Signature:  entry.fn.Signature,
				Category:   entry.fn.Category,
				Page:       entry.fn.Page,
				Summary:    entry.fn.Summary,
				MatchField: entry.MatchField,
				MatchValue: entry.MatchValue,
				Score:      match.Score,
			}
		}
	}

	results := make([]Result, 0, len(deduped))
	for _, result := range deduped {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

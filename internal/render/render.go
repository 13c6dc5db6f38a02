// Package render turns function records into GitHub wiki markdown pages.
//
// Every function here is pure: it returns page text and never touches the
// filesystem.
package render

import (
	"sort"
	"strings"
	"time"
)

const (
	PageStem      = "Lua-API"
	SidebarFile   = "_Sidebar.md"
	VersionsFile  = "API-Versions.md"
	VersionsTitle = "API Versions"

	summaryLimit   = 80
	summaryKeep    = 77
	summaryEllipse = "..."
)

// Site carries the project wording used in page headers and navigation.
type Site struct {
	Name     string `koanf:"name"`
	APITitle string `koanf:"api_title"`
	Intro    string `koanf:"intro"`
	RepoURL  string `koanf:"repo_url"  validate:"omitempty,url"`
}

func DefaultSite() Site {
	return Site{
		Name:     "Mushkin",
		APITitle: "Lua API Reference",
		Intro:    "Complete API documentation for Mushkin's Lua scripting interface.",
		RepoURL:  "https://github.com/user/mushkin",
	}
}

// Context is shared by all pages of one generation run.
type Context struct {
	Version   string
	Generated time.Time
	Site      Site
}

func versionSuffix(version string) string {
	if version == "" {
		return ""
	}
	return "-" + version
}

// IndexName is the wiki page name of the global index.
func IndexName(version string) string {
	return PageStem + versionSuffix(version)
}

// PageName is the wiki page name of a category or function page.
func PageName(version, name string) string {
	return IndexName(version) + "-" + name
}

// FileName maps a wiki page name to its markdown file name.
func FileName(pageName string) string {
	return pageName + ".md"
}

func wikiLink(label, page string) string {
	return "[[" + label + "|" + page + "]]"
}

// escapeCell makes text safe inside a markdown table cell.
func escapeCell(text string) string {
	return strings.ReplaceAll(text, "|", `\|`)
}

// Summary returns the first line of a description, shortened for index
// tables.
func Summary(description string) string {
	first, _, _ := strings.Cut(description, "\n")

	runes := []rune(first)
	if len(runes) > summaryLimit {
		return string(runes[:summaryKeep]) + summaryEllipse
	}
	return first
}

// sortByName orders items case-insensitively, keeping input order for ties.
func sortByName[T any](items []T, name func(T) string) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(name(sorted[i])) < strings.ToLower(name(sorted[j]))
	})
	return sorted
}

// page accumulates markdown lines; pages are joined with single newlines.
type page struct {
	lines []string
}

func (p *page) add(lines ...string) {
	p.lines = append(p.lines, lines...)
}

func (p *page) String() string {
	return strings.Join(p.lines, "\n")
}

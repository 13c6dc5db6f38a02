package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mushkin/luadoc/internal/apidoc"
	"github.com/mushkin/luadoc/internal/parser"
)

// FunctionPage renders the page of one function. index resolves see-also
// references; names without a record render as inline code.
func FunctionPage(fn *apidoc.Function, category *apidoc.Category, ctx Context, index map[string]*apidoc.Function) string {
	var p page

	p.add(
		"# "+fn.Name,
		"",
		"**Category:** "+wikiLink(category.Title, PageName(ctx.Version, category.ID)),
		"",
		"```lua",
		fn.Signature,
		"```",
		"",
	)

	if fn.Description != "" {
		p.add(fn.Description, "")
	}

	if len(fn.Params) > 0 {
		p.add("## Parameters", "", "| Name | Type | Description |", "|------|------|-------------|")
		for _, param := range fn.Params {
			desc := strings.ReplaceAll(param.Description, "\n", " ")
			p.add(fmt.Sprintf("| `%s` | %s | %s |", escapeCell(param.Name), escapeCell(param.Type), escapeCell(desc)))
		}
		p.add("")
	}

	if len(fn.Returns) > 0 {
		p.add("## Returns", "")
		for _, ret := range fn.Returns {
			lines := strings.Split(ret.Description, "\n")
			p.add(fmt.Sprintf("**%s**: %s", ret.Type, lines[0]))
			p.add(lines[1:]...)
		}
		p.add("")
	}

	if len(fn.Examples) > 0 {
		p.add("## Example", "")
		for _, example := range fn.Examples {
			p.add("```lua", example, "```", "")
		}
	}

	if len(fn.SeeAlso) > 0 {
		links := make([]string, 0, len(fn.SeeAlso))
		for _, name := range fn.SeeAlso {
			links = append(links, seeAlsoLink(name, ctx.Version, index))
		}
		p.add("## See Also", "", strings.Join(links, ", "), "")
	}

	p.add(
		"---",
		"",
		fmt.Sprintf("*Source: `%s` line %d*", fn.Location.File, fn.Location.Line),
	)

	return p.String()
}

func seeAlsoLink(name, version string, index map[string]*apidoc.Function) string {
	target := StripNamespace(name)
	if _, ok := index[target]; ok {
		return wikiLink(name, PageName(version, target))
	}
	return "`" + name + "`"
}

// StripNamespace removes a leading namespace prefix from a referenced name.
func StripNamespace(name string) string {
	for _, ns := range parser.Namespaces {
		if trimmed, ok := strings.CutPrefix(name, ns); ok {
			return trimmed
		}
	}
	return name
}

// CategoryPage renders a category's table of contents.
func CategoryPage(category *apidoc.Category, ctx Context) string {
	var p page

	p.add(
		"# "+category.Title,
		"",
		category.Description,
		"",
		fmt.Sprintf("**%d functions**", len(category.Functions)),
		"",
		"| Function | Description |",
		"|----------|-------------|",
	)

	for _, fn := range sortByName(category.Functions, functionName) {
		p.add(fmt.Sprintf("| %s | %s |",
			wikiLink(fn.Name, PageName(ctx.Version, fn.Name)),
			escapeCell(Summary(fn.Description)),
		))
	}

	p.add("", "---", "", wikiLink("Back to API Index", IndexName(ctx.Version)))

	return p.String()
}

// TOC returns the function names a category page lists, in page order.
func TOC(category *apidoc.Category) []string {
	names := make([]string, 0, len(category.Functions))
	for _, fn := range sortByName(category.Functions, functionName) {
		names = append(names, fn.Name)
	}
	return names
}

// IndexPage renders the global index: categories by ID, then every function
// grouped by initial.
func IndexPage(categories []*apidoc.Category, index map[string]*apidoc.Function, ctx Context) string {
	var p page

	title := ctx.Site.APITitle
	if ctx.Version != "" {
		title += " v" + ctx.Version
	}

	total := 0
	for _, category := range categories {
		total += len(category.Functions)
	}

	p.add(
		"# "+title,
		"",
		ctx.Site.Intro,
		"",
		fmt.Sprintf("**%d functions** across **%d categories**", total, len(categories)),
		"",
		"## Categories",
		"",
		"| Category | Functions | Description |",
		"|----------|-----------|-------------|",
	)

	for _, category := range sortByID(categories) {
		p.add(fmt.Sprintf("| %s | %d | %s |",
			wikiLink(category.Title, PageName(ctx.Version, category.ID)),
			len(category.Functions),
			escapeCell(category.Description),
		))
	}

	p.add("", "## All Functions (Alphabetical)", "")

	letter := ""
	for _, fn := range SortedFunctions(index) {
		if initial := initialOf(fn.Name); initial != letter {
			if letter != "" {
				p.add("")
			}
			letter = initial
			p.add("### "+letter, "")
		}
		p.add("- " + wikiLink(fn.Name, PageName(ctx.Version, fn.Name)))
	}

	p.add(
		"",
		"---",
		"",
		fmt.Sprintf("*Generated from source code on %s*", ctx.Generated.Format("2006-01-02")),
	)

	return p.String()
}

// Sidebar renders the wiki navigation sidebar.
func Sidebar(categories []*apidoc.Category, ctx Context) string {
	var p page

	p.add(
		"**"+ctx.Site.Name+"**",
		"",
		"- [[Home]]",
		"- [[Getting Started]]",
		"",
		"**Lua API**",
		"",
		"- "+wikiLink("API Reference", IndexName(ctx.Version)),
	)

	for _, category := range sortByID(categories) {
		p.add("  - " + wikiLink(category.Title, PageName(ctx.Version, category.ID)))
	}

	p.add("", "**Resources**", "", "- [["+VersionsTitle+"]]")
	if ctx.Site.RepoURL != "" {
		p.add("- [GitHub](" + ctx.Site.RepoURL + ")")
	}

	return p.String()
}

// VersionsPage renders the cross-version ledger. versions are listed in the
// given order.
func VersionsPage(versions []string, latest string) string {
	var p page

	p.add("# "+VersionsTitle, "", "Documentation is preserved for each release.", "")

	if latest != "" {
		p.add(
			"**Latest:** "+wikiLink("v"+latest, IndexName(latest)),
			"",
			"## All Versions",
			"",
		)
	}

	for _, version := range versions {
		p.add("- " + wikiLink("v"+version, IndexName(version)))
	}

	return p.String()
}

// SortedFunctions returns the indexed functions ordered case-insensitively,
// breaking ties by exact name.
func SortedFunctions(index map[string]*apidoc.Function) []*apidoc.Function {
	functions := make([]*apidoc.Function, 0, len(index))
	for _, fn := range index {
		functions = append(functions, fn)
	}

	sort.Slice(functions, func(i, j int) bool {
		a, b := strings.ToLower(functions[i].Name), strings.ToLower(functions[j].Name)
		if a != b {
			return a < b
		}
		return functions[i].Name < functions[j].Name
	})
	return functions
}

func functionName(fn *apidoc.Function) string {
	return fn.Name
}

func sortByID(categories []*apidoc.Category) []*apidoc.Category {
	sorted := make([]*apidoc.Category, len(categories))
	copy(sorted, categories)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func initialOf(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return ""
}

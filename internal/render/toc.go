package render

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// wikiLabelRegex reads the label of a [[label|page]] link. Table parsing
// splits cells on the link's own pipe, so only the label half is required.
var wikiLabelRegex = regexp.MustCompile(`^\[\[([^|\]]+)`)

// TOCNames re-reads a rendered category page and returns the function names
// listed in its table, in table order.
func TOCNames(markdown []byte) []string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	// Names are C identifiers: `__x__` is a name, not strong emphasis.
	p.RegisterInline('_', nil)
	p.RegisterInline('*', nil)
	doc := p.Parse(markdown)

	var names []string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		row, isRow := node.(*ast.TableRow)
		if !isRow {
			return ast.GoToNext
		}
		if _, inBody := row.GetParent().(*ast.TableBody); !inBody {
			return ast.SkipChildren
		}

		cells := row.GetChildren()
		if len(cells) == 0 {
			return ast.SkipChildren
		}
		if m := wikiLabelRegex.FindStringSubmatch(cellText(cells[0])); m != nil {
			names = append(names, strings.TrimSpace(m[1]))
		}
		return ast.SkipChildren
	})

	return names
}

func cellText(node ast.Node) string {
	var buf strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if leaf := n.AsLeaf(); leaf != nil {
			buf.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(buf.String())
}

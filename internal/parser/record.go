package parser

import (
	"regexp"
	"strings"

	"github.com/mushkin/luadoc/internal/apidoc"
)

// DefaultNamespace prefixes signatures synthesized for undocumented blocks.
const DefaultNamespace = "world"

var signatureNameRegex = regexp.MustCompile(`^(?:world|utils)\.(\w+)`)

// BuildFunction derives the public name and signature of a parsed block.
// The name is never empty: it falls back to the entry point identifier.
func BuildFunction(block Block, doc Docstring, file string) *apidoc.Function {
	signature := doc.Signature
	name := ""

	if m := signatureNameRegex.FindStringSubmatch(signature); m != nil {
		name = m[1]
	}
	if name == "" {
		name = EntryName(block.EntryPoint)
	}
	if signature == "" {
		signature = DefaultNamespace + "." + name + "(...)"
	}

	fn := &apidoc.Function{
		Name:        name,
		Signature:   signature,
		Description: doc.Description,
		Examples:    doc.Examples,
		SeeAlso:     doc.SeeAlso,
		Location:    apidoc.Location{File: file, Line: block.Line},
	}

	for _, p := range doc.Params {
		fn.Params = append(fn.Params, apidoc.Param(p))
	}
	for _, r := range doc.Returns {
		fn.Returns = append(fn.Returns, apidoc.Return(r))
	}

	return fn
}

// EntryName strips the entry point prefix, keeping the raw identifier when
// nothing would be left.
func EntryName(entryPoint string) string {
	if name := strings.TrimPrefix(entryPoint, EntryPrefix); name != "" {
		return name
	}
	return entryPoint
}

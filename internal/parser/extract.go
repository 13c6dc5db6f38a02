package parser

import (
	"bytes"
	"iter"
	"os"
	"path/filepath"
	"regexp"

	"github.com/samber/oops"

	"github.com/mushkin/luadoc/internal/apidoc"
)

const (
	// EntryPrefix marks the C++ functions that back documented Lua functions.
	EntryPrefix = "L_"
	handleType  = "lua_State"
)

// blockRegex matches an annotated block followed by an entry point
// declaration. The block body never contains a run of '*' followed by '/',
// so one close marker cannot be swallowed into a later block.
var blockRegex = regexp.MustCompile(
	`/\*\*((?:[^*]|\*+[^*/])*)\*+/\s*\n\s*\w+\s+(` + regexp.QuoteMeta(EntryPrefix) + `\w+)\s*\(\s*` +
		regexp.QuoteMeta(handleType),
)

// Block is one raw comment block together with its entry point.
type Block struct {
	Comment    string
	EntryPoint string
	Line       int
}

// Extract yields every documented entry point in content, in document order.
func Extract(content []byte) iter.Seq[Block] {
	content = normalizeSource(content)

	return func(yield func(Block) bool) {
		offset, line, counted := 0, 1, 0

		for offset < len(content) {
			idx := blockRegex.FindSubmatchIndex(content[offset:])
			if idx == nil {
				return
			}

			start := offset + idx[0]
			line += bytes.Count(content[counted:start], []byte("\n"))
			counted = start

			block := Block{
				Comment:    string(content[offset+idx[2] : offset+idx[3]]),
				EntryPoint: string(content[offset+idx[4] : offset+idx[5]]),
				Line:       line,
			}
			if !yield(block) {
				return
			}

			offset += idx[1]
		}
	}
}

// ExtractFile parses every documented entry point of one source file.
func ExtractFile(path string, opts ...Option) ([]*apidoc.Function, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.
			Code("SOURCE_READ_ERROR").
			With("path", path).
			Wrapf(err, "reading source file")
	}

	if err := checkSource(path, content); err != nil {
		return nil, err
	}

	return ExtractFunctions(content, filepath.Base(path), opts...), nil
}

// ExtractFunctions assembles a Function for every block in content.
func ExtractFunctions(content []byte, file string, opts ...Option) []*apidoc.Function {
	var functions []*apidoc.Function
	for block := range Extract(content) {
		functions = append(functions, BuildFunction(block, ParseDocstring(block.Comment, opts...), file))
	}
	return functions
}

package parser

import (
	"regexp"
	"strings"
)

const (
	tagMarker  = "@"
	exampleTag = "@example"
	bulletMark = "-"
	listIndent = "\n  "
	contIndent = "  "
)

// Namespaces are the dotted prefixes every documented public name lives under.
var Namespaces = []string{"world.", "utils."}

var (
	openMarkerRegex  = regexp.MustCompile(`^/\*\*\s*`)
	contMarkerRegex  = regexp.MustCompile(`^\s*\*\s?`)
	closeMarkerRegex = regexp.MustCompile(`\s*\*/$`)

	paramTagRegex  = regexp.MustCompile(`^@param\s+(\w+)\s+\(([^)]+)\)\s*(.*)`)
	returnTagRegex = regexp.MustCompile(`^@return\s+\(([^)]+)\)\s*(.*)`)
	seeTagRegex    = regexp.MustCompile(`^@see\s+(.*)`)
)

// Docstring is the structured content of one annotated comment block.
type Docstring struct {
	Signature   string
	Description string
	Params      []ParamDoc
	Returns     []ReturnDoc
	Examples    []string
	SeeAlso     []string
}

type ParamDoc struct {
	Name        string
	Type        string
	Description string
}

type ReturnDoc struct {
	Type        string
	Description string
}

// Option tunes the docstring parser.
type Option func(*options)

type options struct {
	returnLists bool
}

// WithoutReturnLists disables bullet-list continuation of @return tags.
// Indented lines then continue the last return (or param) space-joined.
func WithoutReturnLists() Option {
	return func(o *options) {
		o.returnLists = false
	}
}

// mode is the tag context carried between lines.
type mode struct {
	inExample    bool
	inReturnList bool
}

type docState struct {
	opts        options
	mode        mode
	doc         Docstring
	description []string
	example     []string
}

// ParseDocstring turns the text of one comment block into a Docstring.
// It never fails: lines that match no tag fall through to the description.
func ParseDocstring(comment string, opts ...Option) Docstring {
	s := &docState{opts: options{returnLists: true}}
	for _, opt := range opts {
		opt(&s.opts)
	}

	comment = strings.ReplaceAll(comment, "\r\n", "\n")
	for _, line := range strings.Split(strings.TrimSpace(comment), "\n") {
		s.feed(normalizeLine(line))
	}

	s.flushExample()
	s.doc.Description = strings.TrimSpace(strings.Join(s.description, "\n"))
	return s.doc
}

func normalizeLine(line string) string {
	line = openMarkerRegex.ReplaceAllString(line, "")
	line = contMarkerRegex.ReplaceAllString(line, "")
	return closeMarkerRegex.ReplaceAllString(line, "")
}

// feed classifies one normalized line. Classifiers run in fixed precedence
// and the first that consumes the line wins.
func (s *docState) feed(line string) {
	tagged := strings.TrimLeft(line, " \t")

	if s.captureSignature(line) ||
		s.paramTag(tagged) ||
		s.returnTag(tagged) ||
		s.seeTag(tagged) ||
		s.exampleOpen(tagged) ||
		s.exampleBody(line, tagged) ||
		s.returnListItem(line) ||
		s.leadingBlank(line) ||
		s.indentedContinuation(line) {
		return
	}

	if !strings.HasPrefix(tagged, tagMarker) {
		s.description = append(s.description, strings.TrimSpace(line))
	}
}

func (s *docState) captureSignature(line string) bool {
	if s.doc.Signature != "" || !hasNamespace(line) {
		return false
	}

	s.doc.Signature = strings.TrimSpace(line)
	return true
}

func (s *docState) paramTag(tagged string) bool {
	m := paramTagRegex.FindStringSubmatch(tagged)
	if m == nil {
		return false
	}

	s.mode = mode{}
	s.doc.Params = append(s.doc.Params, ParamDoc{
		Name:        m[1],
		Type:        m[2],
		Description: strings.TrimSpace(m[3]),
	})
	return true
}

func (s *docState) returnTag(tagged string) bool {
	m := returnTagRegex.FindStringSubmatch(tagged)
	if m == nil {
		return false
	}

	s.mode = mode{inReturnList: true}
	s.doc.Returns = append(s.doc.Returns, ReturnDoc{
		Type:        m[1],
		Description: strings.TrimSpace(m[2]),
	})
	return true
}

func (s *docState) seeTag(tagged string) bool {
	m := seeTagRegex.FindStringSubmatch(tagged)
	if m == nil {
		return false
	}

	s.mode = mode{}
	for name := range strings.SplitSeq(m[1], ",") {
		s.doc.SeeAlso = append(s.doc.SeeAlso, strings.TrimSpace(name))
	}
	return true
}

func (s *docState) exampleOpen(tagged string) bool {
	if strings.TrimSpace(tagged) != exampleTag {
		return false
	}

	s.flushExample()
	s.mode = mode{inExample: true}
	return true
}

// exampleBody consumes code lines. A tag line or a leading empty line closes
// the example without consuming the line, so later classifiers still see it.
func (s *docState) exampleBody(line, tagged string) bool {
	if !s.mode.inExample {
		return false
	}

	if strings.HasPrefix(tagged, tagMarker) || (line == "" && len(s.example) == 0) {
		s.flushExample()
		s.mode.inExample = false
		return false
	}

	s.example = append(s.example, line)
	return true
}

func (s *docState) returnListItem(line string) bool {
	if !s.opts.returnLists || !s.mode.inReturnList {
		return false
	}

	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, bulletMark) {
		return false
	}

	if n := len(s.doc.Returns); n > 0 {
		s.doc.Returns[n-1].Description += listIndent + trimmed
	}
	return true
}

func (s *docState) leadingBlank(line string) bool {
	return strings.TrimSpace(line) == "" && len(s.description) == 0
}

func (s *docState) indentedContinuation(line string) bool {
	if !strings.HasPrefix(line, contIndent) || (len(s.doc.Params) == 0 && len(s.doc.Returns) == 0) {
		return false
	}

	trimmed := strings.TrimSpace(line)
	params, returns := len(s.doc.Params), len(s.doc.Returns)

	switch {
	case s.opts.returnLists && s.mode.inReturnList && returns > 0:
		s.doc.Returns[returns-1].Description += listIndent + trimmed
	case s.opts.returnLists && params > 0:
		s.doc.Params[params-1].Description += " " + trimmed
	case !s.opts.returnLists && returns > 0:
		s.doc.Returns[returns-1].Description += " " + trimmed
	case !s.opts.returnLists && params > 0:
		s.doc.Params[params-1].Description += " " + trimmed
	}
	return true
}

func (s *docState) flushExample() {
	if len(s.example) > 0 {
		s.doc.Examples = append(s.doc.Examples, strings.Join(s.example, "\n"))
	}
	s.example = nil
}

func hasNamespace(line string) bool {
	for _, ns := range Namespaces {
		if strings.Contains(line, ns) {
			return true
		}
	}
	return false
}

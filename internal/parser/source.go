package parser

import (
	"bytes"
	"unicode/utf8"

	"github.com/samber/oops"
)

const sniffSize = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsBinary reports whether the first 512 bytes of content hold a NUL byte.
func IsBinary(content []byte) bool {
	return bytes.IndexByte(content[:min(len(content), sniffSize)], 0) != -1
}

// normalizeSource drops a leading UTF-8 BOM and converts CRLF line endings.
func normalizeSource(content []byte) []byte {
	return bytes.ReplaceAll(bytes.TrimPrefix(content, utf8BOM), []byte("\r\n"), []byte("\n"))
}

func checkSource(path string, content []byte) error {
	switch {
	case IsBinary(content):
		return oops.
			Code("SOURCE_READ_ERROR").
			With("path", path).
			Hint("Remove the file from the category table or scan globs").
			Errorf("source file %q looks binary", path)

	case !utf8.Valid(content):
		return oops.
			Code("SOURCE_READ_ERROR").
			With("path", path).
			Hint("Source files must be UTF-8 text").
			Errorf("source file %q is not valid UTF-8", path)
	}

	return nil
}

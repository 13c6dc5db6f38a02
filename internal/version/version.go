// Package version infers the documented project version from its CMake
// build file.
package version

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"

	"github.com/samber/oops"
)

const (
	Default   = "0.0.0"
	CMakeFile = "CMakeLists.txt"
)

var projectVersionRegex = regexp.MustCompile(`project\s*\([^)]*VERSION\s+([0-9.]+)`)

// Parse returns the VERSION argument of the first project() call, or ""
// when there is none.
func Parse(content []byte) string {
	if m := projectVersionRegex.FindSubmatch(content); m != nil {
		return string(m[1])
	}
	return ""
}

// FromProject reads projectRoot/CMakeLists.txt. It always returns a usable
// version: Default when the file is missing, unreadable or has no version.
// The error is informational and reports why Default was used.
func FromProject(projectRoot string) (string, error) {
	path := filepath.Join(projectRoot, CMakeFile)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default, nil
		}
		return Default, oops.
			Code("VERSION_READ_ERROR").
			With("path", path).
			Hint("Pass --version to set the documented version explicitly").
			Wrapf(err, "reading build configuration")
	}

	if v := Parse(content); v != "" {
		return v, nil
	}
	return Default, nil
}

// Resolve picks the first non-empty explicit version, falling back to the
// project's build file.
func Resolve(projectRoot string, explicit ...string) (string, error) {
	for _, v := range explicit {
		if v != "" {
			return v, nil
		}
	}
	return FromProject(projectRoot)
}

package publish

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/oops"

	"github.com/mushkin/luadoc/internal/catalog"
)

// Unmapped walks sourceDir and returns the slash-separated relative paths of
// files matching any pattern whose base name has no table entry. A missing
// sourceDir yields no files.
func Unmapped(sourceDir string, patterns []string, table catalog.Table) ([]string, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, oops.
				Code("CONFIG_INVALID").
				With("pattern", pattern).
				Hint("Check the scan globs in luadoc.toml").
				Errorf("invalid glob pattern %q", pattern)
		}
	}

	if info, err := os.Stat(sourceDir); err != nil || !info.IsDir() {
		return nil, nil
	}

	var unmapped []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return walkErr
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(patterns, rel) {
			return nil
		}
		if _, mapped := table.Lookup(d.Name()); !mapped {
			unmapped = append(unmapped, rel)
		}
		return nil
	})
	if err != nil {
		return nil, oops.
			Code("SOURCE_READ_ERROR").
			With("path", sourceDir).
			Wrapf(err, "scanning source directory")
	}

	slices.Sort(unmapped)
	return unmapped, nil
}

func matchesAny(patterns []string, candidate string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, candidate); matched {
			return true
		}
	}
	return false
}

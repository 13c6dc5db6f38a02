// Package ledger maintains the wiki page that lists every documented release.
package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"

	"github.com/blang/semver"
	"github.com/samber/oops"

	"github.com/mushkin/luadoc/internal/atomicfile"
	"github.com/mushkin/luadoc/internal/render"
)

var entryRegex = regexp.MustCompile(`\[\[v([0-9.]+)\|` + regexp.QuoteMeta(render.PageStem) + `-`)

// Ledger is the set of versions recorded on the versions page.
type Ledger struct {
	Versions []string
	Latest   string
}

// Parse reads recorded versions from a rendered versions page. Duplicates
// are dropped.
func Parse(content []byte) *Ledger {
	l := &Ledger{}
	for _, m := range entryRegex.FindAllSubmatch(content, -1) {
		if v := string(m[1]); !slices.Contains(l.Versions, v) {
			l.Versions = append(l.Versions, v)
		}
	}
	return l
}

// Load reads the ledger in outputDir. A missing page yields an empty ledger.
func Load(outputDir string) (*Ledger, error) {
	path := Path(outputDir)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Ledger{}, nil
		}

		return nil, oops.
			Code("LEDGER_ERROR").
			With("path", path).
			Wrapf(err, "reading versions page")
	}

	return Parse(content), nil
}

// Add records version and marks it as the latest. It reports whether the
// version was new.
func (l *Ledger) Add(version string) bool {
	l.Latest = version
	if slices.Contains(l.Versions, version) {
		return false
	}

	l.Versions = append(l.Versions, version)
	return true
}

// Sorted returns the versions newest first. Semantic versions are compared
// numerically; anything unparsable sorts after them in reverse string order.
func (l *Ledger) Sorted() []string {
	sorted := slices.Clone(l.Versions)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, errA := semver.ParseTolerant(sorted[i])
		b, errB := semver.ParseTolerant(sorted[j])

		switch {
		case errA == nil && errB == nil:
			return a.GT(b)
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return sorted[i] > sorted[j]
		}
	})
	return sorted
}

// Render returns the versions page for the current state.
func (l *Ledger) Render() string {
	return render.VersionsPage(l.Sorted(), l.Latest)
}

// Save replaces the versions page in outputDir.
func (l *Ledger) Save(outputDir string) error {
	if l == nil {
		return oops.
			Code("LEDGER_ERROR").
			Hint("Load the ledger before saving").
			Errorf("cannot save nil ledger")
	}

	return atomicfile.WriteFile(Path(outputDir), []byte(l.Render()), "LEDGER_ERROR")
}

func Path(outputDir string) string {
	return filepath.Join(outputDir, render.VersionsFile)
}

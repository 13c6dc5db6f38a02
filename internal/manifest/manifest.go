// Package manifest records what the last generation run produced so that the
// list, search and check commands can work without re-reading the C++ sources.
package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"

	"github.com/mushkin/luadoc/internal/apidoc"
	"github.com/mushkin/luadoc/internal/atomicfile"
	"github.com/mushkin/luadoc/internal/render"
)

const (
	CurrentVersion = "1.0.0"
	ManifestFile   = ".luadoc-manifest.json"
)

type Manifest struct {
	Version    string         `json:"version"`
	APIVersion string         `json:"api_version"`
	Generated  time.Time      `json:"generated"`
	Categories []CategoryInfo `json:"categories"`
	Functions  []FunctionInfo `json:"functions"`
}

type CategoryInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Page      string `json:"page"`
	Functions int    `json:"functions"`
	// TOC lists the names on the category page in page order. Shadowed
	// duplicates stay listed here.
	TOC []string `json:"toc,omitempty"`
}

type FunctionInfo struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Category  string `json:"category"`
	Page      string `json:"page"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Summary   string `json:"summary"`
}

func New(apiVersion string, generated time.Time) *Manifest {
	return &Manifest{
		Version:    CurrentVersion,
		APIVersion: apiVersion,
		Generated:  generated,
	}
}

// Build snapshots the aggregated categories. Functions are taken from the
// name index, so a name shadowed by a later duplicate appears once.
func Build(
	apiVersion string,
	generated time.Time,
	categories []*apidoc.Category,
	index map[string]*apidoc.Function,
) *Manifest {
	m := New(apiVersion, generated)

	for _, c := range categories {
		m.Categories = append(m.Categories, CategoryInfo{
			ID:        c.ID,
			Title:     c.Title,
			Page:      render.PageName(apiVersion, c.ID),
			Functions: len(c.Functions),
			TOC:       render.TOC(c),
		})
	}

	for _, fn := range render.SortedFunctions(index) {
		m.Functions = append(m.Functions, FunctionInfo{
			Name:      fn.Name,
			Signature: fn.Signature,
			Category:  fn.Category,
			Page:      render.PageName(apiVersion, fn.Name),
			File:      fn.Location.File,
			Line:      fn.Location.Line,
			Summary:   render.Summary(fn.Description),
		})
	}

	return m
}

// Category returns the recorded category with the given ID, or nil.
func (m *Manifest) Category(id string) *CategoryInfo {
	for i := range m.Categories {
		if m.Categories[i].ID == id {
			return &m.Categories[i]
		}
	}
	return nil
}

// FunctionsIn returns the functions recorded under category, sorted by name.
// An empty category returns every function.
func (m *Manifest) FunctionsIn(category string) []FunctionInfo {
	if category == "" {
		return m.Functions
	}

	var out []FunctionInfo
	for _, fn := range m.Functions {
		if fn.Category == category {
			out = append(out, fn)
		}
	}
	return out
}

func Load(outputDir string) (*Manifest, error) {
	manifestPath := Path(outputDir)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code("MANIFEST_NOT_FOUND").
				With("path", manifestPath).
				Hint("Run 'luadoc generate' to produce the manifest").
				Errorf("manifest not found at %q", manifestPath)
		}

		return nil, oops.
			Code("MANIFEST_READ_ERROR").
			With("path", manifestPath).
			Wrapf(err, "reading manifest file")
	}

	m := &Manifest{}
	if unmarshalErr := json.Unmarshal(data, m); unmarshalErr != nil {
		return nil, oops.
			Code("MANIFEST_CORRUPTED").
			With("path", manifestPath).
			Hint("Delete " + ManifestFile + " and run 'luadoc generate'").
			Wrapf(unmarshalErr, "parsing manifest file")
	}

	return m, nil
}

func (m *Manifest) Save(outputDir string) error {
	if m == nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Hint("Initialize manifest before saving").
			Errorf("cannot save nil manifest")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Wrapf(err, "encoding manifest")
	}

	return atomicfile.WriteFile(Path(outputDir), append(data, '\n'), "MANIFEST_WRITE_ERROR")
}

func Path(outputDir string) string {
	return filepath.Join(outputDir, ManifestFile)
}

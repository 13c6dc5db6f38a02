package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mushkin/luadoc/internal/apidoc"
	"github.com/mushkin/luadoc/internal/catalog"
)

func fn(name, file string, line int) *apidoc.Function {
	return &apidoc.Function{
		Name:      name,
		Signature: "world." + name + "()",
		Location:  apidoc.Location{File: file, Line: line},
	}
}

func categoryByID(agg *catalog.Aggregator, id string) (*apidoc.Category, bool) {
	for _, c := range agg.Categories() {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

func TestAggregatorAssignsCategories(t *testing.T) {
	t.Parallel()

	agg := catalog.NewAggregator(catalog.DefaultTable(), nil)

	if !agg.Add("world_output.cpp", []*apidoc.Function{fn("Note", "world_output.cpp", 1), fn("ColourNote", "world_output.cpp", 20)}) {
		t.Fatal("Add() = false for mapped file")
	}

	category, ok := categoryByID(agg, "Output")
	if !ok {
		t.Fatal("Output category not created")
	}
	if category.Title != "Output Functions" {
		t.Errorf("Title = %q", category.Title)
	}
	if len(category.Functions) != 2 || category.Functions[0].Name != "Note" || category.Functions[1].Name != "ColourNote" {
		t.Errorf("Functions not kept in extraction order: %#v", category.Functions)
	}
	for _, f := range category.Functions {
		if f.Category != "Output" {
			t.Errorf("%s.Category = %q, want Output", f.Name, f.Category)
		}
	}
	if len(agg.Functions()) != 2 {
		t.Errorf("index size = %d, want 2", len(agg.Functions()))
	}
}

func TestAggregatorSkipsUnknownFile(t *testing.T) {
	t.Parallel()

	var diagnostics []catalog.Diagnostic
	agg := catalog.NewAggregator(catalog.DefaultTable(), func(d catalog.Diagnostic) {
		diagnostics = append(diagnostics, d)
	})

	if agg.Add("mystery.cpp", []*apidoc.Function{fn("Mystery", "mystery.cpp", 1)}) {
		t.Fatal("Add() = true for unknown file")
	}

	if len(agg.Categories()) != 0 {
		t.Errorf("categories = %d, want 0", len(agg.Categories()))
	}
	if _, ok := agg.Functions()["Mystery"]; ok {
		t.Error("unknown file contributed to the name index")
	}
	if len(diagnostics) != 1 || diagnostics[0].Kind != catalog.DiagnosticUnknownFile || diagnostics[0].File != "mystery.cpp" {
		t.Errorf("diagnostics = %#v", diagnostics)
	}
}

func TestAggregatorSharedCategory(t *testing.T) {
	t.Parallel()

	table := catalog.Table{
		{File: "a.cpp", ID: "Shared", Title: "Shared Functions"},
		{File: "b.cpp", ID: "Shared", Title: "Ignored Title"},
	}
	agg := catalog.NewAggregator(table, nil)
	agg.Add("a.cpp", []*apidoc.Function{fn("A", "a.cpp", 1)})
	agg.Add("b.cpp", []*apidoc.Function{fn("B", "b.cpp", 1)})

	categories := agg.Categories()
	if len(categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(categories))
	}
	if categories[0].Title != "Shared Functions" {
		t.Errorf("Title = %q, want first entry's title", categories[0].Title)
	}
	if len(categories[0].Functions) != 2 {
		t.Errorf("functions = %d, want 2", len(categories[0].Functions))
	}
}

func TestAggregatorDuplicateLastSeenWins(t *testing.T) {
	t.Parallel()

	var diagnostics []catalog.Diagnostic
	agg := catalog.NewAggregator(catalog.DefaultTable(), func(d catalog.Diagnostic) {
		diagnostics = append(diagnostics, d)
	})

	first := fn("Hash", "world_utilities.cpp", 10)
	second := fn("Hash", "lua_utils.cpp", 99)
	agg.Add("world_utilities.cpp", []*apidoc.Function{first})
	agg.Add("lua_utils.cpp", []*apidoc.Function{second})

	if agg.Functions()["Hash"] != second {
		t.Error("index did not keep the last seen record")
	}

	dups := agg.Duplicates()
	if len(dups) != 1 || dups[0].Previous.Line != 10 || dups[0].Current.Line != 99 {
		t.Errorf("Duplicates() = %#v", dups)
	}
	if len(diagnostics) != 1 || diagnostics[0].Kind != catalog.DiagnosticDuplicate {
		t.Errorf("diagnostics = %#v", diagnostics)
	}

	utilities, _ := categoryByID(agg, "Utilities")
	utils, _ := categoryByID(agg, "Utils")
	if len(utilities.Functions) != 1 || len(utils.Functions) != 1 {
		t.Error("both categories should keep their own record")
	}
}

func TestAggregatorEnsureEmptyCategory(t *testing.T) {
	t.Parallel()

	agg := catalog.NewAggregator(catalog.DefaultTable(), nil)
	entry, _ := catalog.DefaultTable().Lookup("world_arrays.cpp")
	agg.Add(entry.File, nil)

	category, ok := categoryByID(agg, "Arrays")
	if !ok {
		t.Fatal("empty category not created")
	}
	if len(category.Functions) != 0 {
		t.Errorf("functions = %d, want 0", len(category.Functions))
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sourceDir := filepath.Join(root, "src", "world", "lua_api")
	utilsPath := filepath.Join(root, "src", "world", catalog.UtilsFile)
	mustWrite(t, filepath.Join(sourceDir, "world_output.cpp"))
	mustWrite(t, utilsPath)

	overrides := map[string]string{catalog.UtilsFile: utilsPath}
	table := catalog.DefaultTable()

	tests := []struct {
		name      string
		file      string
		wantPath  string
		wantFound bool
	}{
		{"default location", "world_output.cpp", filepath.Join(sourceDir, "world_output.cpp"), true},
		{"override location", catalog.UtilsFile, utilsPath, true},
		{"missing file", "world_timers.cpp", filepath.Join(sourceDir, "world_timers.cpp"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := table.Lookup(tt.file)
			if !ok {
				t.Fatalf("%s not in default table", tt.file)
			}

			path, found := catalog.Resolve(sourceDir, entry, overrides)
			if path != tt.wantPath || found != tt.wantFound {
				t.Errorf("Resolve() = (%q, %v), want (%q, %v)", path, found, tt.wantPath, tt.wantFound)
			}
		})
	}
}

func TestResolvePrefersSourceDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inSource := filepath.Join(root, catalog.UtilsFile)
	elsewhere := filepath.Join(root, "other", catalog.UtilsFile)
	mustWrite(t, inSource)
	mustWrite(t, elsewhere)

	entry, _ := catalog.DefaultTable().Lookup(catalog.UtilsFile)
	path, found := catalog.Resolve(root, entry, map[string]string{catalog.UtilsFile: elsewhere})
	if !found || path != inSource {
		t.Errorf("Resolve() = (%q, %v), want source dir copy", path, found)
	}
}

func TestDefaultTable(t *testing.T) {
	t.Parallel()

	table := catalog.DefaultTable()
	if len(table) != 17 {
		t.Fatalf("len = %d, want 17", len(table))
	}

	seen := map[string]bool{}
	for _, e := range table {
		if seen[e.File] {
			t.Errorf("file %s mapped twice", e.File)
		}
		seen[e.File] = true
	}

	if _, ok := table.Lookup("mystery.cpp"); ok {
		t.Error("mystery.cpp should not be mapped")
	}
}

func mustWrite(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("// source\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

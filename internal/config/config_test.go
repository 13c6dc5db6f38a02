package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mushkin/luadoc/internal/catalog"
	"github.com/mushkin/luadoc/internal/config"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %q: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
}

func TestLoadAppliesDefaultsAndResolvesPaths(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "luadoc.toml")
	writeFile(t, configPath, `version = "1.2.0"`)

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ConfigDir != tempDir {
		t.Errorf("ConfigDir = %q, want %q", cfg.ConfigDir, tempDir)
	}
	if want := filepath.Join(tempDir, "src", "world", "lua_api"); cfg.SourceDir != want {
		t.Errorf("SourceDir = %q, want %q", cfg.SourceDir, want)
	}
	if want := filepath.Join(tempDir, "docs", "wiki"); cfg.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, want)
	}
	if cfg.ProjectRoot != tempDir {
		t.Errorf("ProjectRoot = %q, want %q", cfg.ProjectRoot, tempDir)
	}
	if cfg.Version != "1.2.0" {
		t.Errorf("Version = %q", cfg.Version)
	}
	if cfg.Parallel != 1 || !cfg.Sidebar {
		t.Errorf("Parallel = %d, Sidebar = %v", cfg.Parallel, cfg.Sidebar)
	}
	if !reflect.DeepEqual(cfg.Categories, catalog.DefaultTable()) {
		t.Error("Categories should default to the built-in table")
	}
	if cfg.Overrides[catalog.UtilsFile] != "src/world/lua_utils.cpp" {
		t.Errorf("Overrides = %v", cfg.Overrides)
	}
}

func TestLoadReadsAllKeys(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "custom.toml")
	writeFile(t, configPath, `
source_dir = "cpp/lua"
output_dir = "/abs/wiki"
project_root = ".."
update_versions = true
parallel = 8
strict_duplicates = true
sidebar = false
scan = ["**/*.cpp"]

[overrides]
"lua_utils.cpp" = "lib/lua_utils.cpp"
"world_extra.cpp" = "extra/world_extra.cpp"

[site]
name = "Other"
repo_url = "https://example.com/other"

[[categories]]
file = "world_output.cpp"
id = "Output"
title = "Output Functions"

[[categories]]
file = "world_extra.cpp"
id = "Extra"
title = "Extra Functions"
description = "Extras."
`)

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if want := filepath.Join(tempDir, "cpp", "lua"); cfg.SourceDir != want {
		t.Errorf("SourceDir = %q, want %q", cfg.SourceDir, want)
	}
	if cfg.OutputDir != "/abs/wiki" {
		t.Errorf("OutputDir = %q, want absolute path kept", cfg.OutputDir)
	}
	if cfg.ProjectRoot != filepath.Dir(tempDir) {
		t.Errorf("ProjectRoot = %q, want %q", cfg.ProjectRoot, filepath.Dir(tempDir))
	}
	if !cfg.UpdateVersions || !cfg.StrictDuplicates || cfg.Sidebar || cfg.Parallel != 8 {
		t.Errorf("flags = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Scan, []string{"**/*.cpp"}) {
		t.Errorf("Scan = %v", cfg.Scan)
	}
	if cfg.Overrides["lua_utils.cpp"] != "lib/lua_utils.cpp" || cfg.Overrides["world_extra.cpp"] != "extra/world_extra.cpp" {
		t.Errorf("Overrides = %v", cfg.Overrides)
	}
	if cfg.Site.Name != "Other" || cfg.Site.APITitle != "Lua API Reference" {
		t.Errorf("Site = %+v, want name replaced and other fields defaulted", cfg.Site)
	}
	if len(cfg.Categories) != 2 || cfg.Categories[1].ID != "Extra" || cfg.Categories[1].Description != "Extras." {
		t.Errorf("Categories = %+v", cfg.Categories)
	}
}

func TestLoadWithoutConfigUsesWorkingDirectory(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty", cfg.ConfigFile)
	}
	if cfg.Describe() != "built-in defaults" {
		t.Errorf("Describe() = %q", cfg.Describe())
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if want := filepath.Join(wd, "docs", "wiki"); cfg.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, want)
	}
}

func TestLoadFindsConfigInParent(t *testing.T) {
	rootDir := t.TempDir()
	writeFile(t, filepath.Join(rootDir, ".luadoc.toml"), `output_dir = "out"`)

	nestedDir := filepath.Join(rootDir, "a", "b")
	if err := os.MkdirAll(nestedDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Chdir(nestedDir)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	resolvedRoot, err := filepath.EvalSymlinks(rootDir)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	gotDir, err := filepath.EvalSymlinks(cfg.ConfigDir)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	if gotDir != resolvedRoot {
		t.Errorf("ConfigDir = %q, want %q", gotDir, resolvedRoot)
	}
	if filepath.Base(cfg.OutputDir) != "out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		content         string
		wantErrContains string
	}{
		{
			name:            "bad toml",
			content:         "version = ",
			wantErrContains: "loading config",
		},
		{
			name:            "bad version",
			content:         `version = "v1.x"`,
			wantErrContains: `invalid version "v1.x"`,
		},
		{
			name:            "negative parallel",
			content:         "parallel = -2",
			wantErrContains: "invalid parallel value -2",
		},
		{
			name:            "bad repo url",
			content:         "[site]\nrepo_url = \"not a url\"",
			wantErrContains: "invalid repo_url",
		},
		{
			name:            "category missing title",
			content:         "[[categories]]\nfile = \"a.cpp\"\nid = \"A\"",
			wantErrContains: "invalid title in categories entry 0",
		},
		{
			name:            "category id not alphanumeric",
			content:         "[[categories]]\nfile = \"a.cpp\"\nid = \"A-B\"\ntitle = \"A\"",
			wantErrContains: "invalid id in categories entry 0",
		},
		{
			name: "file mapped twice",
			content: `
[[categories]]
file = "a.cpp"
id = "A"
title = "A"

[[categories]]
file = "a.cpp"
id = "B"
title = "B"
`,
			wantErrContains: `source file "a.cpp" is mapped more than once`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), "luadoc.toml")
			writeFile(t, configPath, tc.content)

			_, err := config.Load(configPath)
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tc.wantErrContains) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tc.wantErrContains)
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Load() error = %v", err)
	}
}

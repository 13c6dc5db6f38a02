package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"

	"github.com/mushkin/luadoc/internal/catalog"
	"github.com/mushkin/luadoc/internal/publish"
	"github.com/mushkin/luadoc/internal/render"
)

const (
	DefaultSourceDir   = "src/world/lua_api"
	DefaultOutputDir   = "docs/wiki"
	DefaultProjectRoot = "."
)

var versionNumberRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

type Config struct {
	SourceDir        string            `koanf:"source_dir"`
	OutputDir        string            `koanf:"output_dir"`
	ProjectRoot      string            `koanf:"project_root"`
	Version          string            `koanf:"version"           validate:"omitempty,version_number"`
	UpdateVersions   bool              `koanf:"update_versions"`
	Parallel         int               `koanf:"parallel"          validate:"min=1,max=64"`
	StrictDuplicates bool              `koanf:"strict_duplicates"`
	Sidebar          bool              `koanf:"sidebar"`
	Scan             []string          `koanf:"scan"`
	Overrides        map[string]string `koanf:"overrides"`
	Site             render.Site       `koanf:"site"`
	Categories       catalog.Table     `koanf:"categories"        validate:"omitempty,dive"`
	ConfigDir        string            `koanf:"-"`
	ConfigFile       string            `koanf:"-"`
}

// Default returns the configuration used when no config file exists. Values
// read from a file are decoded on top of it.
func Default() *Config {
	return &Config{
		SourceDir:   DefaultSourceDir,
		OutputDir:   DefaultOutputDir,
		ProjectRoot: DefaultProjectRoot,
		Parallel:    publish.DefaultParallel,
		Sidebar:     true,
		Overrides:   catalog.DefaultOverrides(),
		Site:        render.DefaultSite(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("version_number", func(fl validator.FieldLevel) bool {
		return versionNumberRegex.MatchString(fl.Field().String())
	})

	return v
}

func (c *Config) ApplyDefaults() {
	if c.SourceDir == "" {
		c.SourceDir = DefaultSourceDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.ProjectRoot == "" {
		c.ProjectRoot = DefaultProjectRoot
	}
	if c.Parallel == 0 {
		c.Parallel = publish.DefaultParallel
	}
	if len(c.Categories) == 0 {
		c.Categories = catalog.DefaultTable()
	}
}

func (c *Config) Validate() error {
	v := newValidator()

	valErr := v.Struct(c)
	if valErr == nil {
		return c.validateCategories()
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(valErr, &validationErrors) {
		return oops.
			Code("CONFIG_INVALID").
			Wrapf(valErr, "validating config")
	}

	return mapValidationError(c, validationErrors[0])
}

func (c *Config) validateCategories() error {
	seen := make(map[string]struct{}, len(c.Categories))
	for _, entry := range c.Categories {
		if _, dup := seen[entry.File]; dup {
			return oops.
				Code("CONFIG_INVALID").
				With("field", "categories").
				With("file", entry.File).
				Hint("Map each source file to exactly one category").
				Errorf("source file %q is mapped more than once", entry.File)
		}
		seen[entry.File] = struct{}{}
	}
	return nil
}

func mapValidationError(c *Config, fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())

	switch {
	case fe.Tag() == "version_number":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "version").
			With("value", c.Version).
			Hint("Expected a dotted version such as 1.2.0").
			Errorf("invalid version %q", c.Version)

	case field == "parallel":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "parallel").
			With("value", c.Parallel).
			Hint("Set parallel between 1 and 64; 1 writes pages sequentially").
			Errorf("invalid parallel value %d", c.Parallel)

	case field == "repourl":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "site.repo_url").
			With("value", c.Site.RepoURL).
			Hint("Set repo_url to an absolute URL").
			Errorf("invalid repo_url %q", c.Site.RepoURL)

	case strings.Contains(fe.Namespace(), "Categories["):
		return oops.
			Code("CONFIG_INVALID").
			With("field", "categories").
			With("entry", categoryIndex(fe.Namespace())).
			With("tag", fe.Tag()).
			Hint("Each [[categories]] entry needs file, an alphanumeric id and a title").
			Errorf("invalid %s in categories entry %s", field, categoryIndex(fe.Namespace()))

	default:
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for field %q", field)
	}
}

func categoryIndex(namespace string) string {
	start := strings.Index(namespace, "[")
	end := strings.Index(namespace, "]")
	if start < 0 || end < start {
		return "?"
	}
	return namespace[start+1 : end]
}

// resolvePaths makes the directory keys absolute relative to ConfigDir.
// Override paths stay relative to ProjectRoot.
func (c *Config) resolvePaths() {
	c.SourceDir = c.resolve(c.SourceDir)
	c.OutputDir = c.resolve(c.OutputDir)
	c.ProjectRoot = c.resolve(c.ProjectRoot)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(c.ConfigDir, path))
}

// Describe returns a one-line description of where the config came from.
func (c *Config) Describe() string {
	if c.ConfigFile == "" {
		return "built-in defaults"
	}
	return fmt.Sprintf("config %s", c.ConfigFile)
}

// Package publish runs a full documentation build: it reads every mapped
// source file, aggregates the records and writes the wiki pages, the versions
// ledger and the generation manifest.
package publish

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/mushkin/luadoc/internal/apidoc"
	"github.com/mushkin/luadoc/internal/atomicfile"
	"github.com/mushkin/luadoc/internal/catalog"
	"github.com/mushkin/luadoc/internal/ledger"
	"github.com/mushkin/luadoc/internal/manifest"
	"github.com/mushkin/luadoc/internal/parser"
	"github.com/mushkin/luadoc/internal/render"
	"github.com/mushkin/luadoc/internal/version"
)

// DefaultParallel keeps page writes sequential unless a caller opts in.
const DefaultParallel = 1

type Options struct {
	SourceDir   string
	OutputDir   string
	ProjectRoot string

	// Table defaults to catalog.DefaultTable.
	Table catalog.Table
	// Overrides maps a table file name to an alternate location. Relative
	// paths resolve against ProjectRoot.
	Overrides map[string]string
	// Scan lists globs, relative to SourceDir, of files that should be
	// reported when the table does not map them.
	Scan []string

	// Version is used as given when set; otherwise it is read from the
	// project's build file.
	Version        string
	UpdateVersions bool
	DryRun         bool
	Strict         bool
	Sidebar        bool
	Parallel       int

	Site         render.Site
	ParseOptions []parser.Option
	Now          func() time.Time
	OnEvent      func(Event)
}

// Page is one rendered output file.
type Page struct {
	File    string
	Content string
}

type Result struct {
	Version        string
	Categories     []*apidoc.Category
	Functions      map[string]*apidoc.Function
	TotalFunctions int
	Pages          []Page
	Written        int
	Missing        []string
	Unmapped       []string
	Duplicates     []catalog.Duplicate
	Manifest       *manifest.Manifest
	DryRun         bool
}

func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.OutputDir == "" {
		return nil, oops.
			Code("INVALID_ARGS").
			Hint("Set --output-dir or output_dir in luadoc.toml").
			Errorf("output directory is required")
	}
	applyDefaults(&opts)

	apiVersion := resolveVersion(&opts)

	result := &Result{Version: apiVersion, DryRun: opts.DryRun}

	agg := catalog.NewAggregator(opts.Table, func(d catalog.Diagnostic) {
		opts.warn(d.File, d.Message)
	})

	if err := collect(ctx, &opts, agg, result); err != nil {
		return nil, err
	}

	result.Categories = agg.Categories()
	result.Functions = agg.Functions()
	result.Duplicates = agg.Duplicates()
	for _, c := range result.Categories {
		result.TotalFunctions += len(c.Functions)
	}

	if opts.Strict && len(result.Duplicates) > 0 {
		first := result.Duplicates[0]
		return nil, oops.
			Code("DUPLICATE_FUNCTION").
			With("name", first.Name).
			With("duplicates", len(result.Duplicates)).
			Hint("Rename one of the entry points or drop --strict").
			Errorf("%q is documented at %s:%d and %s:%d",
				first.Name, first.Previous.File, first.Previous.Line, first.Current.File, first.Current.Line)
	}

	renderCtx := render.Context{Version: apiVersion, Generated: opts.Now(), Site: opts.Site}
	result.Pages = Pages(result.Categories, result.Functions, renderCtx, opts.Sidebar)
	result.Manifest = manifest.Build(apiVersion, renderCtx.Generated, result.Categories, result.Functions)

	opts.emit(Event{Kind: EventPagesPlanned, Count: len(result.Pages)})

	written, err := writePages(ctx, &opts, result.Pages)
	result.Written = written
	if err != nil {
		return result, err
	}

	if opts.DryRun {
		return result, nil
	}

	if opts.UpdateVersions {
		if err := updateLedger(opts.OutputDir, apiVersion); err != nil {
			return result, err
		}
		opts.emit(Event{Kind: EventLedgerUpdated, File: render.VersionsFile, Message: apiVersion})
	}

	if err := result.Manifest.Save(opts.OutputDir); err != nil {
		return result, err
	}

	return result, nil
}

func applyDefaults(opts *Options) {
	if opts.Table == nil {
		opts.Table = catalog.DefaultTable()
	}
	if opts.Parallel <= 0 {
		opts.Parallel = DefaultParallel
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Site == (render.Site{}) {
		opts.Site = render.DefaultSite()
	}
}

// resolveVersion never fails: an unreadable build file falls back to
// version.Default with a warning.
func resolveVersion(opts *Options) string {
	v, err := version.Resolve(opts.ProjectRoot, opts.Version)
	if err != nil {
		opts.warn(version.CMakeFile, fmt.Sprintf("using version %s: %v", v, err))
	}
	return v
}

// collect reads the table's files in order, then any scanned files the table
// does not map so that their records are reported rather than lost silently.
// Unmapped files never fail the run.
func collect(ctx context.Context, opts *Options, agg *catalog.Aggregator, result *Result) error {
	overrides := resolveOverrides(opts.ProjectRoot, opts.Overrides)

	for _, entry := range opts.Table {
		if err := ctx.Err(); err != nil {
			return oops.Wrapf(err, "collecting sources")
		}

		path, ok := catalog.Resolve(opts.SourceDir, entry, overrides)
		if !ok {
			result.Missing = append(result.Missing, entry.File)
			opts.warn(entry.File, "source file not found: "+path)
			continue
		}

		functions, err := parser.ExtractFile(path, opts.ParseOptions...)
		if err != nil {
			return err
		}

		agg.Ensure(entry)
		agg.Add(entry.File, functions)
		opts.emit(Event{Kind: EventFileParsed, Category: entry.ID, File: entry.File, Count: len(functions)})
	}

	if len(opts.Scan) == 0 {
		return nil
	}

	unmapped, err := Unmapped(opts.SourceDir, opts.Scan, opts.Table)
	if err != nil {
		return err
	}
	result.Unmapped = unmapped

	for _, rel := range unmapped {
		functions, err := parser.ExtractFile(filepath.Join(opts.SourceDir, rel), opts.ParseOptions...)
		if err != nil {
			opts.emit(Event{Kind: EventWarning, File: rel, Message: "skipping unmapped file " + rel, Err: err})
			continue
		}
		agg.Add(filepath.Base(rel), functions)
	}

	return nil
}

func resolveOverrides(projectRoot string, overrides map[string]string) map[string]string {
	resolved := make(map[string]string, len(overrides))
	for file, path := range overrides {
		if path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(projectRoot, path)
		}
		resolved[file] = path
	}
	return resolved
}

// Pages renders every output page in a stable order: function pages sorted
// by name, category pages in table order, the index, then the sidebar.
// Categories without functions are linked from the index but get no page.
func Pages(
	categories []*apidoc.Category,
	index map[string]*apidoc.Function,
	ctx render.Context,
	sidebar bool,
) []Page {
	byID := make(map[string]*apidoc.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	var pages []Page
	for _, fn := range render.SortedFunctions(index) {
		pages = append(pages, Page{
			File:    render.FileName(render.PageName(ctx.Version, fn.Name)),
			Content: render.FunctionPage(fn, byID[fn.Category], ctx, index),
		})
	}

	for _, c := range categories {
		if len(c.Functions) == 0 {
			continue
		}
		pages = append(pages, Page{
			File:    render.FileName(render.PageName(ctx.Version, c.ID)),
			Content: render.CategoryPage(c, ctx),
		})
	}

	pages = append(pages, Page{
		File:    render.FileName(render.IndexName(ctx.Version)),
		Content: render.IndexPage(categories, index, ctx),
	})

	if sidebar {
		pages = append(pages, Page{
			File:    render.SidebarFile,
			Content: render.Sidebar(categories, ctx),
		})
	}

	return pages
}

func writePages(ctx context.Context, opts *Options, pages []Page) (int, error) {
	var written atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Parallel)

	for _, page := range pages {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return oops.
					Code("WRITE_FAILED").
					With("page", page.File).
					Wrapf(err, "writing pages")
			}

			if !opts.DryRun {
				path := filepath.Join(opts.OutputDir, page.File)
				if err := atomicfile.WriteFile(path, []byte(page.Content), "WRITE_FAILED"); err != nil {
					return err
				}
			}

			written.Add(1)
			opts.emit(Event{Kind: EventPageWritten, File: page.File})
			return nil
		})
	}

	err := group.Wait()
	return int(written.Load()), err
}

func updateLedger(outputDir string, apiVersion string) error {
	l, err := ledger.Load(outputDir)
	if err != nil {
		return err
	}

	l.Add(apiVersion)
	return l.Save(outputDir)
}

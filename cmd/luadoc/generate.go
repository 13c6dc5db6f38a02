package main

import (
	"context"
	"maps"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/mushkin/luadoc/internal/catalog"
	"github.com/mushkin/luadoc/internal/config"
	"github.com/mushkin/luadoc/internal/parser"
	"github.com/mushkin/luadoc/internal/publish"
	"github.com/mushkin/luadoc/internal/ui"
)

func newGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Extract API docs from the sources and write the wiki pages",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "source-dir", Usage: "Directory containing the Lua API C++ files"},
			&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "Directory the markdown pages are written to"},
			&cli.StringFlag{Name: "project-root", Usage: "Project root holding CMakeLists.txt"},
			&cli.StringFlag{Name: "utils-file", Usage: "Path to lua_utils.cpp for utils.* functions"},
			&cli.StringFlag{Name: "version", Usage: "Version tag (e.g. 0.1.0); defaults to the project version"},
			&cli.BoolFlag{Name: "update-versions", Usage: "Record the version on the API-Versions page"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Parse and render without writing files"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Maximum concurrent page writes"},
			&cli.BoolFlag{Name: "strict", Usage: "Fail when a function name is documented twice"},
			&cli.BoolFlag{Name: "no-sidebar", Usage: "Do not write _Sidebar.md"},
			&cli.BoolFlag{Name: "no-return-lists", Usage: "Join indented @return lines with spaces instead of keeping bullet lists"},
			&cli.BoolFlag{Name: "progress", Usage: "Show a progress bar while writing pages"},
			&cli.BoolFlag{Name: "verbose", Usage: "List every page written"},
		},
		Action: generateAction,
	}
}

func generateAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 0 {
		return oops.
			Code("INVALID_ARGS").
			Hint("Usage: luadoc generate [flags]").
			Errorf("unexpected arguments: %v", cmd.Args().Slice())
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	if err := applyGenerateFlags(cmd, cfg); err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	printer := ui.NewPrinter(dryRun, cmd.Bool("verbose"))
	if cmd.Bool("progress") {
		printer.WithProgress()
	}
	printer.Info("using " + cfg.Describe())

	var parseOpts []parser.Option
	if cmd.Bool("no-return-lists") {
		parseOpts = append(parseOpts, parser.WithoutReturnLists())
	}

	result, err := publish.Run(ctx, publish.Options{
		SourceDir:      cfg.SourceDir,
		OutputDir:      cfg.OutputDir,
		ProjectRoot:    cfg.ProjectRoot,
		Table:          cfg.Categories,
		Overrides:      cfg.Overrides,
		Scan:           cfg.Scan,
		Version:        cfg.Version,
		UpdateVersions: cfg.UpdateVersions,
		DryRun:         dryRun,
		Strict:         cfg.StrictDuplicates,
		Sidebar:        cfg.Sidebar,
		Parallel:       cfg.Parallel,
		Site:           cfg.Site,
		ParseOptions:   parseOpts,
		OnEvent:        printer.HandleEvent,
	})
	if err != nil {
		printer.Finish()
		return err
	}

	printer.PrintSummary(result, cfg.OutputDir)
	return nil
}

// applyGenerateFlags overlays command-line flags on the loaded config.
// Flag paths are relative to the working directory.
func applyGenerateFlags(cmd *cli.Command, cfg *config.Config) error {
	for flag, target := range map[string]*string{
		"source-dir":   &cfg.SourceDir,
		"output-dir":   &cfg.OutputDir,
		"project-root": &cfg.ProjectRoot,
	} {
		if !cmd.IsSet(flag) {
			continue
		}
		abs, err := absPath(cmd.String(flag))
		if err != nil {
			return err
		}
		*target = abs
	}

	if cmd.IsSet("utils-file") {
		abs, err := absPath(cmd.String("utils-file"))
		if err != nil {
			return err
		}
		cfg.Overrides = maps.Clone(cfg.Overrides)
		if cfg.Overrides == nil {
			cfg.Overrides = make(map[string]string)
		}
		cfg.Overrides[catalog.UtilsFile] = abs
	}

	if cmd.IsSet("version") {
		cfg.Version = cmd.String("version")
	}
	if cmd.Bool("update-versions") {
		cfg.UpdateVersions = true
	}
	if cmd.Bool("strict") {
		cfg.StrictDuplicates = true
	}
	if cmd.Bool("no-sidebar") {
		cfg.Sidebar = false
	}
	if cmd.IsSet("parallel") {
		cfg.Parallel = int(cmd.Int("parallel"))
		if cfg.Parallel < 1 {
			return oops.
				Code("INVALID_ARGS").
				With("parallel", cfg.Parallel).
				Hint("Use --parallel 1 for sequential writes").
				Errorf("--parallel must be at least 1")
		}
	}

	return nil
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", oops.
			Code("INVALID_ARGS").
			With("path", path).
			Wrapf(err, "resolving path")
	}
	return abs, nil
}

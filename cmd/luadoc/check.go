package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/fatih/color"
	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/mushkin/luadoc/internal/config"
	"github.com/mushkin/luadoc/internal/manifest"
	"github.com/mushkin/luadoc/internal/publish"
	"github.com/mushkin/luadoc/internal/render"
)

func newCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Verify generated pages against the manifest and report unmapped sources",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: checkAction,
	}
}

func checkAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	m, err := manifest.Load(cfg.OutputDir)
	if err != nil {
		return err
	}

	problems, err := checkPages(cfg.OutputDir, m)
	if err != nil {
		return err
	}

	if len(cfg.Scan) > 0 {
		unmapped, scanErr := publish.Unmapped(cfg.SourceDir, cfg.Scan, cfg.Categories)
		if scanErr != nil {
			return scanErr
		}
		for _, file := range unmapped {
			problems = append(problems, fmt.Sprintf("%s has no category mapping", file))
		}
	}

	out := cmd.Root().Writer
	if len(problems) > 0 {
		reportProblems(out, problems)
		return oops.
			Code("CHECK_FAILED").
			With("problems", len(problems)).
			Hint("Run 'luadoc generate' to refresh the pages").
			Errorf("%d problem(s) found", len(problems))
	}

	_, _ = fmt.Fprintf(out, "%s %d categories, %d functions consistent with %s\n",
		color.GreenString("✓"),
		len(m.Categories),
		len(m.Functions),
		manifest.ManifestFile,
	)
	return nil
}

// checkPages verifies that every recorded function has a page and every
// category page lists the names recorded for it, in order.
func checkPages(outputDir string, m *manifest.Manifest) ([]string, error) {
	var problems []string

	for _, fn := range m.Functions {
		if _, err := os.Stat(filepath.Join(outputDir, render.FileName(fn.Page))); err != nil {
			problems = append(problems, fmt.Sprintf("missing function page %s", render.FileName(fn.Page)))
		}
	}

	for _, c := range m.Categories {
		if c.Functions == 0 {
			continue
		}

		file := render.FileName(c.Page)
		content, err := os.ReadFile(filepath.Join(outputDir, file))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				problems = append(problems, fmt.Sprintf("missing category page %s", file))
				continue
			}
			return nil, oops.
				Code("CHECK_FAILED").
				With("path", file).
				Wrapf(err, "reading category page")
		}

		if listed := render.TOCNames(content); !slices.Equal(listed, c.TOC) {
			problems = append(problems, fmt.Sprintf("%s lists %v, manifest records %v", file, listed, c.TOC))
		}
	}

	return problems, nil
}

func reportProblems(w io.Writer, problems []string) {
	for _, p := range problems {
		_, _ = fmt.Fprintf(w, "%s %s\n", color.RedString("✗"), p)
	}
}

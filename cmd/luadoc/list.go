package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/mushkin/luadoc/internal/config"
	"github.com/mushkin/luadoc/internal/manifest"
	"github.com/mushkin/luadoc/internal/ui"
)

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List documented functions from the last generation",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "category", Usage: "Only list functions in this category"},
			&cli.BoolFlag{Name: "categories", Usage: "List categories instead of functions"},
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
			&cli.StringFlag{Name: "format", Usage: "Output format: table, json, csv"},
			&cli.IntFlag{Name: "limit", Usage: "Show first N functions (0 = all)"},
			&cli.IntFlag{Name: "desc-length", Usage: "Max summary length in tables (0 = no limit)", Value: ui.DefaultDescLength},
		},
		Action: listAction,
	}
}

func listAction(_ context.Context, cmd *cli.Command) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}

	m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	opts := ui.ListOptions{Format: format, DescLength: int(cmd.Int("desc-length"))}

	if cmd.Bool("categories") {
		return ui.RenderCategoryList(out, m.Categories, opts)
	}

	category := cmd.String("category")
	if category != "" && m.Category(category) == nil {
		return oops.
			Code("CATEGORY_NOT_FOUND").
			With("category", category).
			Hint("Run 'luadoc list --categories' to see available categories").
			Errorf("category %q not found", category)
	}

	functions := m.FunctionsIn(category)
	opts.Total = len(functions)
	if limit := int(cmd.Int("limit")); limit > 0 && len(functions) > limit {
		functions = functions[:limit]
	}

	return ui.RenderFunctionList(out, functions, opts)
}

func loadManifest(cmd *cli.Command) (*manifest.Manifest, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	return manifest.Load(cfg.OutputDir)
}

func resolveFormat(cmd *cli.Command) (string, error) {
	if cmd.Bool("json") {
		return ui.FormatJSON, nil
	}
	if !cmd.IsSet("format") {
		return ui.FormatTable, nil
	}

	switch format := cmd.String("format"); format {
	case ui.FormatTable, ui.FormatJSON, ui.FormatCSV:
		return format, nil
	default:
		return "", oops.
			Code("INVALID_ARGS").
			With("format", format).
			Hint("Supported formats: table, json, csv").
			Errorf("unknown output format %q", format)
	}
}

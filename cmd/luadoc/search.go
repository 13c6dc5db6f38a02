package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/mushkin/luadoc/internal/search"
	"github.com/mushkin/luadoc/internal/ui"
)

const defaultSearchLimit = 20

func newSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Fuzzy search function names, signatures and summaries",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "category", Usage: "Search only within one category"},
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
			&cli.StringFlag{Name: "format", Usage: "Output format: table, json, csv"},
			&cli.IntFlag{Name: "limit", Usage: "Max results (0 = unlimited)", Value: defaultSearchLimit},
			&cli.IntFlag{Name: "desc-length", Usage: "Max match length in tables (0 = no limit)", Value: ui.DefaultDescLength},
		},
		Action: searchAction,
	}
}

func searchAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return oops.
			Code("INVALID_ARGS").
			Hint("Usage: luadoc search <query>").
			Errorf("expected 1 argument, got %d", cmd.Args().Len())
	}

	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}

	m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	results, err := search.Functions(m, search.Options{
		Query:    cmd.Args().First(),
		Category: cmd.String("category"),
		Limit:    int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	return ui.RenderSearchResults(cmd.Root().Writer, results, ui.ListOptions{
		Format:     format,
		DescLength: int(cmd.Int("desc-length")),
	})
}

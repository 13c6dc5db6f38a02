package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/mushkin/luadoc/internal/config"
)

const starterConfig = `# luadoc configuration. Relative paths resolve against this file's directory.

source_dir = "src/world/lua_api"
output_dir = "docs/wiki"
project_root = "."

# version = "0.1.0"   # defaults to project(... VERSION x.y.z) in CMakeLists.txt
update_versions = false
parallel = 1        # concurrent page writes; output is identical at any setting
strict_duplicates = false
sidebar = true

# Report source files matching these globs that have no category.
scan = ["*.cpp"]

[overrides]
"lua_utils.cpp" = "src/world/lua_utils.cpp"

[site]
name = "Mushkin"
api_title = "Lua API Reference"
repo_url = "https://github.com/user/mushkin"

# Replace the built-in category table by listing every mapping:
# [[categories]]
# file = "world_output.cpp"
# id = "Output"
# title = "Output Functions"
# description = "Functions for displaying text in the output window."
`

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter luadoc.toml in the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing luadoc.toml"},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return oops.Wrapf(err, "getting working directory")
	}

	path := filepath.Join(wd, config.FileName)
	if _, statErr := os.Stat(path); statErr == nil && !cmd.Bool("force") {
		return oops.
			Code("CONFIG_EXISTS").
			With("path", path).
			Hint("Pass --force to overwrite it").
			Errorf("%s already exists", config.FileName)
	} else if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return oops.Wrapf(statErr, "checking %q", path)
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0o600); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "writing config")
	}

	_, _ = fmt.Fprintf(cmd.Root().Writer, "created %s\n", path)
	return nil
}

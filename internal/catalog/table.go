package catalog

import (
	"os"
	"path/filepath"
)

// Entry maps one source file to the category its functions belong to.
type Entry struct {
	File        string `koanf:"file"        json:"file"        validate:"required"`
	ID          string `koanf:"id"          json:"id"          validate:"required,alphanum"`
	Title       string `koanf:"title"       json:"title"       validate:"required"`
	Description string `koanf:"description" json:"description"`
}

// Table is processed in order; several entries may share one category ID.
type Table []Entry

// UtilsFile is documented separately from the world API and may live outside
// the source directory.
const UtilsFile = "lua_utils.cpp"

// DefaultTable returns the built-in file to category mapping.
func DefaultTable() Table {
	return Table{
		{"world_output.cpp", "Output", "Output Functions", "Functions for displaying text in the output window."},
		{"world_network.cpp", "Network", "Network Functions", "Functions for sending data to the MUD server."},
		{"world_variables.cpp", "Variables", "Variable Functions", "Functions for managing world variables."},
		{"world_colors.cpp", "Colors", "Color Functions", "Functions for color conversion and manipulation."},
		{"world_logging.cpp", "Logging", "Logging Functions", "Functions for log file management."},
		{"world_aliases.cpp", "Aliases", "Alias Functions", "Functions for creating and managing aliases."},
		{"world_triggers.cpp", "Triggers", "Trigger Functions", "Functions for creating and managing triggers."},
		{"world_timers.cpp", "Timers", "Timer Functions", "Functions for creating and managing timers."},
		{"world_miniwindows.cpp", "MiniWindows", "MiniWindow Functions", "Functions for creating and drawing miniwindows."},
		{"world_arrays.cpp", "Arrays", "Array Functions", "Functions for managing named arrays (deprecated, use Lua tables)."},
		{"world_info.cpp", "Info", "Information Functions", "Functions for getting world and connection information."},
		{"world_utilities.cpp", "Utilities", "Utility Functions", "General utility functions for string manipulation, encoding, etc."},
		{"world_commands.cpp", "Commands", "Command Functions", "Functions for command queue management."},
		{"world_speedwalk.cpp", "Speedwalk", "Speedwalk Functions", "Functions for speedwalk/pathfinding."},
		{"world_database.cpp", "Database", "Database Functions", "Functions for SQLite database operations."},
		{"world_plugins.cpp", "Plugins", "Plugin Functions", "Functions for inter-plugin communication and plugin management."},
		{UtilsFile, "Utils", "Utils Library", "The utils.* library functions."},
	}
}

// DefaultOverrides returns the fallback locations for files kept outside the
// source directory, relative to the project root.
func DefaultOverrides() map[string]string {
	return map[string]string{
		UtilsFile: filepath.Join("src", "world", UtilsFile),
	}
}

// Lookup returns the entry for a source file name.
func (t Table) Lookup(file string) (Entry, bool) {
	for _, e := range t {
		if e.File == file {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolve locates an entry's file: first in sourceDir, then at its override
// path. The returned path is the last candidate tried when nothing exists.
func Resolve(sourceDir string, entry Entry, overrides map[string]string) (string, bool) {
	path := filepath.Join(sourceDir, entry.File)
	if exists(path) {
		return path, true
	}

	if override, ok := overrides[entry.File]; ok && override != "" {
		return override, exists(override)
	}

	return path, false
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

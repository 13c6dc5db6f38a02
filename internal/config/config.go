package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

const FileName = "luadoc.toml"

func configFilenames() []string {
	return []string{FileName, ".luadoc.toml"}
}

// Load reads configPath, or the nearest config file above the working
// directory when configPath is empty. Without any config file the defaults
// apply relative to the working directory.
func Load(configPath string) (*Config, error) {
	resolvedPath, found, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	if found {
		if loadErr := loadFile(cfg, resolvedPath); loadErr != nil {
			return nil, loadErr
		}
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, oops.Wrapf(wdErr, "getting working directory")
		}
		cfg.ConfigDir = wd
	}

	cfg.ApplyDefaults()

	if valErr := cfg.Validate(); valErr != nil {
		return nil, valErr
	}

	cfg.resolvePaths()
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	absConfigPath, err := filepath.Abs(path)
	if err != nil {
		return oops.Wrapf(err, "resolving absolute config path")
	}

	k := koanf.New(".")

	if loadErr := k.Load(file.Provider(absConfigPath), toml.Parser()); loadErr != nil {
		return oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix TOML syntax in your config").
			Wrapf(loadErr, "loading config from %q", absConfigPath)
	}

	if unmarshalErr := k.Unmarshal("", cfg); unmarshalErr != nil {
		return oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix config structure to match the luadoc schema").
			Wrapf(unmarshalErr, "decoding config from %q", absConfigPath)
	}

	cfg.ConfigDir = filepath.Dir(absConfigPath)
	cfg.ConfigFile = absConfigPath
	return nil
}

func findConfigFile() (string, bool, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false, oops.Wrapf(err, "getting working directory")
	}

	for {
		foundPath, found, findErr := findConfigInDirectory(dir)
		if findErr != nil || found {
			return foundPath, found, findErr
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", false, nil
		}

		dir = parentDir
	}
}

func resolveConfigPath(configPath string) (string, bool, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", false, oops.
					Code("CONFIG_NOT_FOUND").
					With("path", configPath).
					Hint("Create the file or pass a valid --config path").
					Errorf("config file %q does not exist", configPath)
			}

			return "", false, oops.Wrapf(err, "checking config file %q", configPath)
		}

		return configPath, true, nil
	}

	return findConfigFile()
}

func findConfigInDirectory(dir string) (string, bool, error) {
	for _, name := range configFilenames() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, oops.Wrapf(err, "checking for config file at %q", path)
		}
	}

	return "", false, nil
}

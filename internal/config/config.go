// Package config resolves where the record store lives.
//
// Configuration is layered from JSONC files (comments and trailing commas
// allowed) and command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrStoreFileEmpty     = errors.New("store-file cannot be empty")
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	StoreFile string `json:"store_file"`
	Index     *bool  `json:"index,omitempty"`
	IndexPath string `json:"index_path,omitempty"`

	// Resolved values (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	StoreFileAbs string `json:"-"` // Absolute path to the store file
	IndexPathAbs string `json:"-"` // Absolute index path; empty when the index is disabled

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// IndexEnabled reports whether the derived index is turned on.
func (c Config) IndexEnabled() bool {
	return c.Index != nil && *c.Index
}

// DefaultStoreFile is the store file name used when nothing else is configured.
const DefaultStoreFile = "records.txt"

// Default returns the default configuration.
func Default() Config {
	return Config{
		StoreFile: DefaultStoreFile,
	}
}

// FileName is the default project config file name.
const FileName = ".roster.json"

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/roster/config.json if set, otherwise ~/.config/roster/config.json.
// Returns empty string if home directory cannot be determined.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "roster", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "roster", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride   string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath        string            // -c/--config flag value
	StoreFileOverride string            // --store flag value
	HasStoreOverride  bool              // --store was given, even if empty
	IndexOverride     bool              // --index flag; only ever turns the index on
	Env               map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/roster/config.json or $XDG_CONFIG_HOME/roster/config.json)
// 3. Project config file at default location (.roster.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
	}

	cfg := Default()

	globalCfg, loadedGlobal, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = loadedGlobal
	cfg = merge(cfg, globalCfg)

	projectCfg, loadedProject, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = loadedProject
	cfg = merge(cfg, projectCfg)

	if input.HasStoreOverride {
		if input.StoreFileOverride == "" {
			return Config{}, ErrStoreFileEmpty
		}

		cfg.StoreFile = input.StoreFileOverride
	}

	if input.IndexOverride {
		enabled := true
		cfg.Index = &enabled
	}

	if cfg.StoreFile == "" {
		return Config{}, ErrStoreFileEmpty
	}

	cfg.EffectiveCwd = workDir
	cfg.StoreFileAbs = resolve(workDir, cfg.StoreFile)

	if cfg.IndexEnabled() {
		if cfg.IndexPath != "" {
			cfg.IndexPathAbs = resolve(workDir, cfg.IndexPath)
		} else {
			cfg.IndexPathAbs = cfg.StoreFileAbs + ".index.sqlite"
		}
	}

	return cfg, nil
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(workDir, path)
}

// loadGlobal loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadProject loads the project config file (.roster.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProject(workDir, configPath string) (Config, string, error) {
	var (
		path      string
		mustExist bool
	)

	if configPath != "" {
		path = resolve(workDir, configPath)
		mustExist = true

		_, statErr := os.Stat(path)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		path = filepath.Join(workDir, FileName)
	}

	cfg, loaded, err := loadFile(path, mustExist)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadFile loads a config file. If mustExist is false, missing files return zero config.
// Returns the config, whether the file was loaded, and any error.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

// parse reads JSONC. A store_file key that is present but empty is rejected,
// rather than silently falling back to a lower-precedence value.
func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]json.RawMessage

	_ = json.Unmarshal(standardized, &raw)

	if val, exists := raw["store_file"]; exists && string(val) == `""` {
		return Config{}, ErrStoreFileEmpty
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.StoreFile != "" {
		base.StoreFile = overlay.StoreFile
	}

	if overlay.Index != nil {
		base.Index = overlay.Index
	}

	if overlay.IndexPath != "" {
		base.IndexPath = overlay.IndexPath
	}

	return base
}

// Package config resolves nb's configuration from defaults, config files and
// command line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/tailscale/hujson"
)

var (
	ErrFileNotFound    = errors.New("config file not found")
	ErrFileRead        = errors.New("cannot read config file")
	ErrInvalid         = errors.New("invalid config file")
	ErrRootEmpty       = errors.New("root cannot be empty")
	ErrLogLevelInvalid = errors.New("invalid log_level")
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	Root     string `json:"root"`
	LogLevel string `json:"log_level,omitempty"`

	// Resolved (computed, not serialized)
	EffectiveCwd string        `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	RootAbs      string        `json:"-"` // Absolute path to the notebook root
	Level        zerolog.Level `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project or explicit config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Root:     ".notebook",
		LogLevel: zerolog.WarnLevel.String(),
	}
}

// FileName is the project config file name, looked up in the working directory.
const FileName = ".nb.json"

// globalPath returns $XDG_CONFIG_HOME/nb/config.json, falling back to
// ~/.config/nb/config.json. Empty if neither variable is set.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "nb", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "nb", "config.json")
	}

	return ""
}

// Input holds the inputs for [Load].
type Input struct {
	WorkDirOverride  string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath       string            // -c/--config flag value
	RootOverride     string            // --root flag value; empty means no override
	LogLevelOverride string            // set by -v; empty means no override
	Env              map[string]string // environment variables
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/nb/config.json or ~/.config/nb/config.json)
// 3. Project config file (.nb.json in the working directory, if it exists)
// 4. Explicit config file via ConfigPath, which replaces step 3 and must exist
// 5. CLI overrides.
func Load(in Input) (Config, error) {
	workDir := in.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	if path := globalPath(in.Env); path != "" {
		global, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = path
			cfg = merge(cfg, global)
		}
	}

	projectPath, mustExist := filepath.Join(workDir, FileName), false
	if in.ConfigPath != "" {
		projectPath, mustExist = in.ConfigPath, true
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}
	}

	project, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg.Sources.Project = projectPath
		cfg = merge(cfg, project)
	}

	if in.RootOverride != "" {
		cfg.Root = in.RootOverride
	}

	if in.LogLevelOverride != "" {
		cfg.LogLevel = in.LogLevelOverride
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		return Config{}, fmt.Errorf("%w: %q", ErrLogLevelInvalid, cfg.LogLevel)
	}

	cfg.Level = level
	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.Root) {
		cfg.RootAbs = filepath.Clean(cfg.Root)
	} else {
		cfg.RootAbs = filepath.Join(workDir, cfg.Root)
	}

	return cfg, nil
}

// loadFile reads one config file. A missing file is not an error unless
// mustExist is set. A file that sets root to "" is rejected.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist) && mustExist:
			return Config{}, false, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		case errors.Is(err, os.ErrNotExist):
			return Config{}, false, nil
		default:
			return Config{}, false, fmt.Errorf("%w: %s: %w", ErrFileRead, path, err)
		}
	}

	cfg, emptyRoot, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrInvalid, path, err)
	}

	if emptyRoot {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrInvalid, path, ErrRootEmpty)
	}

	return cfg, true, nil
}

// parse decodes JSONC config data and reports whether root was explicitly
// set to the empty string.
func parse(data []byte) (Config, bool, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, false, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]json.RawMessage

	_ = json.Unmarshal(standardized, &raw)

	emptyRoot := string(raw["root"]) == `""`

	return cfg, emptyRoot, nil
}

func merge(base, overlay Config) Config {
	if overlay.Root != "" {
		base.Root = overlay.Root
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	return base
}

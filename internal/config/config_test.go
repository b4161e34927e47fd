package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/notebook/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func load(t *testing.T, in config.Input) config.Config {
	t.Helper()

	cfg, err := config.Load(in)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	return cfg
}

func Test_Load_Returns_Defaults_When_No_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg := load(t, config.Input{WorkDirOverride: dir, Env: map[string]string{}})

	if cfg.RootAbs != filepath.Join(dir, ".notebook") {
		t.Fatalf("RootAbs=%q, want=%q", cfg.RootAbs, filepath.Join(dir, ".notebook"))
	}

	if cfg.Level != zerolog.WarnLevel {
		t.Fatalf("Level=%v, want=warn", cfg.Level)
	}

	if cfg.Sources != (config.Sources{}) {
		t.Fatalf("Sources=%+v, want none", cfg.Sources)
	}

	if cfg.EffectiveCwd != dir {
		t.Fatalf("EffectiveCwd=%q, want=%q", cfg.EffectiveCwd, dir)
	}
}

func Test_Load_Applies_Layers_In_Precedence_Order(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := t.TempDir()
	env := map[string]string{"XDG_CONFIG_HOME": xdg, "HOME": "/nonexistent"}

	globalPath := filepath.Join(xdg, "nb", "config.json")
	writeFile(t, globalPath, `{"root": "from-global", "log_level": "info"}`)

	cfg := load(t, config.Input{WorkDirOverride: dir, Env: env})
	if cfg.RootAbs != filepath.Join(dir, "from-global") || cfg.Level != zerolog.InfoLevel {
		t.Fatalf("global layer: root=%q level=%v", cfg.RootAbs, cfg.Level)
	}

	if cfg.Sources.Global != globalPath {
		t.Fatalf("Sources.Global=%q, want=%q", cfg.Sources.Global, globalPath)
	}

	writeFile(t, filepath.Join(dir, ".nb.json"), `{
		// project notebook
		"root": "from-project",
	}`)

	cfg = load(t, config.Input{WorkDirOverride: dir, Env: env})
	if cfg.RootAbs != filepath.Join(dir, "from-project") {
		t.Fatalf("project layer: root=%q", cfg.RootAbs)
	}

	if cfg.Level != zerolog.InfoLevel {
		t.Fatalf("project layer should keep global log level, got %v", cfg.Level)
	}

	writeFile(t, filepath.Join(dir, "custom.json"), `{"root": "/abs/explicit"}`)

	cfg = load(t, config.Input{WorkDirOverride: dir, ConfigPath: "custom.json", Env: env})
	if cfg.RootAbs != "/abs/explicit" {
		t.Fatalf("explicit layer: root=%q", cfg.RootAbs)
	}

	if cfg.Sources.Project != filepath.Join(dir, "custom.json") {
		t.Fatalf("Sources.Project=%q", cfg.Sources.Project)
	}

	cfg = load(t, config.Input{
		WorkDirOverride:  dir,
		ConfigPath:       "custom.json",
		RootOverride:     "from-flag",
		LogLevelOverride: "debug",
		Env:              env,
	})
	if cfg.RootAbs != filepath.Join(dir, "from-flag") || cfg.Level != zerolog.DebugLevel {
		t.Fatalf("flag layer: root=%q level=%v", cfg.RootAbs, cfg.Level)
	}
}

func Test_Load_Uses_Home_When_XDG_Unset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	home := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "nb", "config.json"), `{"root": "home-root"}`)

	cfg := load(t, config.Input{WorkDirOverride: dir, Env: map[string]string{"HOME": home}})
	if cfg.RootAbs != filepath.Join(dir, "home-root") {
		t.Fatalf("RootAbs=%q", cfg.RootAbs)
	}
}

func Test_Load_Returns_Error_When_Config_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "syntax", content: `{"root": `, want: config.ErrInvalid},
		{name: "wrong type", content: `{"root": 3}`, want: config.ErrInvalid},
		{name: "empty root", content: `{"root": ""}`, want: config.ErrRootEmpty},
		{name: "bad level", content: `{"log_level": "loud"}`, want: config.ErrLogLevelInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, ".nb.json"), tt.content)

			_, err := config.Load(config.Input{WorkDirOverride: dir, Env: map[string]string{}})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v, want=%v", err, tt.want)
			}
		})
	}
}

func Test_Load_Returns_ErrFileNotFound_When_Explicit_Config_Missing(t *testing.T) {
	t.Parallel()

	_, err := config.Load(config.Input{
		WorkDirOverride: t.TempDir(),
		ConfigPath:      "missing.json",
		Env:             map[string]string{},
	})
	if !errors.Is(err, config.ErrFileNotFound) {
		t.Fatalf("err=%v, want ErrFileNotFound", err)
	}
}

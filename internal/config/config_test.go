package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/minicalc/internal/renderer/core"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := New(WithFile(filepath.Join(t.TempDir(), "missing.toml")), WithEnviron([]string{}))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := cfg.Logging(); got.Level != "info" || got.File != "" {
		t.Errorf("Logging() = %+v", got)
	}
	if got := cfg.UI(); !got.ShowHints || !got.Mouse {
		t.Errorf("UI() = %+v", got)
	}
	if got := cfg.Theme().OperatorFG; got != core.ColorFromRGB(0xFF, 0x9F, 0x0A) {
		t.Errorf("OperatorFG = %v", got)
	}
	if len(cfg.Keymap()) != 0 {
		t.Errorf("Keymap() = %v, want empty", cfg.Keymap())
	}
}

func TestLoadTOMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[logging]
level = "debug"
file = "/tmp/minicalc.log"

[theme]
display_fg = "#0F0"

[keymap]
"x" = "operator:*"
"Ctrl+L" = "clear"

[ui]
show_hints = false
`)

	cfg := New(WithFile(path), WithEnviron([]string{
		"MINICALC_LOG_LEVEL=warn",
		"MINICALC_THEME_DISPLAY_BG=#000000",
	}))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	logging := cfg.Logging()
	if logging.Level != "warn" {
		t.Errorf("level = %q, want env override warn", logging.Level)
	}
	if logging.File != "/tmp/minicalc.log" {
		t.Errorf("file = %q", logging.File)
	}

	theme := cfg.Theme()
	if theme.DisplayFG != core.ColorFromRGB(0, 255, 0) {
		t.Errorf("DisplayFG = %v", theme.DisplayFG)
	}
	if theme.DisplayBG != core.ColorFromRGB(0, 0, 0) {
		t.Errorf("DisplayBG = %v", theme.DisplayBG)
	}

	km := cfg.Keymap()
	if km["x"] != "operator:*" || km["Ctrl+L"] != "clear" {
		t.Errorf("Keymap() = %v", km)
	}
	if cfg.UI().ShowHints {
		t.Error("show_hints should be false")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
ui:
  mouse: false
keymap:
  "0": "digit:0"
`)

	cfg := New(WithFile(path), WithEnviron([]string{}))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.UI().Mouse {
		t.Error("mouse should be false")
	}
	if cfg.Keymap()["0"] != "digit:0" {
		t.Errorf("Keymap() = %v", cfg.Keymap())
	}
}

func TestLoadValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[logging]
level = "loud"

[theme]
display_fg = "red"
sparkle = "#FFF"

[keymap]
"x" = "explode"

[ui]
mouse = "yes"

[extra]
a = 1
`)

	cfg := New(WithFile(path), WithEnviron([]string{}))
	err := cfg.Load(context.Background())
	if err == nil {
		t.Fatal("expected validation errors")
	}

	codes := map[string]ValidationErrorCode{}
	var unwrapped interface{ Unwrap() []error }
	if !errors.As(err, &unwrapped) {
		t.Fatalf("error %T does not join validation errors", err)
	}
	for _, e := range unwrapped.Unwrap() {
		var verr *ValidationError
		if errors.As(e, &verr) {
			codes[verr.Path] = verr.Code
		}
	}

	want := map[string]ValidationErrorCode{
		"logging.level":    ErrCodeInvalidEnum,
		"theme.display_fg": ErrCodeInvalidColor,
		"theme.sparkle":    ErrCodeUnknownSetting,
		`keymap."x"`:       ErrCodeInvalidBinding,
		"ui.mouse":         ErrCodeTypeMismatch,
		"extra":            ErrCodeUnknownSetting,
	}
	for path, code := range want {
		if got, ok := codes[path]; !ok || got != code {
			t.Errorf("%s: code = %v (present %v), want %v", path, got, ok, code)
		}
	}

	// Defaults stay in effect after a failed load.
	if cfg.Logging().Level != "info" {
		t.Errorf("level after failed load = %q", cfg.Logging().Level)
	}
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[ui\nmouse = true\n")

	err := New(WithFile(path), WithEnviron([]string{})).Load(context.Background())
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	writeFile(t, path, "x=1\n")

	if err := New(WithFile(path), WithEnviron([]string{})).Load(context.Background()); err == nil {
		t.Fatal("expected error for .ini config")
	}
}

func TestGetters(t *testing.T) {
	cfg := New(WithEnviron([]string{}))

	if err := cfg.Set("ui.flash_ms", int64(150)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if n, err := cfg.GetInt("ui.flash_ms"); err != nil || n != 150 {
		t.Errorf("GetInt() = %d, %v", n, err)
	}
	if _, err := cfg.GetString("ui.mouse"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetString(bool) error = %v", err)
	}
	if _, err := cfg.GetBool("ui.nothing"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("GetBool(missing) error = %v", err)
	}
	if err := cfg.Set("", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set(empty) error = %v", err)
	}
	if err := cfg.Set("logging.level.deep", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set(through scalar) error = %v", err)
	}

	merged := cfg.Merged()
	merged["ui"].(map[string]any)["mouse"] = false
	if !cfg.UI().Mouse {
		t.Error("Merged() should return a copy")
	}
}

func TestReloadHooks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[ui]\nmouse = true\n")

	cfg := New(WithFile(path), WithEnviron([]string{}))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	var results []error
	cfg.OnReload(func(c *Config, err error) { results = append(results, err) })

	writeFile(t, path, "[ui]\nmouse = false\n")
	if err := cfg.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if cfg.UI().Mouse {
		t.Error("reload did not apply mouse = false")
	}

	writeFile(t, path, "[ui]\nmouse = 3\n")
	if err := cfg.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if cfg.UI().Mouse {
		t.Error("failed reload should keep previous values")
	}

	if len(results) != 2 || results[0] != nil || results[1] == nil {
		t.Errorf("hook results = %v", results)
	}
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[theme]\nclear_fg = \"#111111\"\n")

	cfg := New(WithFile(path), WithEnviron([]string{}), WithWatcher(true))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	defer cfg.Close()

	reloaded := make(chan error, 8)
	cfg.OnReload(func(c *Config, err error) { reloaded <- err })

	writeFile(t, path, "[theme]\nclear_fg = \"#222222\"\n")

	deadline := time.After(3 * time.Second)
	for {
		select {
		case err := <-reloaded:
			if err == nil && cfg.Theme().ClearFG == core.ColorFromRGB(0x22, 0x22, 0x22) {
				return
			}
		case <-deadline:
			t.Fatal("config was not reloaded after the file changed")
		}
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minicalc", "config.toml")

	cfg := New(WithFile(path), WithEnviron([]string{}), WithWatcher(true))
	defer cfg.Close()

	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Watching() {
		t.Error("Watching() = true for a path whose directory does not exist")
	}
	if cfg.Logging().Level != "info" {
		t.Errorf("level = %q, want default", cfg.Logging().Level)
	}
}

func TestWatcherStartsAfterInvalidLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[theme]\ndisplay_fg = \"nothex\"\n")

	cfg := New(WithFile(path), WithEnviron([]string{}), WithWatcher(true))
	defer cfg.Close()

	err := cfg.Load(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Code != ErrCodeInvalidColor {
		t.Fatalf("Load() error = %v, want invalid color", err)
	}
	if !cfg.Watching() {
		t.Fatal("watcher not started after a failed load")
	}

	reloaded := make(chan error, 8)
	cfg.OnReload(func(c *Config, err error) { reloaded <- err })

	writeFile(t, path, "[theme]\ndisplay_fg = \"#00FF00\"\n")

	deadline := time.After(3 * time.Second)
	for {
		select {
		case err := <-reloaded:
			if err == nil && cfg.Theme().DisplayFG == core.ColorFromRGB(0, 0xFF, 0) {
				return
			}
		case <-deadline:
			t.Fatal("fixed config was not reloaded")
		}
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultPath(); got != filepath.Join("/xdg", "minicalc", "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}
}

func TestValidationErrorCode_String(t *testing.T) {
	if ErrCodeInvalidColor.String() != "invalid_color" {
		t.Errorf("String() = %q", ErrCodeInvalidColor.String())
	}
	if ValidationErrorCode(99).String() != "unknown" {
		t.Errorf("String() = %q", ValidationErrorCode(99).String())
	}
}

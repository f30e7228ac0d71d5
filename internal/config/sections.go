package config

import (
	"github.com/dshills/minicalc/internal/renderer/core"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration.

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string

	// File is the log file path. Empty means the caller's default.
	File string
}

// ThemeConfig holds the widget colors.
type ThemeConfig struct {
	DisplayFG   core.Color
	DisplayBG   core.Color
	DigitBG     core.Color
	OperatorFG  core.Color
	EqualsBG    core.Color
	ClearFG     core.Color
	BackspaceFG core.Color
}

// UIConfig provides type-safe access to UI settings.
type UIConfig struct {
	// ShowHints shows the key hint footer below the button grid.
	ShowHints bool

	// Mouse enables pointer input.
	Mouse bool
}

// themeKeys lists the theme settings in display order.
var themeKeys = []string{
	"display_fg",
	"display_bg",
	"digit_bg",
	"operator_fg",
	"equals_bg",
	"clear_fg",
	"backspace_fg",
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// Theme returns the parsed theme colors. Invalid colors fall back to the
// defaults; Load rejects them up front.
func (c *Config) Theme() ThemeConfig {
	return ThemeConfig{
		DisplayFG:   c.colorOr("theme.display_fg"),
		DisplayBG:   c.colorOr("theme.display_bg"),
		DigitBG:     c.colorOr("theme.digit_bg"),
		OperatorFG:  c.colorOr("theme.operator_fg"),
		EqualsBG:    c.colorOr("theme.equals_bg"),
		ClearFG:     c.colorOr("theme.clear_fg"),
		BackspaceFG: c.colorOr("theme.backspace_fg"),
	}
}

// UI returns type-safe access to UI settings.
func (c *Config) UI() UIConfig {
	return UIConfig{
		ShowHints: c.getBoolOr("ui.show_hints", true),
		Mouse:     c.getBoolOr("ui.mouse", true),
	}
}

// Keymap returns the user key bindings as key spec to action name.
// Entries whose action is not a string are skipped.
func (c *Config) Keymap() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string)
	section, ok := c.data["keymap"].(map[string]any)
	if !ok {
		return out
	}
	for spec, v := range section {
		if action, ok := v.(string); ok {
			out[spec] = action
		}
	}
	return out
}

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		return defaultValue
	}
	return v
}

func (c *Config) colorOr(path string) core.Color {
	def, _ := getPath(defaultConfig(), path)
	fallback, _ := core.ColorFromHex(def.(string))

	s, err := c.GetString(path)
	if err != nil {
		return fallback
	}
	color, err := core.ColorFromHex(s)
	if err != nil {
		return fallback
	}
	return color
}

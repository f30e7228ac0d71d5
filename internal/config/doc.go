// Package config provides the configuration system for minicalc.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← MINICALC_LOG_LEVEL, MINICALC_THEME_DISPLAY_FG, ...
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/minicalc/config.toml (or .yaml)
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The file format follows the extension: TOML for .toml, YAML for .yaml
// and .yml. A missing file is not an error.
//
// # Sections
//
//	[logging]  level, file
//	[theme]    display_fg, display_bg, digit_bg, operator_fg, equals_bg,
//	           clear_fg, backspace_fg (hex colors, "#RRGGBB" or "#RGB")
//	[keymap]   "key spec" = "action" (digit:N, decimal, operator:+,
//	           equals, clear, backspace, quit)
//	[ui]       show_hints, mouse
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment loading plus map merging
//   - watcher: fsnotify-based file watching for live reload
//
// # Basic Usage
//
//	cfg := config.New(config.WithFile(path))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//
//	theme := cfg.Theme()
//	cfg.OnReload(func(c *config.Config, err error) { ... })
package config

package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/minicalc/internal/config/loader"
	"github.com/dshills/minicalc/internal/config/watcher"
)

// ReloadFunc is called after the config file changes on disk. err is nil
// when the new file was applied, otherwise the previous values stay in
// effect and err explains why.
type ReloadFunc func(c *Config, err error)

// Config provides unified access to the minicalc configuration.
// It manages loading, validation and live reloading.
type Config struct {
	mu sync.RWMutex

	// Merged configuration: defaults <- file <- environment
	data map[string]any

	// Configuration sources
	path      string
	fs        loader.FileSystem
	envPrefix string
	environ   []string

	// File watcher for live reload
	enableWatcher bool
	watcher       *watcher.Watcher

	reloadMu sync.Mutex
	onReload []ReloadFunc

	closed bool
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the configuration file. An empty path uses DefaultPath.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFileSystem sets the file system used to read the config file.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithEnviron replaces the process environment with a KEY=VALUE list.
func WithEnviron(environ []string) Option {
	return func(c *Config) {
		c.environ = environ
	}
}

// WithWatcher enables file watching for live reload.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// New creates a new Config holding only the defaults. Call Load to read
// the file and environment layers.
func New(opts ...Option) *Config {
	c := &Config{
		data:      defaultConfig(),
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.path == "" {
		c.path = DefaultPath()
	}

	return c
}

// Load reads all layers, validates the result and, when enabled, starts
// watching the config file. The watcher is started even when the file
// fails to load, so fixing it on disk is picked up by a later reload.
// When the file's directory does not exist there is nothing to watch.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, loadErr := c.readLayers()
	if loadErr == nil {
		loadErr = validate(data)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if loadErr == nil {
		c.data = data
	}
	startWatcher := c.enableWatcher && c.watcher == nil && c.path != ""
	c.mu.Unlock()

	if startWatcher && dirExists(filepath.Dir(c.path)) {
		if err := c.startWatcher(); err != nil {
			return errors.Join(loadErr, fmt.Errorf("watching %s: %w", c.path, err))
		}
	}
	return loadErr
}

// Watching reports whether the config file is being watched.
func (c *Config) Watching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watcher != nil
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// Reload re-reads the file and environment layers. On failure the current
// values are kept.
func (c *Config) Reload() error {
	data, err := c.readLayers()
	if err == nil {
		err = validate(data)
	}
	if err == nil {
		c.mu.Lock()
		c.data = data
		c.mu.Unlock()
	}

	c.reloadMu.Lock()
	hooks := make([]ReloadFunc, len(c.onReload))
	copy(hooks, c.onReload)
	c.reloadMu.Unlock()

	for _, fn := range hooks {
		fn(c, err)
	}
	return err
}

// OnReload registers fn to run after every reload attempt.
func (c *Config) OnReload(fn ReloadFunc) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()
	c.onReload = append(c.onReload, fn)
}

// Close stops the file watcher.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.closed = true
	c.mu.Unlock()

	if w != nil {
		_ = w.Stop()
	}
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) readLayers() (map[string]any, error) {
	data := defaultConfig()

	if c.path != "" {
		fl, err := loader.ForPath(c.fs, c.path)
		if err != nil {
			return nil, err
		}
		file, err := fl.Load()
		if err != nil {
			return nil, err
		}
		data = loader.DeepMerge(data, file)
	}

	var env *loader.EnvLoader
	if c.environ != nil {
		env = loader.NewEnvLoaderWithEnviron(c.envPrefix, c.environ)
	} else {
		env = loader.NewEnvLoader(c.envPrefix)
	}
	envData, err := env.Load()
	if err != nil {
		return nil, err
	}
	return loader.DeepMerge(data, envData), nil
}

func (c *Config) startWatcher() error {
	w, err := watcher.New()
	if err != nil {
		return err
	}
	if err := w.Watch(c.path); err != nil {
		_ = w.Stop()
		return err
	}
	w.OnChange(c.handleFileChange)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return w.Stop()
	}
	c.watcher = w
	c.mu.Unlock()

	w.Start()
	return nil
}

// handleFileChange reloads on every change. A removed file falls back to
// the defaults and environment.
func (c *Config) handleFileChange(watcher.Event) {
	_ = c.Reload()
}

// Get returns the value at a dot-separated path.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.data, path)
}

// GetString returns a string setting.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %s, want string", ErrTypeMismatch, path, typeName(v))
	}
	return s, nil
}

// GetBool returns a boolean setting.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is %s, want bool", ErrTypeMismatch, path, typeName(v))
	}
	return b, nil
}

// GetInt returns an integer setting. TOML integers decode as int64, YAML
// integers as int.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %s is %s, want int", ErrTypeMismatch, path, typeName(v))
}

// Set overrides a single value in memory.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return setPath(c.data, path, value)
}

// Merged returns a deep copy of the merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.data)
}

// DefaultPath returns $XDG_CONFIG_HOME/minicalc/config.toml, falling back
// to ~/.config/minicalc/config.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "minicalc", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "minicalc", "config.toml")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"theme": map[string]any{
			"display_fg":   "#FFFFFF",
			"display_bg":   "#1C1C1E",
			"digit_bg":     "#3A3A3C",
			"operator_fg":  "#FF9F0A",
			"equals_bg":    "#FF9F0A",
			"clear_fg":     "#FF453A",
			"backspace_fg": "#FFD60A",
		},
		"keymap": map[string]any{},
		"ui": map[string]any{
			"show_hints": true,
			"mouse":      true,
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}

	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path, dropping empty segments.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '.' })
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}

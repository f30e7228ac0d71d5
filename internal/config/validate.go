package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/minicalc/internal/input/keymap"
	"github.com/dshills/minicalc/internal/renderer/core"
)

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// settingKinds lists the known scalar settings and their types.
var settingKinds = map[string]map[string]string{
	"logging": {"level": "string", "file": "string"},
	"ui":      {"show_hints": "bool", "mouse": "bool"},
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return validate(c.data)
}

// validate reports every problem in data as joined *ValidationError values.
func validate(data map[string]any) error {
	var errs []error
	add := func(path, msg string, value any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code})
	}

	for _, section := range sortedKeys(data) {
		switch section {
		case "logging", "ui", "theme", "keymap":
		default:
			add(section, "unknown section", data[section], ErrCodeUnknownSetting)
			continue
		}
		m, ok := data[section].(map[string]any)
		if !ok {
			add(section, "section must be a table", data[section], ErrCodeTypeMismatch)
			continue
		}

		switch section {
		case "theme":
			validateTheme(m, add)
		case "keymap":
			validateKeymap(m, add)
		default:
			kinds := settingKinds[section]
			for _, name := range sortedKeys(m) {
				path := section + "." + name
				kind, known := kinds[name]
				if !known {
					add(path, "unknown setting", m[name], ErrCodeUnknownSetting)
					continue
				}
				if typeName(m[name]) != kind {
					add(path, "expected "+kind, m[name], ErrCodeTypeMismatch)
				}
			}
		}
	}

	if logging, ok := data["logging"].(map[string]any); ok {
		if level, ok := logging["level"].(string); ok && !logLevels[level] {
			add("logging.level", "must be one of debug, info, warn, error", level, ErrCodeInvalidEnum)
		}
	}

	return errors.Join(errs...)
}

func validateTheme(m map[string]any, add func(string, string, any, ValidationErrorCode)) {
	known := make(map[string]bool, len(themeKeys))
	for _, k := range themeKeys {
		known[k] = true
	}

	for _, name := range sortedKeys(m) {
		path := "theme." + name
		if !known[name] {
			add(path, "unknown setting", m[name], ErrCodeUnknownSetting)
			continue
		}
		s, ok := m[name].(string)
		if !ok {
			add(path, "expected string", m[name], ErrCodeTypeMismatch)
			continue
		}
		if _, err := core.ColorFromHex(s); err != nil {
			add(path, "expected #RRGGBB or #RGB", s, ErrCodeInvalidColor)
		}
	}
}

func validateKeymap(m map[string]any, add func(string, string, any, ValidationErrorCode)) {
	for _, spec := range sortedKeys(m) {
		path := fmt.Sprintf("keymap.%q", spec)
		action, ok := m[spec].(string)
		if !ok {
			add(path, "expected action name", m[spec], ErrCodeTypeMismatch)
			continue
		}
		if err := keymap.New().BindSpec(spec, action); err != nil {
			add(path, err.Error(), action, ErrCodeInvalidBinding)
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

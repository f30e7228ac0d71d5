package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "1", "+", "="
//   - Special keys: "Enter", "Escape", "Backspace", "Space"
//   - With modifiers: "Ctrl+L", "Alt+Backspace"
//   - Vim-style: "<C-l>", "<CR>", "<Esc>", "<BS>"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	// A lone character is always literal, so "+" and "<" work unquoted.
	if runes := []rune(spec); len(runes) == 1 {
		return NewRuneEvent(runes[0], ModNone), nil
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if strings.Contains(spec[:len(spec)-1], "+") {
		return parseModifierStyle(spec)
	}

	return parseKey(spec, ModNone)
}

// MustParse is like Parse but panics on error. Intended for static tables.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return ev
}

// parseVimStyle parses Vim-style notation like "C-l", "CR", "Esc".
func parseVimStyle(inner string) (Event, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Event{}, ErrInvalidSpec
	}

	parts := strings.Split(inner, "-")
	keyPart := parts[len(parts)-1]
	if keyPart == "" && len(parts) > 1 {
		// "<C-->" binds Ctrl with the minus key.
		keyPart = "-"
		parts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(strings.ToLower(strings.TrimSpace(p)))
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKey(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+L" style notation. The final segment is
// the key, which may itself be "+".
func parseModifierStyle(spec string) (Event, error) {
	idx := strings.LastIndex(spec[:len(spec)-1], "+")
	modPart, keyPart := spec[:idx], spec[idx+1:]

	var mods Modifier
	for _, p := range strings.Split(modPart, "+") {
		mod := ModifierFromName(strings.ToLower(strings.TrimSpace(p)))
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKey(keyPart, mods)
}

// parseKey parses a key name or single character with known modifiers.
func parseKey(keyPart string, mods Modifier) (Event, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	lower := strings.ToLower(keyPart)
	switch lower {
	case "space":
		return NewRuneEvent(' ', mods), nil
	case "lt":
		return NewRuneEvent('<', mods), nil
	case "gt":
		return NewRuneEvent('>', mods), nil
	case "plus":
		return NewRuneEvent('+', mods), nil
	case "minus":
		return NewRuneEvent('-', mods), nil
	}

	if k := KeyFromName(lower); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) == 1 {
		return NewRuneEvent(runes[0], mods).Normalize(), nil
	}

	return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, keyPart)
}

// ParseSequence splits a typed key sequence into events. Each character is
// one key press, and a bracketed name such as "<CR>", "<Esc>" or "<C-c>"
// is parsed with Parse. A '<' that does not open a valid bracket is the
// literal character.
func ParseSequence(seq string) ([]Event, error) {
	var events []Event
	runes := []rune(seq)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '<' {
			if end := indexRune(runes[i+1:], '>'); end > 0 {
				spec := string(runes[i : i+end+2])
				ev, err := Parse(spec)
				if err != nil {
					return nil, fmt.Errorf("at offset %d: %w", i, err)
				}
				events = append(events, ev)
				i += end + 1
				continue
			}
		}
		events = append(events, NewRuneEvent(r, ModNone))
	}
	return events, nil
}

func indexRune(rs []rune, r rune) int {
	for i, c := range rs {
		if c == r {
			return i
		}
	}
	return -1
}

package key

import (
	"strings"
	"unicode"
)

// Event represents a single key press event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// Normalize returns the canonical form used for keymap lookup.
// Shift is dropped from character events since it is already part of the
// character, and Ctrl combinations use the lowercase letter.
func (e Event) Normalize() Event {
	if !e.IsRune() {
		return e
	}
	n := e
	n.Modifiers = n.Modifiers.Without(ModShift)
	if n.Modifiers.Has(ModCtrl) {
		n.Rune = unicode.ToLower(n.Rune)
	}
	return n
}

// String returns a canonical string representation.
// Examples: "a", "+", "Enter", "Ctrl+L", "Alt+Backspace".
func (e Event) String() string {
	var name string
	switch e.Key {
	case KeyRune:
		if e.Rune == ' ' {
			name = "Space"
		} else {
			name = string(e.Rune)
		}
	default:
		name = e.Key.String()
	}

	mods := e.Modifiers
	if e.Key == KeyRune {
		mods = mods.Without(ModShift)
	}
	if mods == ModNone {
		return name
	}
	if e.Key == KeyRune && mods.Has(ModCtrl) {
		name = strings.ToUpper(name)
	}
	return mods.String() + "+" + name
}

// Package key provides key event types and parsing for the input system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers
//
// # Key Specifications
//
// Key specifications, as used in keymap configuration, can be written in
// several formats:
//
//   - Simple keys: "a", "1", "+", "Enter", "Escape"
//   - With modifiers: "Ctrl+L", "Alt+Backspace"
//   - Vim-style: "<C-l>", "<CR>", "<Esc>", "<BS>"
package key

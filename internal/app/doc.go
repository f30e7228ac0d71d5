// Package app wires the calculator engine, keymap, widget and terminal
// backend into a running program.
//
// An Application owns one calc.Engine. Keyboard and pointer input arrive
// from a backend.Backend on a polling goroutine and are applied on the
// event loop goroutine, which is the only goroutine that touches the
// engine and the widget while Run is active. Headless callers drive the
// same engine through HandleKey and HandleClick.
//
// Configuration comes from internal/config. When the config file changes
// on disk the keymap is swapped immediately and theme and ui settings are
// applied on the event loop, followed by a config.reloaded event on the
// bus.
package app

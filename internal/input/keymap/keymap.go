package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/minicalc/internal/calc"
	"github.com/dshills/minicalc/internal/input/key"
)

// Errors returned by the keymap.
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidKey    = errors.New("invalid key binding")
)

// Binding pairs a key with an action.
type Binding struct {
	Key    key.Event
	Action Action
}

// Keymap resolves key events to actions.
//
// Keymap is safe for concurrent use; bindings can be replaced by a config
// reload while the event loop performs lookups.
type Keymap struct {
	mu       sync.RWMutex
	bindings map[key.Event]Action
}

// New creates an empty keymap.
func New() *Keymap {
	return &Keymap{bindings: make(map[key.Event]Action)}
}

// Default returns the standard calculator bindings: 0-9, '.', + - * /,
// Enter and '=' for equals, Escape for clear, Backspace, and Ctrl+C or
// 'q' to quit.
func Default() *Keymap {
	km := New()
	for d := byte(0); d <= 9; d++ {
		km.Bind(key.NewRuneEvent(rune('0'+d), key.ModNone), DigitAction(d))
	}
	km.Bind(key.NewRuneEvent('.', key.ModNone), ActionDecimal)
	for _, r := range "+-*/" {
		op, _ := calc.ParseOperator(r)
		km.Bind(key.NewRuneEvent(r, key.ModNone), OperatorAction(op))
	}
	km.Bind(key.NewSpecialEvent(key.KeyEnter, key.ModNone), ActionEquals)
	km.Bind(key.NewRuneEvent('=', key.ModNone), ActionEquals)
	km.Bind(key.NewSpecialEvent(key.KeyEscape, key.ModNone), ActionClear)
	km.Bind(key.NewSpecialEvent(key.KeyBackspace, key.ModNone), ActionBackspace)
	km.Bind(key.NewRuneEvent('c', key.ModCtrl), ActionQuit)
	km.Bind(key.NewRuneEvent('q', key.ModNone), ActionQuit)
	return km
}

// Bind adds or replaces the binding for ev.
func (km *Keymap) Bind(ev key.Event, a Action) {
	km.mu.Lock()
	defer km.mu.Unlock()
	km.bindings[ev.Normalize()] = a
}

// BindSpec parses a key specification and action name and binds them.
func (km *Keymap) BindSpec(keySpec, action string) error {
	ev, err := key.Parse(keySpec)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidKey, keySpec, err)
	}
	a, err := ParseAction(action)
	if err != nil {
		return err
	}
	km.Bind(ev, a)
	return nil
}

// Unbind removes the binding for ev.
func (km *Keymap) Unbind(ev key.Event) {
	km.mu.Lock()
	defer km.mu.Unlock()
	delete(km.bindings, ev.Normalize())
}

// Lookup returns the action bound to ev.
func (km *Keymap) Lookup(ev key.Event) (Action, bool) {
	km.mu.RLock()
	defer km.mu.RUnlock()
	a, ok := km.bindings[ev.Normalize()]
	return a, ok
}

// Len returns the number of bindings.
func (km *Keymap) Len() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.bindings)
}

// Bindings returns all bindings sorted by key string.
func (km *Keymap) Bindings() []Binding {
	km.mu.RLock()
	out := make([]Binding, 0, len(km.bindings))
	for ev, a := range km.bindings {
		out = append(out, Binding{Key: ev, Action: a})
	}
	km.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}

// Replace swaps in the bindings of other.
func (km *Keymap) Replace(other *Keymap) {
	other.mu.RLock()
	next := make(map[key.Event]Action, len(other.bindings))
	for ev, a := range other.bindings {
		next[ev] = a
	}
	other.mu.RUnlock()

	km.mu.Lock()
	km.bindings = next
	km.mu.Unlock()
}

// FromConfig builds the default keymap overlaid with user bindings, a map
// of key specification to action name. All invalid entries are reported
// together.
func FromConfig(user map[string]string) (*Keymap, error) {
	km := Default()

	specs := make([]string, 0, len(user))
	for spec := range user {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	var errs []error
	for _, spec := range specs {
		if err := km.BindSpec(spec, user[spec]); err != nil {
			errs = append(errs, err)
		}
	}
	return km, errors.Join(errs...)
}

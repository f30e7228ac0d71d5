// Package keymap maps key events to calculator actions.
package keymap

import (
	"fmt"
	"strings"

	"github.com/dshills/minicalc/internal/calc"
)

// Kind identifies what an Action does.
type Kind uint8

const (
	KindNone Kind = iota
	KindDigit
	KindDecimal
	KindOperator
	KindEquals
	KindClear
	KindBackspace
	KindQuit
)

// Action is the result of a key binding.
type Action struct {
	Kind Kind

	// Digit is set for KindDigit.
	Digit byte

	// Op is set for KindOperator.
	Op calc.Operator
}

// Common actions.
var (
	ActionDecimal   = Action{Kind: KindDecimal}
	ActionEquals    = Action{Kind: KindEquals}
	ActionClear     = Action{Kind: KindClear}
	ActionBackspace = Action{Kind: KindBackspace}
	ActionQuit      = Action{Kind: KindQuit}
)

// DigitAction returns the action entering digit d.
func DigitAction(d byte) Action {
	return Action{Kind: KindDigit, Digit: d}
}

// OperatorAction returns the action choosing op.
func OperatorAction(op calc.Operator) Action {
	return Action{Kind: KindOperator, Op: op}
}

// String returns the configuration spelling of the action,
// e.g. "digit:7", "operator:+", "equals".
func (a Action) String() string {
	switch a.Kind {
	case KindDigit:
		return fmt.Sprintf("digit:%d", a.Digit)
	case KindDecimal:
		return "decimal"
	case KindOperator:
		return "operator:" + a.Op.String()
	case KindEquals:
		return "equals"
	case KindClear:
		return "clear"
	case KindBackspace:
		return "backspace"
	case KindQuit:
		return "quit"
	default:
		return "none"
	}
}

// CalcEvent converts the action to an engine event.
// It returns false for actions that are not engine input, such as quit.
func (a Action) CalcEvent() (calc.Event, bool) {
	switch a.Kind {
	case KindDigit:
		return calc.Digit{D: a.Digit}, true
	case KindDecimal:
		return calc.Decimal{}, true
	case KindOperator:
		return calc.OperatorPressed{Op: a.Op}, true
	case KindEquals:
		return calc.Equals{}, true
	case KindClear:
		return calc.Clear{}, true
	case KindBackspace:
		return calc.Backspace{}, true
	default:
		return nil, false
	}
}

// ParseAction parses the configuration spelling of an action.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	name, arg, hasArg := strings.Cut(s, ":")
	switch name {
	case "digit":
		if !hasArg || len(arg) != 1 || arg[0] < '0' || arg[0] > '9' {
			return Action{}, fmt.Errorf("%w: digit needs one of 0-9, got %q", ErrUnknownAction, s)
		}
		return DigitAction(arg[0] - '0'), nil
	case "operator":
		if hasArg && len([]rune(arg)) == 1 {
			if op, ok := calc.ParseOperator([]rune(arg)[0]); ok {
				return OperatorAction(op), nil
			}
		}
		return Action{}, fmt.Errorf("%w: operator needs one of + - * /, got %q", ErrUnknownAction, s)
	}

	if hasArg {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	switch name {
	case "decimal":
		return ActionDecimal, nil
	case "equals":
		return ActionEquals, nil
	case "clear":
		return ActionClear, nil
	case "backspace":
		return ActionBackspace, nil
	case "quit":
		return ActionQuit, nil
	default:
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

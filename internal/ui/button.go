package ui

import (
	"github.com/dshills/minicalc/internal/calc"
	"github.com/dshills/minicalc/internal/input/keymap"
	"github.com/dshills/minicalc/internal/renderer/core"
)

// Kind selects how a button is colored.
type Kind int

const (
	KindDigit Kind = iota
	KindOperator
	KindDecimal
	KindEquals
	KindClear
	KindBackspace
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindOperator:
		return "operator"
	case KindDecimal:
		return "decimal"
	case KindEquals:
		return "equals"
	case KindClear:
		return "clear"
	case KindBackspace:
		return "backspace"
	default:
		return "unknown"
	}
}

// Button is one cell of the button grid.
type Button struct {
	Label  string
	Kind   Kind
	Action keymap.Action
	// Span is the number of grid columns the button covers.
	Span int
	// Rect is the button's screen area after layout.
	Rect core.ScreenRect
}

// GridColumns is the width of the button grid in buttons.
const GridColumns = 4

// DefaultButtons returns the button grid in row-major order:
//
//	7 8 9 /
//	4 5 6 *
//	1 2 3 -
//	0 0 . +
//	= C ⌫
func DefaultButtons() []Button {
	digit := func(d byte) Button {
		return Button{Label: string('0' + rune(d)), Kind: KindDigit, Action: keymap.DigitAction(d), Span: 1}
	}
	op := func(label string, o calc.Operator) Button {
		return Button{Label: label, Kind: KindOperator, Action: keymap.OperatorAction(o), Span: 1}
	}

	zero := digit(0)
	zero.Span = 2

	return []Button{
		digit(7), digit(8), digit(9), op("/", calc.OpDiv),
		digit(4), digit(5), digit(6), op("*", calc.OpMul),
		digit(1), digit(2), digit(3), op("-", calc.OpSub),
		zero, {Label: ".", Kind: KindDecimal, Action: keymap.ActionDecimal, Span: 1}, op("+", calc.OpAdd),
		{Label: "=", Kind: KindEquals, Action: keymap.ActionEquals, Span: 1},
		{Label: "C", Kind: KindClear, Action: keymap.ActionClear, Span: 1},
		{Label: "⌫", Kind: KindBackspace, Action: keymap.ActionBackspace, Span: 1},
	}
}

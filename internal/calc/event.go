package calc

import "fmt"

// Operator is a pending binary arithmetic operator.
type Operator uint8

const (
	// OpNone means no operator has been chosen.
	OpNone Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
)

// String returns the operator symbol, or "" for OpNone.
func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return ""
	}
}

// Valid reports whether op is one of the four arithmetic operators.
func (op Operator) Valid() bool {
	return op >= OpAdd && op <= OpDiv
}

// ParseOperator maps an operator symbol to an Operator.
func ParseOperator(r rune) (Operator, bool) {
	switch r {
	case '+':
		return OpAdd, true
	case '-':
		return OpSub, true
	case '*':
		return OpMul, true
	case '/':
		return OpDiv, true
	default:
		return OpNone, false
	}
}

// Event is a single calculator input. The set of implementations is closed:
// Digit, Decimal, OperatorPressed, Equals, Clear and Backspace.
type Event interface {
	fmt.Stringer
	calcEvent()
}

// Digit enters one decimal digit. D must be in the range 0-9.
type Digit struct {
	D byte
}

// Decimal enters the decimal point.
type Decimal struct{}

// OperatorPressed chooses the pending operator.
type OperatorPressed struct {
	Op Operator
}

// Equals applies the pending operator to both operands.
type Equals struct{}

// Clear resets all state.
type Clear struct{}

// Backspace removes the last display character.
type Backspace struct{}

func (Digit) calcEvent()           {}
func (Decimal) calcEvent()         {}
func (OperatorPressed) calcEvent() {}
func (Equals) calcEvent()          {}
func (Clear) calcEvent()           {}
func (Backspace) calcEvent()       {}

func (e Digit) String() string {
	if e.D > 9 {
		return "digit(?)"
	}
	return string(rune('0' + e.D))
}

func (Decimal) String() string { return "." }

func (e OperatorPressed) String() string { return e.Op.String() }

func (Equals) String() string { return "=" }

func (Clear) String() string { return "clear" }

func (Backspace) String() string { return "backspace" }

// EventForRune maps a single input character to an event, using the same
// symbols as the keyboard: digits, '.', '+', '-', '*', '/', '='.
// Clear and Backspace have no character form.
func EventForRune(r rune) (Event, bool) {
	switch {
	case r >= '0' && r <= '9':
		return Digit{D: byte(r - '0')}, true
	case r == '.':
		return Decimal{}, true
	case r == '=':
		return Equals{}, true
	}
	if op, ok := ParseOperator(r); ok {
		return OperatorPressed{Op: op}, true
	}
	return nil, false
}

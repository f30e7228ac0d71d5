// Package calc implements the calculator input state machine.
//
// The Engine consumes discrete input events (digits, decimal point,
// operators, equals, clear and backspace) and maintains the text shown on
// the calculator display. Arithmetic is binary and evaluated left to right
// as operators are chained; there is no precedence and no expression
// parsing.
//
// # Events
//
// Input is modeled as a closed set of event types implementing Event:
//
//   - Digit: a single decimal digit 0-9
//   - Decimal: the decimal point
//   - OperatorPressed: one of + - * /
//   - Equals: evaluate the pending operation
//   - Clear: reset to the initial state
//   - Backspace: remove the last display character
//
// # Numbers
//
// Operands are held as display strings and converted to float64 only when
// an operation is applied. Results are rendered with FormatNumber, which
// keeps the shortest round-trip digits and does not round, so floating
// point artifacts such as 0.30000000000000004 are shown as-is. Division by
// zero follows IEEE-754 and renders as Infinity, -Infinity or NaN.
//
// An Engine is not safe for concurrent use.
package calc

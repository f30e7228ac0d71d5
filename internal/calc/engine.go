package calc

import "strings"

// DefaultDisplay is the display text of a cleared calculator.
const DefaultDisplay = "0"

// Phase names the implicit state of the engine.
type Phase uint8

const (
	// PhaseIdle has no captured operand or operator.
	PhaseIdle Phase = iota
	// PhaseOperatorPending has an operator chosen and awaits the first
	// digit of the second operand.
	PhaseOperatorPending
	// PhaseEnteringSecondOperand is typing the second operand.
	PhaseEnteringSecondOperand
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseOperatorPending:
		return "operator_pending"
	case PhaseEnteringSecondOperand:
		return "entering_second_operand"
	default:
		return "unknown"
	}
}

// State is a snapshot of the engine state.
type State struct {
	Display                 string
	FirstOperand            string
	HasFirstOperand         bool
	Operator                Operator
	WaitingForSecondOperand bool
}

// Phase derives the implicit state machine phase from the snapshot.
func (s State) Phase() Phase {
	switch {
	case s.WaitingForSecondOperand:
		return PhaseOperatorPending
	case s.HasFirstOperand && s.Operator.Valid():
		return PhaseEnteringSecondOperand
	default:
		return PhaseIdle
	}
}

// Engine is the calculator state machine.
type Engine struct {
	display  string
	first    string
	hasFirst bool
	op       Operator
	waiting  bool
}

// NewEngine creates an engine in the cleared state.
func NewEngine() *Engine {
	return &Engine{display: DefaultDisplay}
}

// Display returns the current display text.
func (e *Engine) Display() string {
	return e.display
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	return State{
		Display:                 e.display,
		FirstOperand:            e.first,
		HasFirstOperand:         e.hasFirst,
		Operator:                e.op,
		WaitingForSecondOperand: e.waiting,
	}
}

// Handle applies ev and returns the resulting display text.
// Events that do not apply in the current state are ignored.
func (e *Engine) Handle(ev Event) string {
	switch ev := ev.(type) {
	case Digit:
		e.inputDigit(ev.D)
	case Decimal:
		e.inputDecimal()
	case OperatorPressed:
		e.chooseOperator(ev.Op)
	case Equals:
		e.equals()
	case Clear:
		e.reset()
	case Backspace:
		e.backspace()
	}
	return e.display
}

func (e *Engine) inputDigit(d byte) {
	if d > 9 {
		return
	}
	digit := string(rune('0' + d))

	if e.waiting {
		e.display = digit
		e.waiting = false
		return
	}
	if e.display == DefaultDisplay {
		e.display = digit
		return
	}
	e.display += digit
}

func (e *Engine) inputDecimal() {
	if e.waiting {
		e.display = "0."
		e.waiting = false
		return
	}
	if !strings.Contains(e.display, ".") {
		e.display += "."
	}
}

func (e *Engine) chooseOperator(op Operator) {
	if !op.Valid() {
		return
	}

	switch {
	case !e.hasFirst:
		e.first = e.display
		e.hasFirst = true
	case e.op.Valid() && !e.waiting:
		result := FormatNumber(Compute(e.first, e.display, e.op))
		e.display = result
		e.first = result
	}

	e.op = op
	e.waiting = true
}

func (e *Engine) equals() {
	if !e.hasFirst || !e.op.Valid() || e.waiting {
		return
	}

	e.display = FormatNumber(Compute(e.first, e.display, e.op))
	e.first = ""
	e.hasFirst = false
	e.op = OpNone
	e.waiting = false
}

func (e *Engine) reset() {
	*e = Engine{display: DefaultDisplay}
}

func (e *Engine) backspace() {
	if len(e.display) > 1 {
		e.display = e.display[:len(e.display)-1]
		return
	}
	e.display = DefaultDisplay
}

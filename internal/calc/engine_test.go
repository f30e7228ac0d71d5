package calc

import (
	"strings"
	"testing"
)

// press feeds a compact key string to the engine. Besides the character
// forms accepted by EventForRune, 'C' is Clear and '<' is Backspace.
func press(t *testing.T, e *Engine, keys string) string {
	t.Helper()
	for _, r := range keys {
		switch r {
		case 'C':
			e.Handle(Clear{})
		case '<':
			e.Handle(Backspace{})
		default:
			ev, ok := EventForRune(r)
			if !ok {
				t.Fatalf("press: no event for %q", r)
			}
			e.Handle(ev)
		}
	}
	return e.Display()
}

func TestNewEngine(t *testing.T) {
	e := NewEngine()

	want := State{Display: "0"}
	if got := e.State(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
	if e.State().Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, want idle", e.State().Phase())
	}
}

func TestEngine_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"leading zeros collapse", "005", "5"},
		{"zero replaced once", "0", "0"},
		{"digit sequence", "1234567890", "1234567890"},
		{"decimal idempotent", "1..2", "1.2"},
		{"decimal from zero", ".5", "0.5"},
		{"addition", "5+3=", "8"},
		{"subtraction", "5-8=", "-3"},
		{"multiplication", "7*6=", "42"},
		{"division", "7/2=", "3.5"},
		{"division by zero", "6/0=", "Infinity"},
		{"negative division by zero", "0-6=/0=", "-Infinity"},
		{"zero over zero", "0/0=", "NaN"},
		{"chain left to right", "4+2*3=", "18"},
		{"long chain", "1+2+3+4=", "10"},
		{"float artifact kept", ".1+.2=", "0.30000000000000004"},
		{"decimal after operator", "5+.5=", "5.5"},
		{"equals without operator", "12=", "12"},
		{"equals while waiting", "12+=", "12"},
		{"operator replaced without recompute", "4+-2=", "2"},
		{"digit after equals appends", "5+3=1", "81"},
		{"operator after equals starts from result", "5+3=*2=", "16"},
		{"backspace then continue", "12<3", "13"},
		{"backspace to zero", "12<<", "0"},
		{"backspace on zero", "<", "0"},
		{"clear mid chain", "9*9C", "0"},
		{"clear then compute", "9*9C2+2=", "4"},
		{"large product", "99999999999*99999999999=", "9.9999999998e+21"},
		{"garbled operand parses as zero", "6/0=<+2=", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			if got := press(t, e, tt.keys); got != tt.want {
				t.Errorf("keys %q: display = %q, want %q", tt.keys, got, tt.want)
			}
		})
	}
}

func TestEngine_ChainIntermediateState(t *testing.T) {
	e := NewEngine()

	press(t, e, "4+")
	s := e.State()
	if !s.HasFirstOperand || s.FirstOperand != "4" || s.Operator != OpAdd || !s.WaitingForSecondOperand {
		t.Fatalf("after 4+: state = %+v", s)
	}

	press(t, e, "2*")
	s = e.State()
	if s.FirstOperand != "6" || s.Display != "6" || s.Operator != OpMul || !s.WaitingForSecondOperand {
		t.Fatalf("after 4+2*: state = %+v", s)
	}

	press(t, e, "3")
	if got := e.State().Phase(); got != PhaseEnteringSecondOperand {
		t.Errorf("Phase() = %v, want %v", got, PhaseEnteringSecondOperand)
	}

	if got := press(t, e, "="); got != "18" {
		t.Errorf("display = %q, want 18", got)
	}
	s = e.State()
	if s.HasFirstOperand || s.Operator != OpNone || s.WaitingForSecondOperand {
		t.Errorf("after equals: state = %+v, want cleared operands", s)
	}
}

func TestEngine_Phases(t *testing.T) {
	tests := []struct {
		keys string
		want Phase
	}{
		{"", PhaseIdle},
		{"7", PhaseIdle},
		{"7+", PhaseOperatorPending},
		{"7+*", PhaseOperatorPending},
		{"7+1", PhaseEnteringSecondOperand},
		{"7+.", PhaseEnteringSecondOperand},
		{"7+1=", PhaseIdle},
		{"7+1C", PhaseIdle},
	}

	for _, tt := range tests {
		e := NewEngine()
		press(t, e, tt.keys)
		if got := e.State().Phase(); got != tt.want {
			t.Errorf("keys %q: Phase() = %v, want %v", tt.keys, got, tt.want)
		}
	}
}

func TestEngine_ClearRestoresDefaults(t *testing.T) {
	histories := []string{"", "123", "1.5+", "1.5+2", "8/0=", "9*9*9*", "3<<<."}

	for _, h := range histories {
		e := NewEngine()
		press(t, e, h)
		if got := e.Handle(Clear{}); got != DefaultDisplay {
			t.Errorf("history %q: Clear() display = %q", h, got)
		}
		if got := e.State(); got != (State{Display: DefaultDisplay}) {
			t.Errorf("history %q: state after Clear = %+v", h, got)
		}
	}
}

func TestEngine_BackspaceKeepsPendingOperation(t *testing.T) {
	e := NewEngine()
	press(t, e, "8*12")

	if got := e.Handle(Backspace{}); got != "1" {
		t.Fatalf("display = %q, want 1", got)
	}
	s := e.State()
	if s.FirstOperand != "8" || s.Operator != OpMul {
		t.Errorf("backspace changed pending operation: %+v", s)
	}
	if got := press(t, e, "="); got != "8" {
		t.Errorf("display = %q, want 8", got)
	}
}

func TestEngine_IgnoresInvalidInput(t *testing.T) {
	e := NewEngine()
	press(t, e, "12")

	e.Handle(Digit{D: 10})
	e.Handle(OperatorPressed{Op: OpNone})
	e.Handle(OperatorPressed{Op: Operator(42)})

	want := State{Display: "12"}
	if got := e.State(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
}

func TestEngine_DisplayInvariants(t *testing.T) {
	// Random-ish walk over every key; the display must never be empty and
	// never hold two decimal points.
	keys := "0123456789.+-*/=C<"
	e := NewEngine()
	seq := strings.Repeat(keys, 3) + "..1..2<<<<<<<<<<" + "7..+..=" + "3/0=..."
	for i, r := range seq {
		press(t, e, string(r))
		d := e.Display()
		if d == "" {
			t.Fatalf("step %d (%q): empty display", i, r)
		}
		if strings.Count(d, ".") > 1 {
			t.Fatalf("step %d (%q): display %q has more than one '.'", i, r, d)
		}
		s := e.State()
		if s.Operator.Valid() && !s.HasFirstOperand {
			t.Fatalf("step %d (%q): operator without first operand: %+v", i, r, s)
		}
	}
}

func TestEventForRune(t *testing.T) {
	tests := []struct {
		r    rune
		want Event
		ok   bool
	}{
		{'0', Digit{D: 0}, true},
		{'9', Digit{D: 9}, true},
		{'.', Decimal{}, true},
		{'+', OperatorPressed{Op: OpAdd}, true},
		{'-', OperatorPressed{Op: OpSub}, true},
		{'*', OperatorPressed{Op: OpMul}, true},
		{'/', OperatorPressed{Op: OpDiv}, true},
		{'=', Equals{}, true},
		{'x', nil, false},
		{'C', nil, false},
	}

	for _, tt := range tests {
		got, ok := EventForRune(tt.r)
		if ok != tt.ok || got != tt.want {
			t.Errorf("EventForRune(%q) = %v, %v; want %v, %v", tt.r, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEvent_String(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Digit{D: 7}, "7"},
		{Digit{D: 11}, "digit(?)"},
		{Decimal{}, "."},
		{OperatorPressed{Op: OpDiv}, "/"},
		{Equals{}, "="},
		{Clear{}, "clear"},
		{Backspace{}, "backspace"},
	}

	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

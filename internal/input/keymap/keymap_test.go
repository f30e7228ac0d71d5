package keymap

import (
	"errors"
	"testing"

	"github.com/dshills/minicalc/internal/calc"
	"github.com/dshills/minicalc/internal/input/key"
)

func TestDefault_Bindings(t *testing.T) {
	km := Default()

	tests := []struct {
		ev   key.Event
		want calc.Event
	}{
		{key.NewRuneEvent('0', key.ModNone), calc.Digit{D: 0}},
		{key.NewRuneEvent('9', key.ModNone), calc.Digit{D: 9}},
		{key.NewRuneEvent('.', key.ModNone), calc.Decimal{}},
		{key.NewRuneEvent('+', key.ModShift), calc.OperatorPressed{Op: calc.OpAdd}},
		{key.NewRuneEvent('-', key.ModNone), calc.OperatorPressed{Op: calc.OpSub}},
		{key.NewRuneEvent('*', key.ModShift), calc.OperatorPressed{Op: calc.OpMul}},
		{key.NewRuneEvent('/', key.ModNone), calc.OperatorPressed{Op: calc.OpDiv}},
		{key.NewSpecialEvent(key.KeyEnter, key.ModNone), calc.Equals{}},
		{key.NewRuneEvent('=', key.ModNone), calc.Equals{}},
		{key.NewSpecialEvent(key.KeyEscape, key.ModNone), calc.Clear{}},
		{key.NewSpecialEvent(key.KeyBackspace, key.ModNone), calc.Backspace{}},
	}

	for _, tt := range tests {
		a, ok := km.Lookup(tt.ev)
		if !ok {
			t.Errorf("Lookup(%v): not bound", tt.ev)
			continue
		}
		got, ok := a.CalcEvent()
		if !ok || got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}

	if a, ok := km.Lookup(key.NewRuneEvent('c', key.ModCtrl)); !ok || a != ActionQuit {
		t.Errorf("Ctrl+C = %v, %v; want quit", a, ok)
	}
	if _, ok := km.Lookup(key.NewRuneEvent('x', key.ModNone)); ok {
		t.Error("x should not be bound")
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"digit:0", DigitAction(0)},
		{"Digit:7", DigitAction(7)},
		{"decimal", ActionDecimal},
		{"operator:+", OperatorAction(calc.OpAdd)},
		{"operator:/", OperatorAction(calc.OpDiv)},
		{"equals", ActionEquals},
		{" clear ", ActionClear},
		{"backspace", ActionBackspace},
		{"quit", ActionQuit},
	}

	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		if err != nil {
			t.Errorf("ParseAction(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAction(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if again, err := ParseAction(got.String()); err != nil || again != got {
			t.Errorf("ParseAction(%q.String()) = %v, %v", tt.in, again, err)
		}
	}
}

func TestParseAction_Errors(t *testing.T) {
	for _, in := range []string{"", "digit", "digit:12", "digit:x", "operator:%", "operator", "equals:1", "explode"} {
		if _, err := ParseAction(in); !errors.Is(err, ErrUnknownAction) {
			t.Errorf("ParseAction(%q) error = %v, want ErrUnknownAction", in, err)
		}
	}
}

func TestAction_CalcEvent_Quit(t *testing.T) {
	if _, ok := ActionQuit.CalcEvent(); ok {
		t.Error("quit should not convert to an engine event")
	}
}

func TestFromConfig(t *testing.T) {
	km, err := FromConfig(map[string]string{
		"Delete": "clear",
		"x":      "operator:*",
		"q":      "digit:0",
	})
	if err != nil {
		t.Fatalf("FromConfig error: %v", err)
	}

	if a, _ := km.Lookup(key.NewSpecialEvent(key.KeyDelete, key.ModNone)); a != ActionClear {
		t.Errorf("Delete = %v, want clear", a)
	}
	if a, _ := km.Lookup(key.NewRuneEvent('x', key.ModNone)); a != OperatorAction(calc.OpMul) {
		t.Errorf("x = %v, want operator:*", a)
	}
	if a, _ := km.Lookup(key.NewRuneEvent('q', key.ModNone)); a != DigitAction(0) {
		t.Errorf("q = %v, want override digit:0", a)
	}
	// Defaults survive.
	if a, _ := km.Lookup(key.NewSpecialEvent(key.KeyEnter, key.ModNone)); a != ActionEquals {
		t.Errorf("Enter = %v, want equals", a)
	}
}

func TestFromConfig_Errors(t *testing.T) {
	_, err := FromConfig(map[string]string{
		"Hyper+x": "clear",
		"y":       "launch",
	})
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("error = %v, want ErrInvalidKey", err)
	}
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("error = %v, want ErrUnknownAction", err)
	}
}

func TestKeymap_ReplaceAndUnbind(t *testing.T) {
	km := Default()
	n := km.Len()

	other := New()
	other.Bind(key.NewRuneEvent('z', key.ModNone), ActionClear)
	km.Replace(other)

	if km.Len() != 1 {
		t.Fatalf("Len() = %d after Replace, want 1", km.Len())
	}
	km.Unbind(key.NewRuneEvent('z', key.ModNone))
	if km.Len() != 0 {
		t.Errorf("Len() = %d after Unbind, want 0", km.Len())
	}
	if n < 20 {
		t.Errorf("default keymap has %d bindings, want at least 20", n)
	}

	bs := Default().Bindings()
	for i := 1; i < len(bs); i++ {
		if bs[i-1].Key.String() > bs[i].Key.String() {
			t.Fatalf("Bindings() not sorted at %d", i)
		}
	}
}

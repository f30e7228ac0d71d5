package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/minicalc/internal/calc"
	"github.com/dshills/minicalc/internal/input/key"
	"github.com/dshills/minicalc/internal/input/keymap"
)

func TestRun_Press(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"addition", `press("12+3=")`, "15"},
		{"enter", `press("9*9<CR>")`, "81"},
		{"backspace", `press("123<BS>")`, "12"},
		{"escape", `press("5+5<Esc>")`, "0"},
		{"split presses", "press(\"7\")\npress(\"-\")\npress(\"10=\")", "-3"},
		{"unbound keys", `press("1a2 3")`, "123"},
		{"quit ignored", `press("4q2")`, "42"},
		{"clear", `press("99") clear() press("1")`, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := calc.NewEngine()
			if err := Run(context.Background(), e, tt.source); err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if e.Display() != tt.want {
				t.Errorf("Display() = %q, want %q", e.Display(), tt.want)
			}
		})
	}
}

func TestRun_Assertions(t *testing.T) {
	src := `
assert(display() == "0")
assert(press("6/4=") == "1.5")
press("+")
local s = state()
assert(s.display == "1.5", s.display)
assert(s.first_operand == "1.5")
assert(s.operator == "+")
assert(s.waiting == true)
assert(s.phase == "operator_pending")
clear()
s = state()
assert(s.first_operand == nil and s.operator == nil)
assert(s.phase == "idle")
`
	if err := Run(context.Background(), calc.NewEngine(), src); err != nil {
		t.Fatalf("Run error: %v", err)
	}
}

func TestRunner_StepFunc(t *testing.T) {
	var inputs, displays []string
	r := New(calc.NewEngine(), WithStepFunc(func(input string, st calc.State) error {
		inputs = append(inputs, input)
		displays = append(displays, st.Display)
		return nil
	}))
	defer r.Close()

	if err := r.Run(context.Background(), "steps", `press("2*3<CR>") clear()`); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if got := strings.Join(inputs, " "); got != "2 * 3 Enter clear" {
		t.Errorf("inputs = %q", got)
	}
	if got := strings.Join(displays, " "); got != "2 2 3 6 0" {
		t.Errorf("displays = %q", got)
	}
}

func TestRunner_StepFuncError(t *testing.T) {
	stop := errors.New("stop here")
	n := 0
	r := New(calc.NewEngine(), WithStepFunc(func(string, calc.State) error {
		n++
		if n == 2 {
			return stop
		}
		return nil
	}))
	defer r.Close()

	err := r.Run(context.Background(), "steps", `press("123")`)
	if err == nil || !strings.Contains(err.Error(), "stop here") {
		t.Errorf("Run error = %v, want step error", err)
	}
	if n != 2 {
		t.Errorf("step func ran %d times, want 2", n)
	}
}

func TestRunner_Keymap(t *testing.T) {
	km := keymap.Default()
	if err := km.BindSpec("x", "operator:*"); err != nil {
		t.Fatalf("BindSpec error: %v", err)
	}

	e := calc.NewEngine()
	r := New(e, WithKeymap(km))
	defer r.Close()

	if err := r.Run(context.Background(), "km", `press("7x6=")`); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if e.Display() != "42" {
		t.Errorf("Display() = %q, want 42", e.Display())
	}
}

func TestRunner_Print(t *testing.T) {
	var buf bytes.Buffer
	r := New(calc.NewEngine(), WithOutput(&buf))
	defer r.Close()

	if err := r.Run(context.Background(), "print", `print("result", press("1+1="), true)`); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if buf.String() != "result\t2\ttrue\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunner_Sandbox(t *testing.T) {
	src := `
assert(dofile == nil)
assert(loadfile == nil)
assert(load == nil)
assert(loadstring == nil)
assert(require == nil)
assert(io == nil)
assert(os == nil)
assert(string.upper("a") == "A")
assert(math.floor(2.5) == 2)
assert(table.concat({"a", "b"}) == "ab")
`
	if err := Run(context.Background(), calc.NewEngine(), src); err != nil {
		t.Fatalf("Run error: %v", err)
	}
}

func TestRunner_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		line     int
		contains string
	}{
		{"runtime", "press(\"1\")\n\nerror(\"boom\")", 3, "boom"},
		{"assertion", "\nassert(display() == \"9\", \"wrong display\")", 2, "wrong display"},
		{"syntax", "press(\"1\")\nx = = 1", 2, ""},
		{"bad key", "\n\npress(\"<Bogus>\")", 3, "bad argument"},
		{"bad argument type", "press()", 1, "bad argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(calc.NewEngine())
			defer r.Close()

			err := r.Run(context.Background(), "test.lua", tt.source)
			var serr *Error
			if !errors.As(err, &serr) {
				t.Fatalf("Run error = %v (%T), want *Error", err, err)
			}
			if serr.Chunk != "test.lua" {
				t.Errorf("Chunk = %q", serr.Chunk)
			}
			if serr.Line != tt.line {
				t.Errorf("Line = %d, want %d (%v)", serr.Line, tt.line, err)
			}
			if !strings.Contains(serr.Message, tt.contains) {
				t.Errorf("Message = %q, want it to contain %q", serr.Message, tt.contains)
			}
		})
	}
}

func TestError_Format(t *testing.T) {
	e := &Error{Chunk: "a.lua", Line: 4, Message: "boom"}
	if e.Error() != "a.lua:4: boom" {
		t.Errorf("Error() = %q", e.Error())
	}
	e.Line = 0
	if e.Error() != "a.lua: boom" {
		t.Errorf("Error() = %q", e.Error())
	}
}

func TestRunner_Timeout(t *testing.T) {
	r := New(calc.NewEngine(), WithTimeout(50*time.Millisecond))
	defer r.Close()

	err := r.Run(context.Background(), "loop", `while true do end`)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run error = %v, want DeadlineExceeded", err)
	}

	// The state stays usable after a timeout.
	if err := r.Run(context.Background(), "again", `press("1")`); err != nil {
		t.Errorf("Run after timeout error: %v", err)
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(calc.NewEngine())
	defer r.Close()

	if err := r.Run(ctx, "loop", `while true do end`); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want Canceled", err)
	}
}

func TestRunner_RunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.lua")
	if err := os.WriteFile(path, []byte(`press("8-3=")`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e := calc.NewEngine()
	r := New(e)
	defer r.Close()

	if err := r.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile error: %v", err)
	}
	if e.Display() != "5" {
		t.Errorf("Display() = %q, want 5", e.Display())
	}

	if err := r.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("RunFile(missing) error = %v", err)
	}
}

func TestRunner_Closed(t *testing.T) {
	r := New(calc.NewEngine())
	r.Close()
	r.Close()

	if err := r.Run(context.Background(), "x", `press("1")`); !errors.Is(err, ErrClosed) {
		t.Errorf("Run after Close error = %v, want ErrClosed", err)
	}
}

func TestParseSequenceMatchesKeymap(t *testing.T) {
	events, err := key.ParseSequence("<CR>")
	if err != nil || len(events) != 1 {
		t.Fatalf("ParseSequence error: %v", err)
	}
	if a, ok := keymap.Default().Lookup(events[0]); !ok || a != keymap.ActionEquals {
		t.Errorf("<CR> maps to %v, want equals", a)
	}
}

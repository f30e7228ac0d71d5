package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/minicalc/internal/calc"
	"github.com/dshills/minicalc/internal/input/key"
	"github.com/dshills/minicalc/internal/input/keymap"
)

// DefaultTimeout bounds one Run call.
const DefaultTimeout = 5 * time.Second

// StepFunc observes every key a script presses, after the engine handled
// it. Returning an error aborts the script.
type StepFunc func(input string, st calc.State) error

// Runner executes Lua scripts against one engine.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes Run
// calls from different goroutines.
type Runner struct {
	mu sync.Mutex
	L  *lua.LState

	engine  *calc.Engine
	keymap  *keymap.Keymap
	step    StepFunc
	out     io.Writer
	timeout time.Duration

	closed bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithKeymap sets the keymap used by press. The default is keymap.Default.
func WithKeymap(km *keymap.Keymap) Option {
	return func(r *Runner) {
		r.keymap = km
	}
}

// WithStepFunc sets a callback run after every pressed key.
func WithStepFunc(fn StepFunc) Option {
	return func(r *Runner) {
		r.step = fn
	}
}

// WithOutput sets where print writes. The default discards output.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithTimeout bounds each Run call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// New creates a Runner driving engine.
func New(engine *calc.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:  engine,
		out:     io.Discard,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.keymap == nil {
		r.keymap = keymap.Default()
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.install()
	return r
}

// openSafeLibraries opens only Lua libraries without file or process access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// install registers the calculator API.
func (r *Runner) install() {
	r.L.SetGlobal("press", r.L.NewFunction(r.luaPress))
	r.L.SetGlobal("display", r.L.NewFunction(r.luaDisplay))
	r.L.SetGlobal("clear", r.L.NewFunction(r.luaClear))
	r.L.SetGlobal("state", r.L.NewFunction(r.luaState))
	r.L.SetGlobal("print", r.L.NewFunction(r.luaPrint))
}

// Run executes source. name identifies the chunk in error positions.
func (r *Runner) Run(ctx context.Context, name, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	fn, err := r.L.Load(strings.NewReader(source), name)
	if err != nil {
		return newError(name, err)
	}

	err = r.doWithRecovery(func() error {
		r.L.Push(fn)
		return r.L.PCall(0, 0, nil)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("script %s: %w", name, ctxErr)
		}
		return newError(name, err)
	}
	return nil
}

// RunFile executes the Lua file at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.Run(ctx, path, string(src))
}

// doWithRecovery executes a function with panic recovery.
func (r *Runner) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// Close releases the Lua state. It is safe to call more than once.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.L.Close()
	r.closed = true
}

// Run executes source once against engine with the default keymap.
func Run(ctx context.Context, engine *calc.Engine, source string) error {
	r := New(engine)
	defer r.Close()
	return r.Run(ctx, "script", source)
}

// press(keys) types a key sequence and returns the display.
func (r *Runner) luaPress(L *lua.LState) int {
	seq := L.CheckString(1)
	events, err := key.ParseSequence(seq)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}

	for _, ev := range events {
		if action, ok := r.keymap.Lookup(ev); ok {
			if calcEv, ok := action.CalcEvent(); ok {
				r.engine.Handle(calcEv)
			}
		}
		if err := r.notify(ev.String()); err != nil {
			L.RaiseError("%v", err)
			return 0
		}
	}

	L.Push(lua.LString(r.engine.Display()))
	return 1
}

// display() returns the display text.
func (r *Runner) luaDisplay(L *lua.LState) int {
	L.Push(lua.LString(r.engine.Display()))
	return 1
}

// clear() resets the calculator.
func (r *Runner) luaClear(L *lua.LState) int {
	r.engine.Handle(calc.Clear{})
	if err := r.notify(calc.Clear{}.String()); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// state() returns a table snapshot of the engine.
func (r *Runner) luaState(L *lua.LState) int {
	st := r.engine.State()

	tbl := L.NewTable()
	tbl.RawSetString("display", lua.LString(st.Display))
	if st.HasFirstOperand {
		tbl.RawSetString("first_operand", lua.LString(st.FirstOperand))
	}
	if st.Operator.Valid() {
		tbl.RawSetString("operator", lua.LString(st.Operator.String()))
	}
	tbl.RawSetString("waiting", lua.LBool(st.WaitingForSecondOperand))
	tbl.RawSetString("phase", lua.LString(st.Phase().String()))

	L.Push(tbl)
	return 1
}

// print writes its arguments tab-separated to the runner output.
func (r *Runner) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	_, _ = fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}

func (r *Runner) notify(input string) error {
	if r.step == nil {
		return nil
	}
	return r.step(input, r.engine.State())
}

package app

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dshills/minicalc/internal/calc"
	"github.com/dshills/minicalc/internal/config"
	"github.com/dshills/minicalc/internal/event"
	"github.com/dshills/minicalc/internal/input/key"
	"github.com/dshills/minicalc/internal/input/keymap"
	"github.com/dshills/minicalc/internal/renderer/backend"
	"github.com/dshills/minicalc/internal/ui"
)

// Interrupt payloads posted to the backend from other goroutines.
type (
	redrawRequest struct{}
	reloadRequest struct{}
)

// Computation is the payload of event.TopicEquals.
type Computation struct {
	First    string
	Operator calc.Operator
	Second   string
	Result   string
}

// String returns the computation as "first op second = result".
func (c Computation) String() string {
	return fmt.Sprintf("%s %s %s = %s", c.First, c.Operator, c.Second, c.Result)
}

// Run mounts the widget on the backend and processes input until quit,
// Shutdown, or the backend closes. The backend is shut down on every exit
// path.
func (app *Application) Run() (err error) {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	b := app.Backend()
	if b == nil {
		return ErrNoBackend
	}

	events, release, err := app.mount(b)
	if err != nil {
		return err
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			err = NewRecoveredPanicError(r, string(debug.Stack()))
			app.logger.Error("event loop panic: %v", r)
		}
	}()

	return app.eventLoop(events)
}

// mount acquires the input listener: it initializes the backend, starts
// polling and announces the widget. The returned release undoes all of it
// and waits for the polling goroutine to exit.
func (app *Application) mount(b backend.Backend) (<-chan backend.Event, func(), error) {
	if err := b.Init(); err != nil {
		return nil, nil, &InitError{Component: "backend", Err: err}
	}
	b.HideCursor()

	app.mounted = true
	app.mouse = app.config.UI().Mouse
	if app.mouse {
		b.EnableMouse()
	}
	app.widget.Resize(b.Size())

	stop := make(chan struct{})
	var wg sync.WaitGroup
	events := app.startInputPolling(b, stop, &wg)

	app.publish(event.TopicWidgetMounted, app.session)
	app.logger.Debug("widget mounted")
	app.redraw()

	release := func() {
		if app.flashTimer != nil {
			app.flashTimer.Stop()
			app.flashTimer = nil
		}
		app.publish(event.TopicWidgetUnmounted, app.session)
		app.mounted = false

		close(stop)
		if app.mouse {
			b.DisableMouse()
		}
		b.Shutdown()
		wg.Wait()
		app.logger.Debug("widget unmounted")
	}
	return events, release, nil
}

// startInputPolling reads backend events on a goroutine. The goroutine
// exits when the backend reports EventClosed or stop is closed.
func (app *Application) startInputPolling(b backend.Backend, stop <-chan struct{}, wg *sync.WaitGroup) <-chan backend.Event {
	events := make(chan backend.Event, 64)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(events)

		for {
			// PollEvent is blocking. Shutdown in release unblocks it.
			ev := b.PollEvent()
			if ev.Type == backend.EventClosed {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	return events
}

// eventLoop is the main application loop.
func (app *Application) eventLoop(events <-chan backend.Event) error {
	for {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleBackendEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					app.logger.Info("quit requested")
					return nil
				}
				return err
			}
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.widget.Resize(ev.Width, ev.Height)
		app.redraw()

	case backend.EventKey:
		if err := app.HandleKey(convertToKeyEvent(ev)); err != nil {
			return err
		}
		app.redraw()

	case backend.EventMouse:
		app.handleMouseEvent(ev)

	case backend.EventInterrupt:
		if _, ok := ev.Data.(reloadRequest); ok {
			app.applyConfig()
			app.publish(event.TopicConfigReloaded, app.config.Path())
		}
		app.redraw()
	}
	return nil
}

// handleMouseEvent activates a button on the transition to a pressed
// primary button, so holding it down does not repeat.
func (app *Application) handleMouseEvent(ev backend.Event) {
	pressed := ev.MouseButton == backend.MouseLeft && app.lastButton != backend.MouseLeft
	app.lastButton = ev.MouseButton
	if !pressed || !app.mouse {
		return
	}
	if app.HandleClick(ev.MouseX, ev.MouseY) {
		app.redraw()
	}
}

// HandleKey translates a key press through the keymap into an engine
// event. Unbound keys are ignored. A quit binding returns ErrQuit.
func (app *Application) HandleKey(ev key.Event) error {
	app.metrics.RecordKey()

	action, ok := app.keymap.Lookup(ev)
	if !ok {
		app.metrics.RecordIgnored()
		app.logger.Debug("unbound key %s", ev)
		return nil
	}
	if action.Kind == keymap.KindQuit {
		return ErrQuit
	}

	app.apply(action, ev.String())
	return nil
}

// HandleClick activates the button at screen position (x, y). It reports
// whether a button was hit.
func (app *Application) HandleClick(x, y int) bool {
	btn, ok := app.widget.ButtonAt(x, y)
	if !ok {
		return false
	}
	app.metrics.RecordClick()
	app.apply(btn.Action, btn.Label)
	return true
}

// apply feeds action to the engine, flashes its button and publishes the
// outcome.
func (app *Application) apply(action keymap.Action, source string) {
	calcEv, ok := action.CalcEvent()
	if !ok {
		app.metrics.RecordIgnored()
		return
	}

	before := app.engine.State()
	display := app.engine.Handle(calcEv)

	computed := before.Phase() == calc.PhaseEnteringSecondOperand &&
		(action.Kind == keymap.KindEquals || action.Kind == keymap.KindOperator)
	app.metrics.RecordAction(computed)

	app.logger.Debug("%s -> %s (display %q)", source, action, display)

	if app.widget.Flash(action) {
		app.scheduleFlashEnd()
	}

	if display != before.Display {
		app.publish(event.TopicDisplayChanged, display)
	}
	if computed && action.Kind == keymap.KindEquals {
		app.publish(event.TopicEquals, Computation{
			First:    before.FirstOperand,
			Operator: before.Operator,
			Second:   before.Display,
			Result:   display,
		})
	}
}

// scheduleFlashEnd redraws once the button highlight has expired.
func (app *Application) scheduleFlashEnd() {
	if !app.mounted {
		return
	}
	if app.flashTimer != nil {
		app.flashTimer.Stop()
	}
	b := app.Backend()
	app.flashTimer = time.AfterFunc(ui.FlashDuration, func() {
		if app.running.Load() {
			b.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: redrawRequest{}})
		}
	})
}

// redraw draws the widget when it is mounted.
func (app *Application) redraw() {
	if !app.mounted {
		return
	}
	timer := StartTimer()
	app.widget.Draw(app.Backend(), app.engine.Display())
	app.metrics.RecordDraw(timer.Elapsed())
}

// onConfigReload runs on the config watcher goroutine. The keymap is safe
// to swap here; widget settings are handed to the event loop.
func (app *Application) onConfigReload(c *config.Config, err error) {
	app.metrics.RecordReload(err)
	if err != nil {
		app.publish(event.TopicConfigError, err)
		return
	}

	km, kerr := keymap.FromConfig(c.Keymap())
	if kerr != nil {
		app.logComponentError("keymap", kerr)
	}
	app.keymap.Replace(km)

	if b := app.Backend(); b != nil && app.running.Load() {
		b.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: reloadRequest{}})
	}
}

// publish sends payload on the bus. Handler failures are logged and never
// interrupt input handling.
func (app *Application) publish(t event.Topic, payload any) {
	if err := app.bus.Publish(t, payload); err != nil {
		app.logComponentError("bus", err)
	}
}

// convertToKeyEvent converts a backend.Event to a key.Event.
func convertToKeyEvent(ev backend.Event) key.Event {
	mods := key.ModNone
	if ev.Mod.Has(backend.ModCtrl) {
		mods = mods.With(key.ModCtrl)
	}
	if ev.Mod.Has(backend.ModAlt) {
		mods = mods.With(key.ModAlt)
	}
	if ev.Mod.Has(backend.ModShift) {
		mods = mods.With(key.ModShift)
	}
	if ev.Mod.Has(backend.ModMeta) {
		mods = mods.With(key.ModMeta)
	}

	if ev.Key == backend.KeyRune {
		return key.NewRuneEvent(ev.Rune, mods)
	}
	return key.NewSpecialEvent(mapBackendKey(ev.Key), mods)
}

// mapBackendKey maps a backend.Key to a key.Key.
func mapBackendKey(bk backend.Key) key.Key {
	switch bk {
	case backend.KeyEscape:
		return key.KeyEscape
	case backend.KeyEnter:
		return key.KeyEnter
	case backend.KeyTab:
		return key.KeyTab
	case backend.KeyBackspace:
		return key.KeyBackspace
	case backend.KeyDelete:
		return key.KeyDelete
	case backend.KeyInsert:
		return key.KeyInsert
	case backend.KeyHome:
		return key.KeyHome
	case backend.KeyEnd:
		return key.KeyEnd
	case backend.KeyUp:
		return key.KeyUp
	case backend.KeyDown:
		return key.KeyDown
	case backend.KeyLeft:
		return key.KeyLeft
	case backend.KeyRight:
		return key.KeyRight
	default:
		return key.KeyNone
	}
}

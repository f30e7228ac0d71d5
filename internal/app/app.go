package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/minicalc/internal/calc"
	"github.com/dshills/minicalc/internal/config"
	"github.com/dshills/minicalc/internal/event"
	"github.com/dshills/minicalc/internal/input/keymap"
	"github.com/dshills/minicalc/internal/renderer/backend"
	"github.com/dshills/minicalc/internal/ui"
)

// Application is the calculator runtime. It owns the engine and routes
// keyboard and pointer input from a backend into it.
type Application struct {
	mu sync.RWMutex

	bus       *event.Bus
	config    *config.Config
	configErr error
	subs      *subscriptionManager

	engine  *calc.Engine
	keymap  *keymap.Keymap
	widget  *ui.Widget
	backend backend.Backend

	// Touched only by the event loop goroutine.
	mounted    bool
	mouse      bool
	lastButton backend.MouseButton
	flashTimer *time.Timer

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once

	session string
	logger  *Logger
	metrics *Metrics

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses config.DefaultPath.
	ConfigPath string

	// LogLevel overrides logging.level from the configuration when set.
	LogLevel string

	// Logger receives application logs. Nil uses GetLogger.
	Logger *Logger

	// Watch reloads the configuration file when it changes on disk.
	Watch bool

	// Environ replaces os.Environ for the environment layer.
	Environ []string
}

// New creates the application and loads its configuration. A configuration
// that fails to load or validate is not fatal: defaults stay in effect and
// the error is available from ConfigError.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		done:    make(chan struct{}),
		session: uuid.NewString(),
		metrics: NewMetrics(),
	}

	if err := app.bootstrap(); err != nil {
		return nil, err
	}

	return app, nil
}

// bootstrap builds the components in dependency order.
func (app *Application) bootstrap() error {
	base := app.opts.Logger
	if base == nil {
		base = GetLogger()
	}
	app.logger = base.WithField("session", app.session)

	app.bus = event.NewBus()

	configOpts := []config.Option{
		config.WithFile(app.opts.ConfigPath),
		config.WithWatcher(app.opts.Watch),
	}
	if app.opts.Environ != nil {
		configOpts = append(configOpts, config.WithEnviron(app.opts.Environ))
	}
	app.config = config.New(configOpts...)
	if err := app.config.Load(context.Background()); err != nil {
		app.configErr = err
		app.logComponentError("config", err)
	}

	level := app.config.Logging().Level
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}
	app.logger.SetLevel(ParseLogLevel(level))

	km, err := keymap.FromConfig(app.config.Keymap())
	if err != nil {
		// Validation already reported these; the valid bindings still apply.
		app.logComponentError("keymap", err)
	}
	app.keymap = km

	app.engine = calc.NewEngine()
	app.widget = ui.New()
	app.applyConfig()

	app.config.OnReload(app.onConfigReload)

	app.subs = newSubscriptionManager(app)
	if err := app.subs.setup(); err != nil {
		return &InitError{Component: "event bus", Err: err}
	}

	app.logger.Info("application created (config %s)", app.config.Path())
	return nil
}

// applyConfig copies theme and ui settings into the widget. Called from
// the goroutine that drives the widget.
func (app *Application) applyConfig() {
	app.widget.SetTheme(themeFromConfig(app.config.Theme()))

	uiCfg := app.config.UI()
	app.widget.SetShowHints(uiCfg.ShowHints)

	if app.mounted && uiCfg.Mouse != app.mouse {
		if uiCfg.Mouse {
			app.backend.EnableMouse()
		} else {
			app.backend.DisableMouse()
		}
	}
	app.mouse = uiCfg.Mouse
}

func themeFromConfig(tc config.ThemeConfig) ui.Theme {
	return ui.Theme{
		DisplayFG:   tc.DisplayFG,
		DisplayBG:   tc.DisplayBG,
		DigitBG:     tc.DigitBG,
		OperatorFG:  tc.OperatorFG,
		EqualsBG:    tc.EqualsBG,
		ClearFG:     tc.ClearFG,
		BackspaceFG: tc.BackspaceFG,
	}
}

// SetBackend sets the terminal backend. Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.backend = b
}

// Backend returns the terminal backend.
func (app *Application) Backend() backend.Backend {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.backend
}

// Shutdown stops a running event loop. Run returns nil afterwards.
func (app *Application) Shutdown() error {
	if !app.running.Load() {
		return ErrNotRunning
	}
	app.doneOnce.Do(func() { close(app.done) })
	return nil
}

// Close releases the configuration watcher and bus subscriptions.
func (app *Application) Close() {
	app.subs.cleanup()
	app.config.Close()
}

// IsRunning reports whether the event loop is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Engine returns the calculator engine.
func (app *Application) Engine() *calc.Engine {
	return app.engine
}

// Display returns the current calculator display.
func (app *Application) Display() string {
	return app.engine.Display()
}

// Keymap returns the active keymap.
func (app *Application) Keymap() *keymap.Keymap {
	return app.keymap
}

// Widget returns the terminal widget.
func (app *Application) Widget() *ui.Widget {
	return app.widget
}

// Bus returns the application event bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Config returns the configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// ConfigError returns the error from the initial configuration load, if any.
func (app *Application) ConfigError() error {
	return app.configErr
}

// Session returns the unique identifier of this application instance.
func (app *Application) Session() string {
	return app.session
}

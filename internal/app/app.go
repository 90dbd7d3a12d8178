// Package app wires the calltip components to a host editor and manages
// their lifecycle.
package app

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dshills/calltip/internal/catalog"
	"github.com/dshills/calltip/internal/colors"
	"github.com/dshills/calltip/internal/config"
	"github.com/dshills/calltip/internal/configure"
	"github.com/dshills/calltip/internal/dispatcher"
	"github.com/dshills/calltip/internal/host"
)

// Application connects a host to the calltip dispatcher.
type Application struct {
	mu sync.Mutex

	cfg    *config.Config
	logger *Logger
	host   host.Host

	catalog      *catalog.Catalog
	store        *colors.FileStore
	configurator *configure.Lua
	dispatcher   *dispatcher.Dispatcher
	watcher      *colors.Watcher

	cancelReady func()
	running     atomic.Bool
	active      atomic.Bool
}

// Options configures the application.
type Options struct {
	// Config holds the settings. Nil means config.Default().
	Config *config.Config

	// Logger receives all component logs. Nil means a stderr logger at
	// the configured level.
	Logger *Logger
}

// New loads the catalog and colour store and builds the dispatcher for h.
// A catalog that cannot be loaded is fatal.
func New(h host.Host, opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	logger := opts.Logger
	if logger == nil {
		lc := DefaultLoggerConfig()
		lc.Level = ParseLogLevel(cfg.LogLevel)
		logger = NewLogger(lc)
	}

	app := &Application{
		cfg:    cfg,
		logger: logger,
		host:   h,
	}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Start waits for the host to report the configured language, then begins
// handling editor notifications. With WatchColors set, colour file changes
// redraw the active tip. Dispatcher metrics restart from zero.
func (app *Application) Start() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	app.dispatcher.Metrics().Reset()

	if app.cfg.WatchColors {
		app.startWatcher()
	}

	if app.cfg.Language != "" {
		app.logger.Info("waiting for language %q", app.cfg.Language)
	}
	cancel, err := host.OnLanguage(app.host, app.cfg.Language, app.activate)
	if err != nil {
		app.running.Store(false)
		app.stopWatcher()
		return &InitError{Component: "host", Err: err}
	}

	app.mu.Lock()
	app.cancelReady = cancel
	app.mu.Unlock()
	return nil
}

func (app *Application) activate() {
	if err := app.dispatcher.Start(); err != nil {
		app.logComponentError("dispatcher", "subscribe", err)
		return
	}
	app.active.Store(true)
	app.logger.Info("calltips active: %d keywords for %s", app.catalog.Len(), app.catalog.Language())
}

func (app *Application) startWatcher() {
	path := app.store.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		app.logComponentError("watcher", "create directory", err)
		return
	}

	w, err := colors.Watch(path, func() {
		app.host.Post(app.dispatcher.Refresh)
	}, colors.WithWatchLogger(app.logger.WithComponent("watcher")))
	if err != nil {
		app.logComponentError("watcher", "start", err)
		return
	}

	app.mu.Lock()
	app.watcher = w
	app.mu.Unlock()
}

func (app *Application) stopWatcher() error {
	app.mu.Lock()
	w := app.watcher
	app.watcher = nil
	app.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}

// Shutdown stops handling notifications, releases the watcher and logs the
// dispatcher metrics for the run.
func (app *Application) Shutdown() error {
	if !app.running.CompareAndSwap(true, false) {
		return ErrNotRunning
	}

	app.mu.Lock()
	cancel := app.cancelReady
	app.cancelReady = nil
	app.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	app.dispatcher.Stop()
	app.active.Store(false)

	var errs ErrorList
	errs.Add(app.stopWatcher())
	app.logMetrics()
	app.logger.Debug("shutdown complete")
	return errs.AsError()
}

func (app *Application) logMetrics() {
	m := app.dispatcher.Metrics()
	s := m.Snapshot()
	app.logger.Info("handled %d notifications, %d errors, average %s", s.Total, s.Errors, s.AverageDuration)

	logger := app.logger.WithComponent("dispatcher")
	for _, km := range m.Kinds() {
		logger.Debug("%s: %d handled, max %s, outcomes %v", km.Kind, km.Count, km.MaxDuration, km.Outcomes)
	}
}

// IsRunning reports whether Start has been called without Shutdown.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// IsActive reports whether the language gate has opened.
func (app *Application) IsActive() bool {
	return app.active.Load()
}

// Config returns the settings in use.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Catalog returns the loaded keyword catalog.
func (app *Application) Catalog() *catalog.Catalog {
	return app.catalog
}

// Store returns the colour store.
func (app *Application) Store() *colors.FileStore {
	return app.store
}

// Dispatcher returns the calltip dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

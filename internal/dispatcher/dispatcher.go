// Package dispatcher turns editor notifications into calltip commands.
//
// A Dispatcher is either Idle (no calltip) or Active (a calltip bound to a
// keyword and overload index is showing). Typing a space after a catalog
// keyword activates it; clicking the tip's arrows cycles through overloads;
// a space after an unknown word cancels the tip.
//
// All methods must be called from the host's event goroutine. The
// dispatcher owns its Session and never shares it.
package dispatcher

import (
	"strings"
	"time"

	"github.com/dshills/calltip/internal/calltip"
	"github.com/dshills/calltip/internal/catalog"
	"github.com/dshills/calltip/internal/colors"
	"github.com/dshills/calltip/internal/event"
	"github.com/dshills/calltip/internal/host"
	"github.com/dshills/calltip/internal/overload"
)

// DefaultTrigger is the word that opens colour configuration instead of a
// calltip.
const DefaultTrigger = "calltip_color_settings"

// State is the dispatcher state.
type State int

const (
	// StateIdle means no calltip is showing.
	StateIdle State = iota
	// StateActive means a calltip is showing.
	StateActive
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Configurator changes the display colours, typically by asking the user.
// It may block; it is only invoked from an explicit user request.
type Configurator interface {
	Configure() (changed bool, err error)
}

// ConfiguratorFunc adapts a function to Configurator.
type ConfiguratorFunc func() (bool, error)

// Configure implements Configurator.
func (f ConfiguratorFunc) Configure() (bool, error) {
	return f()
}

// Logger is the subset of the application logger used by the dispatcher.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Dispatcher drives calltips for one host.
type Dispatcher struct {
	host         host.Host
	catalog      *catalog.Catalog
	formatter    *calltip.Formatter
	colors       colors.Provider
	configurator Configurator
	trigger      string
	logger       Logger

	session Session
	subs    []*event.Subscription
	metrics *Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFormatter sets the calltip formatter.
func WithFormatter(f *calltip.Formatter) Option {
	return func(d *Dispatcher) {
		if f != nil {
			d.formatter = f
		}
	}
}

// WithColors sets the colour provider read at display time.
func WithColors(p colors.Provider) Option {
	return func(d *Dispatcher) {
		if p != nil {
			d.colors = p
		}
	}
}

// WithConfigurator sets the collaborator invoked by the trigger word.
func WithConfigurator(c Configurator) Option {
	return func(d *Dispatcher) {
		d.configurator = c
	}
}

// WithTrigger sets the trigger word. An empty word disables the trigger.
func WithTrigger(word string) Option {
	return func(d *Dispatcher) {
		d.trigger = strings.ToLower(word)
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a dispatcher for h backed by cat.
func New(h host.Host, cat *catalog.Catalog, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		host:      h,
		catalog:   cat,
		formatter: calltip.NewFormatter(),
		colors:    colors.Static(colors.Defaults()),
		trigger:   DefaultTrigger,
		logger:    nopLogger{},
		metrics:   NewMetrics(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start subscribes to the host's notifications.
func (d *Dispatcher) Start() error {
	if len(d.subs) > 0 {
		return nil
	}

	handlers := []struct {
		topic event.Topic
		fn    event.HandlerFunc
	}{
		{host.TopicCharAdded, d.onCharAdded},
		{host.TopicCalltipClick, d.onCalltipClick},
		{host.TopicColorsChanged, d.onColorsChanged},
	}
	for _, h := range handlers {
		sub, err := d.host.Subscribe(h.topic, h.fn)
		if err != nil {
			d.Stop()
			return err
		}
		d.subs = append(d.subs, sub)
	}
	return nil
}

// Stop cancels the subscriptions made by Start.
func (d *Dispatcher) Stop() {
	for _, sub := range d.subs {
		sub.Cancel()
	}
	d.subs = nil
}

// State returns the current state.
func (d *Dispatcher) State() State {
	if d.session.Cursor.Active() {
		return StateActive
	}
	return StateIdle
}

// Session returns a copy of the current session.
func (d *Dispatcher) Session() Session {
	return d.session
}

// Metrics returns the dispatcher's counters.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

func (d *Dispatcher) onCharAdded(ev event.Event) error {
	ca, ok := ev.Payload.(host.CharAdded)
	if !ok {
		return nil
	}
	pos := ca.Pos
	if pos <= 0 {
		pos = d.host.CaretPos()
	}
	d.HandleChar(ca.Char, pos)
	return nil
}

func (d *Dispatcher) onCalltipClick(ev event.Event) error {
	click, ok := ev.Payload.(host.CalltipClick)
	if !ok {
		return nil
	}
	d.HandleClick(click.Region)
	return nil
}

func (d *Dispatcher) onColorsChanged(event.Event) error {
	d.Refresh()
	return nil
}

// HandleChar processes a character inserted just before caret.
func (d *Dispatcher) HandleChar(ch rune, caret int) {
	start := time.Now()
	pos := caret - 1
	if pos < 0 {
		pos = 0
	}

	var outcome string
	if ch == ' ' {
		outcome = d.handleSpace(pos)
	} else {
		outcome = d.handleOther(pos)
	}
	d.metrics.Record("char", outcome, time.Since(start))
}

func (d *Dispatcher) handleSpace(pos int) string {
	word := strings.ToLower(d.host.WordAt(pos))

	if d.trigger != "" && word == d.trigger {
		return d.configureColors()
	}

	kw, ok := d.catalog.Lookup(word)
	if !ok {
		return d.cancel()
	}

	d.session.activate(kw, pos)
	d.logger.Debug("session %s: %s (%d overloads)", d.session.ID, kw.Name, d.session.Cursor.Count())
	return d.show()
}

// handleOther re-evaluates the word before the caret while a tip is up:
// the same keyword keeps the tip, a word that is not a keyword cancels it
// unless the user has been cycling overloads.
func (d *Dispatcher) handleOther(pos int) string {
	if d.State() != StateActive {
		return OutcomeIgnore
	}

	word := d.host.WordAt(pos)
	if word == "" {
		return OutcomeIgnore
	}

	kw, ok := d.catalog.Lookup(word)
	switch {
	case ok && kw == d.session.Cursor.Keyword():
		return d.show()
	case !ok && !d.session.Cycled:
		return d.cancel()
	}
	return OutcomeIgnore
}

// HandleClick processes a click on region of the visible tip.
func (d *Dispatcher) HandleClick(region overload.Region) {
	start := time.Now()
	if d.State() != StateActive {
		d.logger.Debug("click on %s ignored: no active calltip", region)
		d.metrics.Record("click", OutcomeIgnore, time.Since(start))
		return
	}

	d.session.Cursor.Step(region)
	if region == overload.RegionPrev || region == overload.RegionNext {
		d.session.Cycled = true
	}
	d.metrics.Record("click", d.show(), time.Since(start))
}

// Refresh redraws an active tip, picking up new colours.
func (d *Dispatcher) Refresh() {
	start := time.Now()
	outcome := OutcomeIgnore
	if d.State() == StateActive {
		outcome = d.show()
	}
	d.metrics.Record("colors", outcome, time.Since(start))
}

// Render returns the text of the active calltip, or "" when idle.
func (d *Dispatcher) Render() string {
	ov, err := d.session.Cursor.Current()
	if err != nil {
		return ""
	}
	return d.formatter.Render(d.session.Name, ov, d.session.Cursor.Index(), d.session.Cursor.Count())
}

func (d *Dispatcher) show() string {
	text := d.Render()
	if text == "" {
		return d.cancel()
	}
	d.host.ShowCalltip(d.session.Anchor, text, d.colors.Colors())
	return OutcomeShow
}

func (d *Dispatcher) cancel() string {
	d.session.Cursor.Clear()
	d.host.CancelCalltip()
	return OutcomeCancel
}

func (d *Dispatcher) configureColors() string {
	if d.configurator == nil {
		d.logger.Warn("color configuration requested but no configurator is set")
		return OutcomeError
	}

	changed, err := d.configurator.Configure()
	if err != nil {
		d.logger.Error("color configuration: %v", err)
		return OutcomeError
	}
	if changed {
		d.Refresh()
	}
	return OutcomeConfigure
}

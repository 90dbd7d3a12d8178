// Package configure changes calltip colours by running a sandboxed Lua
// script.
//
// Scripts see a single global table, calltip:
//
//	calltip.colors()          -- {background = {r, g, b}, text = {r, g, b}}
//	calltip.defaults()        -- the built-in colours, same shape
//	calltip.background(...)   -- set background: r, g, b | {r, g, b} | "#rrggbb"
//	calltip.text(...)         -- set text colour, same arguments
//	calltip.reset()           -- restore the built-in colours
//
// The new colours are saved once the script finishes without error.
// Without a user script the embedded default cycles through preset themes.
package configure

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/calltip/internal/colors"
)

//go:embed default.lua
var defaultScript string

// DefaultTimeout bounds a script's run time.
const DefaultTimeout = 2 * time.Second

// ErrScriptFailed wraps failures raised by the script itself.
var ErrScriptFailed = errors.New("configure script failed")

// Store is where colours are read from and saved to.
type Store interface {
	Load() colors.Colors
	Save(colors.Colors) error
}

// Logger is the subset of the application logger used here.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}

// Lua runs a colour script against a Store.
type Lua struct {
	store   Store
	path    string
	source  string
	timeout time.Duration
	logger  Logger
}

// Option configures a Lua configurator.
type Option func(*Lua)

// WithScriptFile runs the script at path instead of the default.
func WithScriptFile(path string) Option {
	return func(c *Lua) {
		c.path = path
	}
}

// WithSource runs code instead of the default.
func WithSource(code string) Option {
	return func(c *Lua) {
		c.source = code
	}
}

// WithTimeout sets the run time limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Lua) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger that receives the script's print output.
func WithLogger(l Logger) Option {
	return func(c *Lua) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a configurator for store.
func New(store Store, opts ...Option) *Lua {
	c := &Lua{
		store:   store,
		timeout: DefaultTimeout,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultScript returns the embedded default script.
func DefaultScript() string {
	return defaultScript
}

// Configure runs the script with a background context.
func (c *Lua) Configure() (bool, error) {
	return c.Run(context.Background())
}

// Run executes the script and saves the resulting colours. It reports
// whether the saved colours differ from the ones loaded before the run.
func (c *Lua) Run(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	before := c.store.Load()
	sess := &session{current: before}

	L := newState(ctx, c.logger)
	defer L.Close()
	L.SetGlobal("calltip", sess.module(L))

	name := c.scriptName()
	err := run(func() error {
		switch {
		case c.path != "":
			return L.DoFile(c.path)
		case c.source != "":
			return L.DoString(c.source)
		default:
			return L.DoString(defaultScript)
		}
	})
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrScriptFailed, name, err)
	}

	if sess.current == before {
		c.logger.Debug("script %s left colours unchanged", name)
		return false, nil
	}
	if err := c.store.Save(sess.current); err != nil {
		return false, fmt.Errorf("save colours: %w", err)
	}
	c.logger.Debug("script %s set background %s text %s", name, sess.current.Background, sess.current.Text)
	return true, nil
}

func (c *Lua) scriptName() string {
	switch {
	case c.path != "":
		return c.path
	case c.source != "":
		return "<source>"
	default:
		return "<default>"
	}
}

// session holds the colours a script is building.
type session struct {
	current colors.Colors
}

func (s *session) module(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"colors": func(L *lua.LState) int {
			L.Push(colorsTable(L, s.current))
			return 1
		},
		"defaults": func(L *lua.LState) int {
			L.Push(colorsTable(L, colors.Defaults()))
			return 1
		},
		"background": func(L *lua.LState) int {
			s.current.Background = checkRGB(L)
			return 0
		},
		"text": func(L *lua.LState) int {
			s.current.Text = checkRGB(L)
			return 0
		},
		"reset": func(L *lua.LState) int {
			s.current = colors.Defaults()
			return 0
		},
	})
}

func colorsTable(L *lua.LState, c colors.Colors) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "background", rgbTable(L, c.Background))
	L.SetField(t, "text", rgbTable(L, c.Text))
	return t
}

func rgbTable(L *lua.LState, c colors.RGB) *lua.LTable {
	t := L.CreateTable(3, 0)
	for _, v := range c.Ints() {
		t.Append(lua.LNumber(v))
	}
	return t
}

// checkRGB reads a colour from the call arguments.
func checkRGB(L *lua.LState) colors.RGB {
	var (
		c   colors.RGB
		err error
	)
	switch v := L.Get(1).(type) {
	case lua.LString:
		c, err = colors.ParseHex(string(v))
	case *lua.LTable:
		vals := make([]int, 0, 3)
		for i := 1; i <= v.Len(); i++ {
			n, ok := v.RawGetInt(i).(lua.LNumber)
			if !ok {
				L.ArgError(1, "colour table must hold numbers")
			}
			vals = append(vals, int(n))
		}
		c, err = colors.FromInts(vals)
	default:
		c, err = colors.FromInts([]int{L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)})
	}
	if err != nil {
		L.ArgError(1, err.Error())
	}
	return c
}

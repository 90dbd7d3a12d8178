// Package term is a small terminal editor that hosts calltips.
//
// The editor keeps one text buffer, draws it with tcell, and publishes the
// same notifications a full editor would: a character-added event for every
// typed rune and a click event when the mouse presses inside the calltip.
// All events, including functions handed to Post, run on the goroutine that
// called Run.
package term

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/calltip/internal/calltip"
	"github.com/dshills/calltip/internal/colors"
	"github.com/dshills/calltip/internal/event"
	"github.com/dshills/calltip/internal/host"
	"github.com/dshills/calltip/internal/overload"
)

type quitSignal struct{}

type nopLogger struct{}

func (nopLogger) Error(string, ...any) {}

// Editor implements host.Host on a tcell screen.
type Editor struct {
	screen tcell.Screen
	bus    *event.Bus
	logger host.Logger

	mu       sync.Mutex
	text     []rune
	caret    int
	language string
	words    host.WordChars
	tip      host.Tip
	box      tipBox
	status   string
	pressed  bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithLanguage sets the document language reported to the dispatcher.
func WithLanguage(lang string) Option {
	return func(e *Editor) {
		e.language = lang
	}
}

// WithWordChars sets the word character rules.
func WithWordChars(w host.WordChars) Option {
	return func(e *Editor) {
		e.words = w
	}
}

// WithText sets the initial buffer contents. The caret is placed at the end.
func WithText(s string) Option {
	return func(e *Editor) {
		e.text = []rune(s)
		e.caret = len(e.text)
	}
}

// WithLogger sets the logger for dropped posts and recovered handler panics.
func WithLogger(l host.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an editor drawing to screen. A nil screen opens the terminal.
func New(screen tcell.Screen, opts ...Option) (*Editor, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		screen = s
	}

	e := &Editor{screen: screen, logger: nopLogger{}}
	for _, opt := range opts {
		opt(e)
	}
	e.bus = event.NewBus(event.WithPanicHandler(host.PanicLogger(e.logger)))
	return e, nil
}

// Run initializes the screen and processes terminal events until the user
// quits with Ctrl-C or Ctrl-Q, or ctx is done.
func (e *Editor) Run(ctx context.Context) error {
	if err := e.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer e.screen.Fini()

	e.screen.EnableMouse(tcell.MouseButtonEvents)
	e.draw()

	stop := context.AfterFunc(ctx, func() {
		_ = e.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
	})
	defer stop()

	for {
		ev := e.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if e.handle(ev) {
			return nil
		}
	}
}

// Close releases event subscriptions.
func (e *Editor) Close() {
	e.bus.Close()
}

// handle processes one terminal event and redraws. It reports whether the
// editor should exit.
func (e *Editor) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if e.handleKey(ev) {
			return true
		}
	case *tcell.EventMouse:
		e.handleMouse(ev)
	case *tcell.EventResize:
		e.screen.Sync()
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case quitSignal:
			return true
		case func():
			data()
		}
	}
	e.draw()
	return false
}

func (e *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return true
	case tcell.KeyEscape:
		e.CancelCalltip()
	case tcell.KeyRune:
		e.insert(ev.Rune())
	case tcell.KeyEnter:
		e.insert('\n')
	case tcell.KeyTab:
		e.insert('\t')
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.backspace()
	case tcell.KeyLeft:
		e.moveCaret(-1)
	case tcell.KeyRight:
		e.moveCaret(1)
	case tcell.KeyHome:
		e.moveCaret(-len(e.text))
	case tcell.KeyEnd:
		e.moveCaret(len(e.text))
	}
	return false
}

func (e *Editor) handleMouse(ev *tcell.EventMouse) {
	down := ev.Buttons()&tcell.Button1 != 0

	e.mu.Lock()
	press := down && !e.pressed
	e.pressed = down
	box := e.box
	e.mu.Unlock()

	if !press {
		return
	}

	x, y := ev.Position()
	if box.contains(x, y) {
		e.publish(host.TopicCalltipClick, host.CalltipClick{Region: box.region(x, y)})
		return
	}

	e.mu.Lock()
	e.caret = offsetAt(e.text, x, y)
	e.mu.Unlock()
}

func (e *Editor) insert(r rune) {
	e.mu.Lock()
	e.text = append(e.text[:e.caret], append([]rune{r}, e.text[e.caret:]...)...)
	e.caret++
	pos := e.caret
	e.mu.Unlock()

	e.publish(host.TopicCharAdded, host.CharAdded{Char: r, Pos: pos})
}

func (e *Editor) backspace() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.caret == 0 {
		return
	}
	e.text = append(e.text[:e.caret-1], e.text[e.caret:]...)
	e.caret--
}

func (e *Editor) moveCaret(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.caret = min(max(e.caret+delta, 0), len(e.text))
}

func (e *Editor) publish(topic event.Topic, payload any) {
	err := e.bus.Publish(context.Background(), event.New(topic, payload, "term"))

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.status = err.Error()
	} else {
		e.status = ""
	}
}

// Subscribe implements host.Host.
func (e *Editor) Subscribe(topic event.Topic, fn event.HandlerFunc) (*event.Subscription, error) {
	return e.bus.SubscribeFunc(topic, fn)
}

// ShowCalltip implements host.Host.
func (e *Editor) ShowCalltip(pos int, text string, c colors.Colors) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tip = host.Tip{Pos: pos, Text: text, Colors: c, Visible: true}
}

// CancelCalltip implements host.Host.
func (e *Editor) CancelCalltip() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tip.Visible = false
}

// WordAt implements host.Host.
func (e *Editor) WordAt(pos int) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.words.Word(e.text, pos)
}

// CaretPos implements host.Host.
func (e *Editor) CaretPos() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.caret
}

// Language implements host.Host.
func (e *Editor) Language() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.language
}

// Post implements host.Host. fn runs on the Run goroutine after the events
// already queued. When the queue is full fn is dropped and the failure is
// logged and shown on the status line.
func (e *Editor) Post(fn func()) {
	err := e.screen.PostEvent(tcell.NewEventInterrupt(fn))
	if err == nil {
		return
	}
	e.logger.Error("post dropped: %v", err)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = "update dropped: " + err.Error()
}

// SetLanguage changes the document language and publishes
// host.TopicLanguageChanged.
func (e *Editor) SetLanguage(lang string) {
	e.mu.Lock()
	e.language = lang
	e.mu.Unlock()

	e.publish(host.TopicLanguageChanged, host.LanguageChanged{Language: lang})
}

// SetWordChars replaces the word character rules.
func (e *Editor) SetWordChars(w host.WordChars) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.words = w
}

// Text returns the buffer contents.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return string(e.text)
}

// Tip returns the current calltip state.
func (e *Editor) Tip() host.Tip {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.tip
}

func (e *Editor) draw() {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.screen
	s.Clear()
	w, h := s.Size()

	for i, r := range e.text {
		if r == '\n' || r == '\t' {
			continue
		}
		x, y := cellOf(e.text, i)
		if y < h-1 {
			s.SetContent(x, y, r, nil, tcell.StyleDefault)
		}
	}

	cx, cy := cellOf(e.text, e.caret)
	s.ShowCursor(cx, cy)

	e.drawStatus(w, h)

	e.box = tipBox{}
	if e.tip.Visible {
		e.box = e.drawTip(w, h)
	}
	s.Show()
}

func (e *Editor) drawStatus(w, h int) {
	msg := e.status
	if msg == "" {
		lang := e.language
		if lang == "" {
			lang = "plain"
		}
		msg = fmt.Sprintf("%s | Esc hides the calltip, Ctrl-Q quits", lang)
	}

	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range " " + msg {
		if x >= w {
			break
		}
		e.screen.SetContent(x, h-1, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < w; x++ {
		e.screen.SetContent(x, h-1, ' ', nil, style)
	}
}

// drawTip draws the calltip below its anchor, or above it when there is no
// room, and returns the occupied box.
func (e *Editor) drawTip(w, h int) tipBox {
	lines := strings.Split(host.DisplayText(e.tip.Text), "\n")
	for i, line := range lines {
		lines[i] = strings.ReplaceAll(line, "\t", strings.Repeat(" ", calltip.TabWidth))
	}

	width := 0
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line))
	}
	width += 2

	ax, ay := cellOf(e.text, e.tip.Pos)
	top := ay + 1
	if top+len(lines) > h-1 {
		top = max(ay-len(lines), 0)
	}
	left := max(min(ax, w-width), 0)

	box := tipBox{x: left, y: top, w: width, h: len(lines), prevX: -1, nextX: -1, visible: true}
	style := tcell.StyleDefault.
		Background(rgb(e.tip.Colors.Background)).
		Foreground(rgb(e.tip.Colors.Text))

	for row, line := range lines {
		y := top + row
		for x := left; x < left+width && x < w; x++ {
			e.screen.SetContent(x, y, ' ', nil, style)
		}
		x := left + 1
		for _, r := range line {
			if row == 0 {
				switch string(r) {
				case host.ArrowPrev:
					if box.prevX < 0 {
						box.prevX = x
					}
				case host.ArrowNext:
					if box.nextX < 0 {
						box.nextX = x
					}
				}
			}
			if x < w {
				e.screen.SetContent(x, y, r, nil, style)
			}
			x += runewidth.RuneWidth(r)
		}
	}
	return box
}

func rgb(c colors.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// tipBox is the screen area covered by the calltip.
type tipBox struct {
	x, y, w, h   int
	prevX, nextX int
	visible      bool
}

func (b tipBox) contains(x, y int) bool {
	return b.visible && x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

// region maps a click inside the box to the overload arrow it hit.
func (b tipBox) region(x, y int) overload.Region {
	if y != b.y {
		return overload.RegionNeutral
	}
	switch x {
	case b.prevX:
		return overload.RegionPrev
	case b.nextX:
		return overload.RegionNext
	}
	return overload.RegionNeutral
}

// cellOf returns the screen cell of rune offset pos. Tabs advance to the
// next tab stop.
func cellOf(text []rune, pos int) (x, y int) {
	pos = min(max(pos, 0), len(text))
	for _, r := range text[:pos] {
		switch r {
		case '\n':
			x, y = 0, y+1
		case '\t':
			x += calltip.TabWidth - x%calltip.TabWidth
		default:
			x += runewidth.RuneWidth(r)
		}
	}
	return x, y
}

// offsetAt returns the rune offset nearest to screen cell (x, y).
func offsetAt(text []rune, x, y int) int {
	cx, cy := 0, 0
	for i, r := range text {
		if cy == y && (cx >= x || r == '\n') {
			return i
		}
		if cy > y {
			return i
		}
		switch r {
		case '\n':
			cx, cy = 0, cy+1
		case '\t':
			cx += calltip.TabWidth - cx%calltip.TabWidth
		default:
			cx += runewidth.RuneWidth(r)
		}
	}
	return len(text)
}

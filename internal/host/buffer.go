package host

import (
	"context"
	"sync"

	"github.com/dshills/calltip/internal/colors"
	"github.com/dshills/calltip/internal/event"
	"github.com/dshills/calltip/internal/overload"
)

// Tip is the calltip a host is currently displaying.
type Tip struct {
	Pos     int
	Text    string
	Colors  colors.Colors
	Visible bool
}

// Buffer is an in-memory editor host. Typing inserts
// at the caret and publishes TopicCharAdded for every rune, the way an
// editor notifies plugins. It backs the CLI's "type" command and tests.
//
// The buffer has no event loop of its own. Deliveries and posted functions
// share one lock, so a function posted from another goroutine runs between
// notifications and never alongside a handler.
type Buffer struct {
	mu sync.Mutex

	// delivery serializes bus publishes with Post.
	delivery sync.Mutex

	bus      *event.Bus
	logger   Logger
	text     []rune
	caret    int
	language string
	words    WordChars

	tip     Tip
	shows   int
	cancels int
}

// BufferOption configures a Buffer.
type BufferOption func(*Buffer)

// WithLanguage sets the initial document language.
func WithLanguage(lang string) BufferOption {
	return func(b *Buffer) {
		b.language = lang
	}
}

// WithWordChars sets the word character rules.
func WithWordChars(w WordChars) BufferOption {
	return func(b *Buffer) {
		b.words = w
	}
}

// WithLogger sets the logger for recovered handler panics.
func WithLogger(l Logger) BufferOption {
	return func(b *Buffer) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuffer creates an empty buffer host.
func NewBuffer(opts ...BufferOption) *Buffer {
	b := &Buffer{logger: nopLogger{}}
	for _, opt := range opts {
		opt(b)
	}
	b.bus = event.NewBus(event.WithPanicHandler(PanicLogger(b.logger)))
	return b
}

// Subscribe implements Host.
func (b *Buffer) Subscribe(topic event.Topic, fn event.HandlerFunc) (*event.Subscription, error) {
	return b.bus.SubscribeFunc(topic, fn)
}

// ShowCalltip implements Host.
func (b *Buffer) ShowCalltip(pos int, text string, c colors.Colors) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tip = Tip{Pos: pos, Text: text, Colors: c, Visible: true}
	b.shows++
}

// CancelCalltip implements Host.
func (b *Buffer) CancelCalltip() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tip.Visible = false
	b.cancels++
}

// WordAt implements Host.
func (b *Buffer) WordAt(pos int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.words.Word(b.text, pos)
}

// CaretPos implements Host.
func (b *Buffer) CaretPos() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.caret
}

// Language implements Host.
func (b *Buffer) Language() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.language
}

// Post implements Host. fn runs on the caller's goroutine once no
// notification is being delivered. It must not be called from a handler.
func (b *Buffer) Post(fn func()) {
	b.delivery.Lock()
	defer b.delivery.Unlock()

	fn()
}

// Type inserts s at the caret one rune at a time, publishing
// TopicCharAdded after each insertion. Handler errors are returned joined.
func (b *Buffer) Type(s string) error {
	for _, r := range s {
		b.mu.Lock()
		b.text = append(b.text[:b.caret], append([]rune{r}, b.text[b.caret:]...)...)
		b.caret++
		pos := b.caret
		b.mu.Unlock()

		if err := b.publish(TopicCharAdded, CharAdded{Char: r, Pos: pos}); err != nil {
			return err
		}
	}
	return nil
}

// Click simulates a click on region of the calltip. Clicks while no tip is
// visible are ignored, as an editor would not deliver them.
func (b *Buffer) Click(region overload.Region) error {
	b.mu.Lock()
	visible := b.tip.Visible
	b.mu.Unlock()

	if !visible {
		return nil
	}
	return b.publish(TopicCalltipClick, CalltipClick{Region: region})
}

// SetLanguage changes the document language and publishes
// TopicLanguageChanged.
func (b *Buffer) SetLanguage(lang string) error {
	b.mu.Lock()
	b.language = lang
	b.mu.Unlock()

	return b.publish(TopicLanguageChanged, LanguageChanged{Language: lang})
}

// ColorsChanged publishes TopicColorsChanged.
func (b *Buffer) ColorsChanged() error {
	return b.publish(TopicColorsChanged, nil)
}

// MoveCaret places the caret at pos, clamped to the text.
func (b *Buffer) MoveCaret(pos int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pos < 0 {
		pos = 0
	}
	if pos > len(b.text) {
		pos = len(b.text)
	}
	b.caret = pos
}

// Text returns the buffer contents.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return string(b.text)
}

// Tip returns the current calltip state.
func (b *Buffer) Tip() Tip {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.tip
}

// Counts returns how many times ShowCalltip and CancelCalltip were called.
func (b *Buffer) Counts() (shows, cancels int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.shows, b.cancels
}

// SetWordChars replaces the word character rules.
func (b *Buffer) SetWordChars(w WordChars) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.words = w
}

// Stats returns the event bus counters.
func (b *Buffer) Stats() event.Stats {
	return b.bus.Stats()
}

// Close releases subscriptions.
func (b *Buffer) Close() {
	b.bus.Close()
}

func (b *Buffer) publish(topic event.Topic, payload any) error {
	b.delivery.Lock()
	defer b.delivery.Unlock()

	return b.bus.Publish(context.Background(), event.New(topic, payload, "buffer"))
}

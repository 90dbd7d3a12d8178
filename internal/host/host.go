// Package host defines the editor surface the calltip engine talks to.
//
// The engine never reaches for editor globals: everything it needs (event
// subscription, word lookup, drawing and cancelling the tip) goes through the
// Host interface. Concrete hosts live in this package (Buffer, an in-memory
// editor) and in subpackages (term, a tcell terminal editor).
package host

import (
	"github.com/dshills/calltip/internal/colors"
	"github.com/dshills/calltip/internal/event"
	"github.com/dshills/calltip/internal/overload"
)

// Event topics published by hosts.
const (
	// TopicCharAdded is published after a character is inserted.
	// Payload: CharAdded.
	TopicCharAdded event.Topic = "editor.char.added"

	// TopicCalltipClick is published when the visible calltip is clicked.
	// Payload: CalltipClick.
	TopicCalltipClick event.Topic = "calltip.click"

	// TopicLanguageChanged is published when the active document language
	// changes. Payload: LanguageChanged.
	TopicLanguageChanged event.Topic = "editor.language.changed"

	// TopicColorsChanged is published when the display colours change.
	// Payload: nil.
	TopicColorsChanged event.Topic = "calltip.colors.changed"
)

// CharAdded is the payload of TopicCharAdded.
type CharAdded struct {
	// Char is the inserted character.
	Char rune

	// Pos is the caret position after the insertion.
	Pos int
}

// CalltipClick is the payload of TopicCalltipClick.
type CalltipClick struct {
	Region overload.Region
}

// LanguageChanged is the payload of TopicLanguageChanged.
type LanguageChanged struct {
	Language string
}

// Host is the editor as seen by the calltip dispatcher.
//
// Hosts deliver all events on one goroutine; implementations of the display
// methods may assume they are called from that goroutine.
type Host interface {
	// Subscribe registers fn for events on topic.
	Subscribe(topic event.Topic, fn event.HandlerFunc) (*event.Subscription, error)

	// ShowCalltip draws text anchored at pos using c.
	ShowCalltip(pos int, text string, c colors.Colors)

	// CancelCalltip hides the calltip if one is showing.
	CancelCalltip()

	// WordAt returns the run of word characters around pos.
	WordAt(pos int) string

	// CaretPos returns the caret position.
	CaretPos() int

	// Language returns the language of the active document.
	Language() string

	// Post runs fn on the host's event goroutine.
	Post(fn func())
}

// OnLanguage calls fn once, on the host's event goroutine, as soon as the
// host's language equals lang. An empty lang fires immediately. The returned
// function cancels a pending wait.
func OnLanguage(h Host, lang string, fn func()) (cancel func(), err error) {
	if lang == "" || h.Language() == lang {
		fn()
		return func() {}, nil
	}

	var sub *event.Subscription
	sub, err = h.Subscribe(TopicLanguageChanged, func(ev event.Event) error {
		lc, ok := ev.Payload.(LanguageChanged)
		if !ok || lc.Language != lang {
			return nil
		}
		sub.Cancel()
		fn()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub.Cancel, nil
}

// Logger receives errors a host cannot return to a caller.
type Logger interface {
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Error(string, ...any) {}

// PanicLogger returns a bus panic handler that logs the recovered value and
// the handler's stack to l.
func PanicLogger(l Logger) event.PanicHandler {
	return func(ev event.Event, recovered any, stack []byte) {
		l.Error("%s handler panicked: %v\n%s", ev.Topic, recovered, stack)
	}
}

package dispatcher

import (
	"github.com/google/uuid"

	"github.com/dshills/calltip/internal/catalog"
	"github.com/dshills/calltip/internal/overload"
)

// Session is the state of the calltip currently bound to a keyword.
type Session struct {
	// ID identifies the activation in logs. A new ID is issued on every
	// fresh keyword match.
	ID string

	// Cursor holds the overloads and current index.
	Cursor overload.Cursor

	// Name is the keyword as written in the catalog.
	Name string

	// Anchor is the document position the tip is drawn at.
	Anchor int

	// Cycled is set once the user clicks an arrow.
	Cycled bool
}

func (s *Session) activate(kw *catalog.Keyword, anchor int) {
	s.ID = uuid.NewString()
	s.Cursor.Activate(kw)
	s.Name = kw.Name
	s.Anchor = anchor
	s.Cycled = false
}

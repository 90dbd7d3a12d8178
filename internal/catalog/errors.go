package catalog

import (
	"errors"
	"fmt"
)

// Catalog errors.
var (
	// ErrNoKeywords indicates the document held no function keywords.
	ErrNoKeywords = errors.New("catalog has no function keywords")

	// ErrMissingElement indicates a required element is absent.
	ErrMissingElement = errors.New("missing required element")

	// ErrMissingAttribute indicates a required attribute is absent.
	ErrMissingAttribute = errors.New("missing required attribute")
)

// ParseError describes why a catalog document was rejected.
type ParseError struct {
	Source  string // File path or "<reader>"
	Keyword string // Keyword name, if known
	Index   int    // Zero-based keyword position, -1 if not keyword specific
	Field   string // Offending element or attribute
	Err     error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	msg := "parse catalog " + e.Source
	switch {
	case e.Keyword != "":
		msg += fmt.Sprintf(": keyword %q", e.Keyword)
	case e.Index >= 0:
		msg += fmt.Sprintf(": keyword #%d", e.Index+1)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": %s", e.Field)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Package overload tracks which overload of the active keyword is showing.
package overload

import (
	"errors"
	"fmt"

	"github.com/dshills/calltip/internal/catalog"
)

// ErrNoOverloads is returned by Current when no keyword is active.
var ErrNoOverloads = errors.New("no active overloads")

// Region identifies the part of a calltip that was clicked.
type Region int

const (
	// RegionNeutral is any click that is not on an arrow.
	RegionNeutral Region = 0
	// RegionPrev is the "previous overload" arrow.
	RegionPrev Region = 1
	// RegionNext is the "next overload" arrow.
	RegionNext Region = 2
)

// String returns the region name.
func (r Region) String() string {
	switch r {
	case RegionNeutral:
		return "neutral"
	case RegionPrev:
		return "prev"
	case RegionNext:
		return "next"
	default:
		return "unknown"
	}
}

// ParseRegion parses a region name as returned by Region.String.
func ParseRegion(s string) (Region, error) {
	for _, r := range []Region{RegionNeutral, RegionPrev, RegionNext} {
		if s == r.String() {
			return r, nil
		}
	}
	return RegionNeutral, fmt.Errorf("unknown click region %q", s)
}

// Cursor is a circular position within a keyword's overloads.
// The zero value is an inactive cursor.
//
// Cursor is not safe for concurrent use; it is owned by a single dispatcher.
type Cursor struct {
	keyword   *catalog.Keyword
	overloads []catalog.Overload
	index     int
	count     int
}

// Activate points the cursor at the first overload of kw.
func (c *Cursor) Activate(kw *catalog.Keyword) {
	if kw == nil {
		c.Clear()
		return
	}
	c.keyword = kw
	c.overloads = kw.Overloads
	c.index = 0
	c.count = len(kw.Overloads)
}

// Advance moves to the next overload, wrapping to the first.
func (c *Cursor) Advance() {
	if c.count == 0 {
		return
	}
	c.index = (c.index + 1) % c.count
}

// Retreat moves to the previous overload, wrapping to the last.
func (c *Cursor) Retreat() {
	if c.count == 0 {
		return
	}
	c.index = (c.index - 1 + c.count) % c.count
}

// Step applies a click on region. Unknown regions leave the index unchanged.
func (c *Cursor) Step(region Region) {
	switch region {
	case RegionNext:
		c.Advance()
	case RegionPrev:
		c.Retreat()
	}
}

// Current returns the overload at the cursor.
func (c *Cursor) Current() (catalog.Overload, error) {
	if c.count == 0 {
		return catalog.Overload{}, ErrNoOverloads
	}
	return c.overloads[c.index], nil
}

// Clear deactivates the cursor. The previous keyword and index are stale
// until the next Activate.
func (c *Cursor) Clear() {
	c.count = 0
}

// Index returns the zero-based position of the current overload.
func (c *Cursor) Index() int {
	return c.index
}

// Count returns the number of overloads, or 0 when inactive.
func (c *Cursor) Count() int {
	return c.count
}

// Active reports whether a keyword is active.
func (c *Cursor) Active() bool {
	return c.count > 0
}

// Keyword returns the active keyword, or nil when inactive.
func (c *Cursor) Keyword() *catalog.Keyword {
	if c.count == 0 {
		return nil
	}
	return c.keyword
}

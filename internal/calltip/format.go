// Package calltip renders keyword overloads as calltip text.
//
// The output is plain text understood by Scintilla-style calltip windows:
// lines are separated by "\n" and the overload position marker is framed by
// the control characters MarkerPrev and MarkerNext, which the host draws as
// clickable up/down arrows.
package calltip

import (
	"strconv"
	"strings"

	"github.com/dshills/calltip/internal/catalog"
)

const (
	// DefaultWidth is the column at which calltip lines are wrapped.
	DefaultWidth = 70

	// MarkerPrev opens the position marker and is drawn as the "previous" arrow.
	MarkerPrev = "\x01"

	// MarkerNext closes the position marker and is drawn as the "next" arrow.
	MarkerNext = "\x02"

	// TabWidth is the tab stop used when measuring lines.
	TabWidth = 8
)

// Formatter renders overloads. The zero value wraps at DefaultWidth.
// A Formatter holds no mutable state; Render is a pure function of its inputs.
type Formatter struct {
	width int
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithWidth sets the wrap column. Values below 1 are ignored.
func WithWidth(width int) Option {
	return func(f *Formatter) {
		if width > 0 {
			f.width = width
		}
	}
}

// NewFormatter creates a formatter.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{width: DefaultWidth}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Width returns the wrap column.
func (f *Formatter) Width() int {
	if f == nil || f.width <= 0 {
		return DefaultWidth
	}
	return f.width
}

// Render builds the calltip for overload index of count belonging to the
// keyword called name.
//
// The first line is the return type, name and parameter list separated by
// single spaces, each kept even when empty, preceded by the marker and a
// space when count > 1. Description lines follow. Every logical line is
// wrapped on its own and blank lines are dropped.
func (f *Formatter) Render(name string, ov catalog.Overload, index, count int) string {
	head := ov.ReturnType + " " + name + " " + ov.Params
	if m := Marker(index, count); m != "" {
		head = m + " " + head
	}

	width := f.Width()
	lines := Wrap(head, width)
	for _, line := range ov.DescriptionLines() {
		lines = append(lines, Wrap(line, width)...)
	}
	return strings.Join(lines, "\n")
}

// Marker returns the "i of n" position marker framed by MarkerPrev and
// MarkerNext, or "" when there is nothing to cycle through.
func Marker(index, count int) string {
	if count <= 1 {
		return ""
	}
	return MarkerPrev + strconv.Itoa(index+1) + " of " + strconv.Itoa(count) + MarkerNext
}

package calltip

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 10, nil},
		{"blank", "   \t ", 10, nil},
		{"fits", "hello world", 20, []string{"hello world"}},
		{"exact", "hello world", 11, []string{"hello world"}},
		{"break", "hello world", 10, []string{"hello", "world"}},
		{"long word kept", "a supercalifragilistic b", 5, []string{"a", "supercalifragilistic", "b"}},
		{"inner spaces kept", "a  b   c", 20, []string{"a  b   c"}},
		{"leading spaces kept", "  indented text", 40, []string{"  indented text"}},
		{"trailing spaces dropped", "text   ", 40, []string{"text"}},
		{"spaces at break dropped", "aaaa    bbbb", 6, []string{"aaaa", "bbbb"}},
		{"hyphen not split", "non-zero value", 5, []string{"non-zero", "value"}},
		{"tab expanded", "a\tb", 20, []string{"a       b"}},
		{"zero width", "a b", 0, []string{"a", "b"}},
		{"no break at nbsp", "a\u00a0b", 1, []string{"a\u00a0b"}},
		{"no break at nel", "a\u0085b c", 3, []string{"a\u0085b", "c"}},
		{"nbsp only", "\u00a0", 10, []string{"\u00a0"}},
		{"break at vertical tab", "a\vb", 1, []string{"a", "b"}},
		{"break at form feed", "a\fb", 1, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.text, tt.width))
		})
	}
}

func TestWrapNeverSplitsWords(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog and keeps running through " +
		"the forest until it reaches a river where it finally stops to drink some water"

	for width := 1; width <= 80; width++ {
		lines := Wrap(text, width)
		assert.Equal(t, text, strings.Join(lines, " "), "width %d", width)

		for _, line := range lines {
			if strings.Contains(line, " ") {
				assert.LessOrEqual(t, runewidth.StringWidth(line), width, "width %d line %q", width, line)
			}
		}
	}
}

func TestWrapDefaultWidth(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 30))

	lines := Wrap(text, DefaultWidth)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), DefaultWidth)
	}
	assert.Equal(t, text, strings.Join(lines, " "))
}

func TestWrapWideRunes(t *testing.T) {
	// Each ideograph occupies two columns.
	lines := Wrap("日本 語", 4)
	assert.Equal(t, []string{"日本", "語"}, lines)
}

func TestExpandTabs(t *testing.T) {
	assert.Equal(t, "ab      c", expandTabs("ab\tc", 8))
	assert.Equal(t, "        x", expandTabs("\tx", 8))
	assert.Equal(t, "no tabs", expandTabs("no tabs", 8))
}

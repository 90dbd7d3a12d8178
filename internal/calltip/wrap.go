package calltip

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// breakSpace is the whitespace Wrap may break at. Other Unicode spaces, such
// as U+00A0, are treated as part of a word.
const breakSpace = " \t\n\v\f\r"

// Wrap breaks text into lines no wider than width display columns.
//
// Breaks happen only at ASCII whitespace, so a word is never split; a word wider
// than width gets a line of its own. Whitespace inside a line is kept as is,
// whitespace at a break is dropped, and a text that is only whitespace yields
// no lines.
func Wrap(text string, width int) []string {
	text = expandTabs(text, TabWidth)
	if isBlank(text) {
		return nil
	}
	if width < 1 {
		width = 1
	}

	chunks := splitChunks(text)
	var lines []string
	for len(chunks) > 0 {
		// Whitespace that would start a continuation line is dropped.
		if len(lines) > 0 && isBlank(chunks[0]) {
			chunks = chunks[1:]
			continue
		}

		var cur []string
		curWidth := 0
		for len(chunks) > 0 {
			w := runewidth.StringWidth(chunks[0])
			if curWidth+w > width {
				break
			}
			cur = append(cur, chunks[0])
			curWidth += w
			chunks = chunks[1:]
		}

		if len(cur) == 0 && len(chunks) > 0 {
			cur = append(cur, chunks[0])
			chunks = chunks[1:]
		}
		if len(cur) > 0 && isBlank(cur[len(cur)-1]) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 {
			lines = append(lines, strings.Join(cur, ""))
		}
	}
	return lines
}

// splitChunks splits text into alternating runs of whitespace and
// non-whitespace.
func splitChunks(text string) []string {
	var chunks []string
	start := 0
	inSpace := false
	for i, r := range text {
		space := isBreakSpace(r)
		if i > start && space != inSpace {
			chunks = append(chunks, text[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}

func isBreakSpace(r rune) bool {
	return r < 0x80 && strings.ContainsRune(breakSpace, r)
}

func isBlank(chunk string) bool {
	return strings.Trim(chunk, breakSpace) == ""
}

// expandTabs replaces tabs with spaces up to the next multiple of size.
func expandTabs(s string, size int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := size - col%size
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
	}
	return b.String()
}

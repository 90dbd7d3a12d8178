package host

import (
	"strings"
	"unicode"
)

// WordChars decides which runes belong to a word. The zero value accepts
// letters, digits and underscore.
type WordChars struct {
	// Additional lists extra word characters, as in the catalog's
	// additionalWordChar setting.
	Additional string
}

// IsWord reports whether r is a word character.
func (w WordChars) IsWord(r rune) bool {
	if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return w.Additional != "" && strings.ContainsRune(w.Additional, r)
}

// Bounds returns the word around pos in text as [start, end). The word
// extends left from pos while the preceding rune is a word character and
// right from pos while the rune at pos is one. Positions are rune offsets
// and are clamped to the text.
func (w WordChars) Bounds(text []rune, pos int) (start, end int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(text) {
		pos = len(text)
	}

	start = pos
	for start > 0 && w.IsWord(text[start-1]) {
		start--
	}
	end = pos
	for end < len(text) && w.IsWord(text[end]) {
		end++
	}
	return start, end
}

// Word returns the word around pos in text.
func (w WordChars) Word(text []rune, pos int) string {
	start, end := w.Bounds(text, pos)
	return string(text[start:end])
}

// Package catalog loads the keyword dictionary that drives calltips.
//
// A catalog is read once from a Notepad++ style AutoComplete document and is
// read-only afterwards, so a *Catalog may be shared freely. Lookups are
// case-insensitive exact matches on the keyword name; there is no prefix or
// fuzzy matching on the hot path.
package catalog

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Overload is one signature variant of a keyword.
type Overload struct {
	// ReturnType is rendered before the keyword name.
	ReturnType string

	// Params is the parameter list as written in the catalog, e.g. "(int x)".
	// May be empty.
	Params string

	// Description may contain several lines separated by "\n".
	Description string
}

// DescriptionLines returns the description split into logical lines.
func (o Overload) DescriptionLines() []string {
	if o.Description == "" {
		return nil
	}
	return strings.Split(o.Description, "\n")
}

// Keyword is a named catalog entry with at least one overload.
type Keyword struct {
	// Name is the keyword as written in the catalog.
	Name string

	// Overloads is never empty. Order is display and cycling order.
	Overloads []Overload
}

// Key returns the lookup key for the keyword.
func (k *Keyword) Key() string {
	return normalize(k.Name)
}

// Environment mirrors the <Environment> element of an AutoComplete file.
type Environment struct {
	IgnoreCase         bool
	StartFunc          string
	StopFunc           string
	ParamSeparator     string
	Terminal           string
	AdditionalWordChar string
}

// Catalog is an immutable keyword dictionary.
type Catalog struct {
	language   string
	env        Environment
	keywords   map[string]*Keyword
	names      []string
	duplicates []string
	skipped    int
}

// Lookup returns the keyword matching word, ignoring case.
// A miss is the common case and is not an error.
func (c *Catalog) Lookup(word string) (*Keyword, bool) {
	if c == nil || word == "" {
		return nil, false
	}
	kw, ok := c.keywords[normalize(word)]
	return kw, ok
}

// Len returns the number of keywords.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keywords)
}

// Names returns the lower-cased keyword names in sorted order.
// The returned slice is a copy.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Language returns the language attribute of the AutoComplete element.
func (c *Catalog) Language() string {
	return c.language
}

// Environment returns the parsed <Environment> settings.
func (c *Catalog) Environment() Environment {
	return c.env
}

// Duplicates returns names that appeared more than once. The first entry
// for each name is the one kept.
func (c *Catalog) Duplicates() []string {
	out := make([]string, len(c.duplicates))
	copy(out, c.duplicates)
	return out
}

// Skipped returns the number of plain keywords (no overloads) ignored at load.
func (c *Catalog) Skipped() int {
	return c.skipped
}

// Suggest returns up to limit keyword names that fuzzily resemble word.
// It is meant for user-facing hints and is never consulted by Lookup.
func (c *Catalog) Suggest(word string, limit int) []string {
	if c == nil || word == "" || limit <= 0 {
		return nil
	}
	matches := fuzzy.Find(normalize(word), c.names)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}

// newCatalog builds a catalog from decoded keywords, keeping the first
// occurrence of each name.
func newCatalog(language string, env Environment, keywords []*Keyword, skipped int) *Catalog {
	c := &Catalog{
		language: language,
		env:      env,
		keywords: make(map[string]*Keyword, len(keywords)),
		skipped:  skipped,
	}
	for _, kw := range keywords {
		key := kw.Key()
		if _, exists := c.keywords[key]; exists {
			c.duplicates = append(c.duplicates, kw.Name)
			continue
		}
		c.keywords[key] = kw
		c.names = append(c.names, key)
	}
	sort.Strings(c.names)
	return c
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

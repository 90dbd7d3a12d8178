package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Document layout of a Notepad++ AutoComplete file. Attributes that must be
// distinguishable from empty values are pointers.
type xmlDocument struct {
	XMLName      xml.Name         `xml:"NotepadPlus"`
	AutoComplete *xmlAutoComplete `xml:"AutoComplete"`
}

type xmlAutoComplete struct {
	Language    string          `xml:"language,attr"`
	Environment *xmlEnvironment `xml:"Environment"`
	Keywords    []xmlKeyword    `xml:"KeyWord"`
}

type xmlEnvironment struct {
	IgnoreCase         string `xml:"ignoreCase,attr"`
	StartFunc          string `xml:"startFunc,attr"`
	StopFunc           string `xml:"stopFunc,attr"`
	ParamSeparator     string `xml:"paramSeparator,attr"`
	Terminal           string `xml:"terminal,attr"`
	AdditionalWordChar string `xml:"additionalWordChar,attr"`
}

type xmlKeyword struct {
	Name      *string       `xml:"name,attr"`
	Func      string        `xml:"func,attr"`
	Overloads []xmlOverload `xml:"Overload"`
}

type xmlOverload struct {
	RetVal *string    `xml:"retVal,attr"`
	Descr  string     `xml:"descr,attr"`
	Params []xmlParam `xml:"Param"`
}

type xmlParam struct {
	Name *string `xml:"name,attr"`
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	return load(path, f)
}

// Load parses a catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	return load("<reader>", r)
}

func load(source string, r io.Reader) (*Catalog, error) {
	var doc xmlDocument
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Source: source, Index: -1, Err: err}
	}
	if doc.AutoComplete == nil {
		return nil, &ParseError{Source: source, Index: -1, Field: "AutoComplete", Err: ErrMissingElement}
	}

	ac := doc.AutoComplete
	keywords := make([]*Keyword, 0, len(ac.Keywords))
	skipped := 0
	for i, xk := range ac.Keywords {
		kw, err := convertKeyword(source, i, xk)
		if err != nil {
			return nil, err
		}
		if kw == nil {
			skipped++
			continue
		}
		keywords = append(keywords, kw)
	}
	if len(keywords) == 0 {
		return nil, &ParseError{Source: source, Index: -1, Err: ErrNoKeywords}
	}

	return newCatalog(ac.Language, convertEnvironment(ac.Environment), keywords, skipped), nil
}

// convertKeyword validates one <KeyWord>. It returns nil, nil for plain
// keywords that carry no overloads.
func convertKeyword(source string, index int, xk xmlKeyword) (*Keyword, error) {
	if xk.Name == nil || strings.TrimSpace(*xk.Name) == "" {
		return nil, &ParseError{Source: source, Index: index, Field: "name", Err: ErrMissingAttribute}
	}
	name := strings.TrimSpace(*xk.Name)
	if len(xk.Overloads) == 0 {
		return nil, nil
	}

	kw := &Keyword{
		Name:      name,
		Overloads: make([]Overload, 0, len(xk.Overloads)),
	}
	for j, xo := range xk.Overloads {
		if xo.RetVal == nil {
			return nil, &ParseError{
				Source:  source,
				Keyword: name,
				Index:   index,
				Field:   fmt.Sprintf("Overload[%d].retVal", j),
				Err:     ErrMissingAttribute,
			}
		}
		if len(xo.Params) == 0 {
			return nil, &ParseError{
				Source:  source,
				Keyword: name,
				Index:   index,
				Field:   fmt.Sprintf("Overload[%d].Param", j),
				Err:     ErrMissingElement,
			}
		}
		params := make([]string, 0, len(xo.Params))
		for k, xp := range xo.Params {
			if xp.Name == nil {
				return nil, &ParseError{
					Source:  source,
					Keyword: name,
					Index:   index,
					Field:   fmt.Sprintf("Overload[%d].Param[%d].name", j, k),
					Err:     ErrMissingAttribute,
				}
			}
			params = append(params, *xp.Name)
		}
		kw.Overloads = append(kw.Overloads, Overload{
			ReturnType:  *xo.RetVal,
			Params:      strings.Join(params, ", "),
			Description: normalizeNewlines(xo.Descr),
		})
	}
	return kw, nil
}

func convertEnvironment(xe *xmlEnvironment) Environment {
	if xe == nil {
		return Environment{}
	}
	return Environment{
		IgnoreCase:         strings.EqualFold(xe.IgnoreCase, "yes"),
		StartFunc:          xe.StartFunc,
		StopFunc:           xe.StopFunc,
		ParamSeparator:     xe.ParamSeparator,
		Terminal:           xe.Terminal,
		AdditionalWordChar: xe.AdditionalWordChar,
	}
}

// charsetReader decodes catalogs declaring a non-UTF-8 encoding, most often
// Windows-1252.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

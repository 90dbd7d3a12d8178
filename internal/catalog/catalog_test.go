package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="Windows-1252" ?>
<NotepadPlus>
	<AutoComplete language="Demo">
		<Environment ignoreCase="yes" startFunc=" " stopFunc=" " paramSeparator="," terminal=";" additionalWordChar=""/>
		<KeyWord name="Foo" func="yes">
			<Overload retVal="int" descr="returns zero">
				<Param name="(void)"/>
			</Overload>
		</KeyWord>
		<KeyWord name="bar" func="yes">
			<Overload retVal="int" descr="first">
				<Param name="(int x)"/>
			</Overload>
			<Overload retVal="void" descr="second&#x0a;more detail">
				<Param name="(void)"/>
			</Overload>
		</KeyWord>
		<KeyWord name="if"/>
		<KeyWord name="BAR" func="yes">
			<Overload retVal="char" descr="shadowed"><Param name=""/></Overload>
		</KeyWord>
		<KeyWord name="baz" func="yes">
			<Overload retVal="float" descr="">
				<Param name="int a"/>
				<Param name="int b"/>
			</Overload>
		</KeyWord>
	</AutoComplete>
</NotepadPlus>`

func loadSample(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(strings.NewReader(sampleXML))
	require.NoError(t, err)
	return c
}

func TestLoad(t *testing.T) {
	c := loadSample(t)

	assert.Equal(t, "Demo", c.Language())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"bar", "baz", "foo"}, c.Names())
	assert.Equal(t, []string{"BAR"}, c.Duplicates())
	assert.Equal(t, 1, c.Skipped())

	env := c.Environment()
	assert.True(t, env.IgnoreCase)
	assert.Equal(t, " ", env.StartFunc)
	assert.Equal(t, ",", env.ParamSeparator)
}

func TestLoadSingleOverloadIsSequence(t *testing.T) {
	c := loadSample(t)

	kw, ok := c.Lookup("foo")
	require.True(t, ok)
	require.Len(t, kw.Overloads, 1)
	assert.Equal(t, Overload{ReturnType: "int", Params: "(void)", Description: "returns zero"}, kw.Overloads[0])
}

func TestLoadMultipleOverloads(t *testing.T) {
	c := loadSample(t)

	kw, ok := c.Lookup("bar")
	require.True(t, ok)
	require.Len(t, kw.Overloads, 2)
	assert.Equal(t, "int", kw.Overloads[0].ReturnType)
	assert.Equal(t, "(int x)", kw.Overloads[0].Params)
	assert.Equal(t, "void", kw.Overloads[1].ReturnType)
	assert.Equal(t, []string{"second", "more detail"}, kw.Overloads[1].DescriptionLines())
}

func TestLoadJoinsParams(t *testing.T) {
	c := loadSample(t)

	kw, ok := c.Lookup("baz")
	require.True(t, ok)
	assert.Equal(t, "int a, int b", kw.Overloads[0].Params)
	assert.Empty(t, kw.Overloads[0].DescriptionLines())
}

func TestLookup(t *testing.T) {
	c := loadSample(t)

	tests := []struct {
		word string
		want string
		ok   bool
	}{
		{"foo", "Foo", true},
		{"FOO", "Foo", true},
		{"fOo", "Foo", true},
		{"bar", "bar", true},
		{"fo", "", false},
		{"foobar", "", false},
		{"if", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			kw, ok := c.Lookup(tt.word)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, kw.Name)
			}
		})
	}
}

func TestLookupNilCatalog(t *testing.T) {
	var c *Catalog
	_, ok := c.Lookup("foo")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		want  error
		field string
	}{
		{
			name: "wrong root",
			doc:  `<Other/>`,
		},
		{
			name:  "no autocomplete",
			doc:   `<NotepadPlus></NotepadPlus>`,
			want:  ErrMissingElement,
			field: "AutoComplete",
		},
		{
			name: "no keywords",
			doc:  `<NotepadPlus><AutoComplete><KeyWord name="if"/></AutoComplete></NotepadPlus>`,
			want: ErrNoKeywords,
		},
		{
			name:  "missing name",
			doc:   `<NotepadPlus><AutoComplete><KeyWord><Overload retVal="int"><Param name=""/></Overload></KeyWord></AutoComplete></NotepadPlus>`,
			want:  ErrMissingAttribute,
			field: "name",
		},
		{
			name:  "missing retVal",
			doc:   `<NotepadPlus><AutoComplete><KeyWord name="f"><Overload descr="x"><Param name=""/></Overload></KeyWord></AutoComplete></NotepadPlus>`,
			want:  ErrMissingAttribute,
			field: "Overload[0].retVal",
		},
		{
			name:  "missing param",
			doc:   `<NotepadPlus><AutoComplete><KeyWord name="f"><Overload retVal="int"/></KeyWord></AutoComplete></NotepadPlus>`,
			want:  ErrMissingElement,
			field: "Overload[0].Param",
		},
		{
			name:  "missing param name",
			doc:   `<NotepadPlus><AutoComplete><KeyWord name="f"><Overload retVal="int"><Param/></Overload></KeyWord></AutoComplete></NotepadPlus>`,
			want:  ErrMissingAttribute,
			field: "Overload[0].Param[0].name",
		},
		{
			name: "truncated",
			doc:  `<NotepadPlus><AutoComplete>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Source: "lang.xml", Keyword: "f", Index: 2, Field: "retVal", Err: ErrMissingAttribute}
	assert.Equal(t, `parse catalog lang.xml: keyword "f": retVal: missing required attribute`, err.Error())

	err = &ParseError{Source: "lang.xml", Index: 0, Field: "name", Err: ErrMissingAttribute}
	assert.Equal(t, `parse catalog lang.xml: keyword #1: name: missing required attribute`, err.Error())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	_, ok := c.Lookup("bar")
	assert.True(t, ok)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSuggest(t *testing.T) {
	c := loadSample(t)

	assert.Contains(t, c.Suggest("br", 3), "bar")
	assert.Len(t, c.Suggest("b", 1), 1)
	assert.Nil(t, c.Suggest("", 3))
	assert.Nil(t, c.Suggest("bar", 0))
}

func TestLoadWindows1252(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"Windows-1252\" ?>\n" +
		"<NotepadPlus><AutoComplete><KeyWord name=\"caf\xe9\" func=\"yes\">" +
		"<Overload retVal=\"int\" descr=\"d\xe9j\xe0 vu\"><Param name=\"()\"/></Overload>" +
		"</KeyWord></AutoComplete></NotepadPlus>"

	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	kw, ok := c.Lookup("café")
	require.True(t, ok)
	assert.Equal(t, "déjà vu", kw.Overloads[0].Description)
}

func TestLoadUnknownEncoding(t *testing.T) {
	doc := `<?xml version="1.0" encoding="x-nonsense" ?><NotepadPlus/>`

	_, err := Load(strings.NewReader(doc))
	assert.Error(t, err)
}

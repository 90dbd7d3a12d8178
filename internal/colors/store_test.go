package colors

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	assert.Equal(t, RGB{40, 44, 52}, c.Background)
	assert.Equal(t, RGB{189, 172, 172}, c.Text)
}

func TestRGBHex(t *testing.T) {
	assert.Equal(t, "#282c34", DefaultBackground.Hex())
	assert.Equal(t, "#bdacac", DefaultText.Hex())

	got, err := ParseHex("#282c34")
	require.NoError(t, err)
	assert.Equal(t, DefaultBackground, got)

	_, err = ParseHex("not-a-color")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestFromInts(t *testing.T) {
	got, err := FromInts([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, RGB{1, 2, 3}, got)

	for _, bad := range [][]int{nil, {1, 2}, {1, 2, 3, 4}, {-1, 0, 0}, {0, 256, 0}} {
		_, err := FromInts(bad)
		assert.ErrorIs(t, err, ErrInvalidColor, "%v", bad)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    Colors
		wantErr bool
	}{
		{
			name: "current keys",
			doc:  `{"backgroundColor":[1,2,3],"textColor":[4,5,6]}`,
			want: Colors{Background: RGB{1, 2, 3}, Text: RGB{4, 5, 6}},
		},
		{
			name: "legacy keys",
			doc:  `{"background_color":[10,20,30],"text_color":[40,50,60]}`,
			want: Colors{Background: RGB{10, 20, 30}, Text: RGB{40, 50, 60}},
		},
		{name: "not json", doc: `{"backgroundColor":`, wantErr: true},
		{name: "missing text", doc: `{"backgroundColor":[1,2,3]}`, wantErr: true},
		{name: "not array", doc: `{"backgroundColor":"red","textColor":[1,2,3]}`, wantErr: true},
		{name: "short", doc: `{"backgroundColor":[1,2],"textColor":[1,2,3]}`, wantErr: true},
		{name: "out of range", doc: `{"backgroundColor":[1,2,300],"textColor":[1,2,3]}`, wantErr: true},
		{name: "fraction", doc: `{"backgroundColor":[1,2,3.5],"textColor":[1,2,3]}`, wantErr: true},
		{name: "string component", doc: `{"backgroundColor":[1,2,"3"],"textColor":[1,2,3]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.doc))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCorrupt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeKeepsOtherKeys(t *testing.T) {
	base := []byte(`{"comment":"mine","background_color":[0,0,0]}`)

	out, err := Encode(base, Defaults())
	require.NoError(t, err)

	assert.Equal(t, "mine", gjson.GetBytes(out, "comment").String())
	assert.False(t, gjson.GetBytes(out, "background_color").Exists())

	got, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
}

func TestFileStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "colors.json")
	store := NewFileStore(path)

	want := Colors{Background: RGB{0, 0, 0}, Text: RGB{255, 255, 255}}
	require.NoError(t, store.Save(want))
	assert.Equal(t, want, store.Load())
	assert.Equal(t, want, store.Colors())
	assert.Equal(t, path, store.Path())
}

func TestFileStoreMissingFileRestoresDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(Colors{Background: RGB{1, 1, 1}, Text: RGB{2, 2, 2}}))
	require.NoError(t, os.Remove(path))

	assert.Equal(t, Defaults(), store.Load())

	data, err := os.ReadFile(path)
	require.NoError(t, err, "defaults should be written back")
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
}

func TestFileStoreCorruptFileRestoresDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	store := NewFileStore(path, WithLogger(nopLogger{}))
	assert.Equal(t, Defaults(), store.Load())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = Decode(data)
	assert.NoError(t, err)
}

func TestFileStoreUnwritableFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// The parent of the settings path is a regular file, so neither read
	// nor write can succeed.
	store := NewFileStore(filepath.Join(blocker, "colors.json"))
	assert.Equal(t, Defaults(), store.Load())
	assert.Error(t, store.Save(Defaults()))
}

func TestFileStoreReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(Colors{Background: RGB{9, 9, 9}, Text: RGB{8, 8, 8}}))

	got, err := store.Reset()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
	assert.Equal(t, Defaults(), store.Load())
}

func TestStatic(t *testing.T) {
	c := Colors{Background: RGB{1, 2, 3}}
	assert.Equal(t, c, Static(c).Colors())
}

func TestWatchReportsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(Defaults()))

	var calls atomic.Int32
	w, err := Watch(path, func() { calls.Add(1) }, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, store.Save(Colors{Background: RGB{1, 2, 3}, Text: RGB{4, 5, 6}}))

	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colors.json")

	var calls atomic.Int32
	w, err := Watch(path, func() { calls.Add(1) }, WithDebounce(0))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, calls.Load())

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrWatcherClosed)
}

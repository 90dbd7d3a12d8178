package colors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Document keys.
const (
	KeyBackground = "backgroundColor"
	KeyText       = "textColor"

	// Keys written by earlier releases, accepted on read.
	legacyKeyBackground = "background_color"
	legacyKeyText       = "text_color"
)

// ErrCorrupt indicates a colour document that cannot be decoded.
var ErrCorrupt = errors.New("corrupt color settings")

// Logger is the subset of the application logger used by the store.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// FileStore keeps colours in a JSON file. Every read goes to disk so that
// edits made outside the process are picked up on the next calltip.
type FileStore struct {
	path   string
	logger Logger
}

// StoreOption configures a FileStore.
type StoreOption func(*FileStore)

// WithLogger sets the logger used to report recovered I/O failures.
func WithLogger(l Logger) StoreOption {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a store backed by path. The file is not touched
// until the first Load or Save.
func NewFileStore(path string, opts ...StoreOption) *FileStore {
	s := &FileStore{path: path, logger: nopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Colors implements Provider.
func (s *FileStore) Colors() Colors {
	return s.Load()
}

// Load reads the colours. When the file is missing or corrupt the defaults
// are returned and written back; a failed write is logged and ignored.
func (s *FileStore) Load() Colors {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("reading color settings %s: %v", s.path, err)
		}
		return s.restoreDefaults()
	}

	c, err := Decode(data)
	if err != nil {
		s.logger.Warn("color settings %s: %v", s.path, err)
		return s.restoreDefaults()
	}
	return c
}

// Save writes c to the file. Keys other than the colour keys are kept when
// the existing file is valid JSON.
func (s *FileStore) Save(c Colors) error {
	existing, err := os.ReadFile(s.path)
	if err != nil || !gjson.ValidBytes(existing) {
		existing = nil
	}

	data, err := Encode(existing, c)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data)
}

// Reset writes the default colours and returns them.
func (s *FileStore) Reset() (Colors, error) {
	c := Defaults()
	return c, s.Save(c)
}

func (s *FileStore) restoreDefaults() Colors {
	c := Defaults()
	if err := writeFileAtomic(s.path, mustEncode(c)); err != nil {
		s.logger.Warn("writing default color settings %s: %v", s.path, err)
	} else {
		s.logger.Debug("wrote default color settings to %s", s.path)
	}
	return c
}

// Decode parses a colour document.
func Decode(data []byte) (Colors, error) {
	if !gjson.ValidBytes(data) {
		return Colors{}, fmt.Errorf("%w: not valid JSON", ErrCorrupt)
	}
	bg, err := decodeTriple(data, KeyBackground, legacyKeyBackground)
	if err != nil {
		return Colors{}, err
	}
	text, err := decodeTriple(data, KeyText, legacyKeyText)
	if err != nil {
		return Colors{}, err
	}
	return Colors{Background: bg, Text: text}, nil
}

func decodeTriple(data []byte, key, legacy string) (RGB, error) {
	res := gjson.GetBytes(data, key)
	if !res.Exists() {
		res = gjson.GetBytes(data, legacy)
	}
	if !res.Exists() {
		return RGB{}, fmt.Errorf("%w: missing %s", ErrCorrupt, key)
	}
	if !res.IsArray() {
		return RGB{}, fmt.Errorf("%w: %s is not an array", ErrCorrupt, key)
	}

	var ints []int
	for _, v := range res.Array() {
		if v.Type != gjson.Number || v.Float() != float64(v.Int()) {
			return RGB{}, fmt.Errorf("%w: %s has non-integer component %s", ErrCorrupt, key, v.Raw)
		}
		ints = append(ints, int(v.Int()))
	}

	rgb, err := FromInts(ints)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return rgb, nil
}

// Encode sets the colour keys on base, which may be nil, and returns the
// indented document.
func Encode(base []byte, c Colors) ([]byte, error) {
	if len(base) == 0 {
		base = []byte("{}")
	}
	out, err := sjson.SetBytes(base, KeyBackground, c.Background.Ints())
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", KeyBackground, err)
	}
	out, err = sjson.SetBytes(out, KeyText, c.Text.Ints())
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", KeyText, err)
	}
	for _, legacy := range []string{legacyKeyBackground, legacyKeyText} {
		out, err = sjson.DeleteBytes(out, legacy)
		if err != nil {
			return nil, fmt.Errorf("removing %s: %w", legacy, err)
		}
	}
	return pretty.Pretty(out), nil
}

func mustEncode(c Colors) []byte {
	data, err := Encode(nil, c)
	if err != nil {
		panic(err)
	}
	return data
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".colors-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

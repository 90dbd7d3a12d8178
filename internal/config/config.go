// Package config loads the calltip application configuration.
//
// Settings are resolved in order, later sources overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. TOML file, $XDG_CONFIG_HOME/calltip/config.toml unless named explicitly
//  3. CALLTIP_* environment variables
//  4. Command line flags, applied by the caller
//
// Relative paths in a file are resolved against the file's directory and a
// leading "~/" is expanded to the home directory.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/calltip/internal/calltip"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "calltip"

// DefaultTrigger is the word that opens colour configuration.
const DefaultTrigger = "calltip_color_settings"

// Config holds the application settings.
type Config struct {
	// Catalog is the AutoComplete XML file.
	Catalog string `toml:"catalog"`
	// Colors is the JSON colour store.
	Colors string `toml:"colors"`
	// Language gates activation until the host reports this language.
	// Empty activates immediately.
	Language string `toml:"language"`
	// Trigger is the word that runs the colour configurator.
	Trigger string `toml:"trigger"`
	// WrapWidth is the calltip wrap column.
	WrapWidth int `toml:"wrap_width"`
	// ConfigureScript replaces the built-in colour script.
	ConfigureScript string `toml:"configure_script"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// WatchColors re-renders the tip when the colour file changes on disk.
	WatchColors bool `toml:"watch_colors"`
}

// Default returns the built-in settings.
func Default() *Config {
	dir := filepath.Join(xdg.ConfigHome, AppName)
	return &Config{
		Catalog:     filepath.Join(dir, "catalog.xml"),
		Colors:      filepath.Join(dir, "colors.json"),
		Trigger:     DefaultTrigger,
		WrapWidth:   calltip.DefaultWidth,
		LogLevel:    "info",
		WatchColors: true,
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// Load builds a Config from defaults, the file at path and the process
// environment. An empty path means DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(path, data); err != nil {
			return nil, err
		}
		cfg.resolvePaths(filepath.Dir(path))
	case errors.Is(err, os.ErrNotExist):
		if explicit {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the current settings. Relative paths are
// resolved against base.
func (c *Config) Parse(data []byte, base string) error {
	if err := c.decode("<input>", data); err != nil {
		return err
	}
	c.resolvePaths(base)
	return nil
}

func (c *Config) decode(path string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return parseError(path, err)
	}
	return nil
}

func parseError(path string, err error) error {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}

	var decErr *toml.DecodeError
	var strictErr *toml.StrictMissingError
	switch {
	case errors.As(err, &decErr):
		pe.Line, pe.Column = decErr.Position()
	case errors.As(err, &strictErr) && len(strictErr.Errors) > 0:
		first := strictErr.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = "unknown key " + strings.Join(first.Key(), ".")
	}
	return pe
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.Catalog, &c.Colors, &c.ConfigureScript} {
		*p = ExpandPath(*p, base)
	}
}

// ExpandPath expands a leading "~/" and makes relative paths absolute
// against base. Empty paths stay empty.
func ExpandPath(p, base string) string {
	switch {
	case p == "":
		return ""
	case p == "~":
		return xdg.Home
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(xdg.Home, p[2:])
	case filepath.IsAbs(p) || base == "":
		return p
	default:
		return filepath.Join(base, p)
	}
}

// Marshal encodes the settings as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Save writes the settings to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

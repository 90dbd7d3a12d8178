package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CATALOG", "COLORS", "LANGUAGE", "TRIGGER", "WRAP_WIDTH",
		"CONFIGURE_SCRIPT", "LOG_LEVEL", "WATCH_COLORS",
	} {
		name := EnvPrefix + k
		if v, ok := os.LookupEnv(name); ok {
			require.NoError(t, os.Unsetenv(name))
			t.Cleanup(func() { _ = os.Setenv(name, v) })
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, filepath.Join(xdg.ConfigHome, "calltip", "catalog.xml"), cfg.Catalog)
	assert.Equal(t, filepath.Join(xdg.ConfigHome, "calltip", "colors.json"), cfg.Colors)
	assert.Equal(t, DefaultTrigger, cfg.Trigger)
	assert.Equal(t, 70, cfg.WrapWidth)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.WatchColors)
	assert.Empty(t, cfg.Language)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
catalog = "lang/demo.xml"
colors = "/var/tmp/colors.json"
language = "udf - Demo"
wrap_width = 40
log_level = "debug"
watch_colors = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "lang", "demo.xml"), cfg.Catalog)
	assert.Equal(t, "/var/tmp/colors.json", cfg.Colors)
	assert.Equal(t, "udf - Demo", cfg.Language)
	assert.Equal(t, 40, cfg.WrapWidth)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.WatchColors)
	assert.Equal(t, DefaultTrigger, cfg.Trigger, "unset keys keep defaults")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadParseError(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", "catalog = \nwrap_width = 3\n")

	_, err := Load(path)
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, path, pe.Path)
	assert.Positive(t, pe.Line)
	assert.Contains(t, pe.Error(), path)
}

func TestLoadUnknownKey(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", "catalog = \"a.xml\"\ncolour = \"x\"\n")

	_, err := Load(path)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Message, "colour")
}

func TestLoadWrongType(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", "wrap_width = \"wide\"\n")

	_, err := Load(path)

	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestLoadValidates(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", "wrap_width = 0\nlog_level = \"loud\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "wrap_width")
	assert.Contains(t, err.Error(), "log_level")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CALLTIP_CATALOG":      "~/demo.xml",
		"CALLTIP_LANGUAGE":     "udf - Env",
		"CALLTIP_TRIGGER":      "palette",
		"CALLTIP_WRAP_WIDTH":   " 50 ",
		"CALLTIP_WATCH_COLORS": "false",
		"CALLTIP_LOG_LEVEL":    "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, filepath.Join(xdg.Home, "demo.xml"), cfg.Catalog)
	assert.Equal(t, "udf - Env", cfg.Language)
	assert.Equal(t, "palette", cfg.Trigger)
	assert.Equal(t, 50, cfg.WrapWidth)
	assert.False(t, cfg.WatchColors)
	assert.Equal(t, "", cfg.LogLevel, "empty values count as set")
	assert.Error(t, cfg.Validate())
}

func TestApplyEnvMalformed(t *testing.T) {
	env := map[string]string{
		"CALLTIP_WRAP_WIDTH":   "wide",
		"CALLTIP_WATCH_COLORS": "sometimes",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	err := cfg.ApplyEnv(lookup)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, ErrCodeTypeMismatch, ve.Code)
	assert.Equal(t, 70, cfg.WrapWidth)
	assert.True(t, cfg.WatchColors)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", "wrap_width = 40\n")
	t.Setenv("CALLTIP_WRAP_WIDTH", "30")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.WrapWidth)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
		code   ValidationErrorCode
	}{
		{"catalog", func(c *Config) { c.Catalog = " " }, "catalog", ErrCodeRequiredMissing},
		{"colors", func(c *Config) { c.Colors = "" }, "colors", ErrCodeRequiredMissing},
		{"width", func(c *Config) { c.WrapWidth = -1 }, "wrap_width", ErrCodeOutOfRange},
		{"level", func(c *Config) { c.LogLevel = "trace" }, "log_level", ErrCodeInvalidEnum},
		{"trigger", func(c *Config) { c.Trigger = "two words" }, "trigger", ErrCodePatternMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.key, ve.Key)
			assert.Equal(t, tt.code, ve.Code)
		})
	}
}

func TestValidateAcceptsEmptyTrigger(t *testing.T) {
	cfg := Default()
	cfg.Trigger = ""
	assert.NoError(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "", ExpandPath("", "/base"))
	assert.Equal(t, xdg.Home, ExpandPath("~", "/base"))
	assert.Equal(t, filepath.Join(xdg.Home, "a.xml"), ExpandPath("~/a.xml", "/base"))
	assert.Equal(t, "/abs/a.xml", ExpandPath("/abs/a.xml", "/base"))
	assert.Equal(t, filepath.Join("/base", "a.xml"), ExpandPath("a.xml", "/base"))
	assert.Equal(t, "a.xml", ExpandPath("a.xml", ""))
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Catalog = "/data/demo.xml"
	cfg.Language = "udf - Demo"
	cfg.WrapWidth = 55
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestParse(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Parse([]byte(`catalog = "x.xml"`), "/etc/calltip"))
	assert.Equal(t, "/etc/calltip/x.xml", cfg.Catalog)

	err := cfg.Parse([]byte(`catalog = [`), "")
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "<input>", pe.Path)
}

func TestValidationErrorCodeString(t *testing.T) {
	assert.Equal(t, "type_mismatch", ErrCodeTypeMismatch.String())
	assert.Equal(t, "required_missing", ErrCodeRequiredMissing.String())
	assert.Equal(t, "unknown", ValidationErrorCode(99).String())
}

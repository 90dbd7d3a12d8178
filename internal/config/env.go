package config

import (
	"errors"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CALLTIP_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides settings from CALLTIP_* variables. Empty values are
// treated as set. Malformed numbers and booleans are reported as
// ValidationErrors.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	strs := map[string]*string{
		"CATALOG":          &c.Catalog,
		"COLORS":           &c.Colors,
		"LANGUAGE":         &c.Language,
		"TRIGGER":          &c.Trigger,
		"CONFIGURE_SCRIPT": &c.ConfigureScript,
		"LOG_LEVEL":        &c.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	for _, p := range []*string{&c.Catalog, &c.Colors, &c.ConfigureScript} {
		*p = ExpandPath(*p, "")
	}

	var errs []error
	if v, ok := lookup(EnvPrefix + "WRAP_WIDTH"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, &ValidationError{
				Key: "wrap_width", Message: "not an integer", Value: v, Code: ErrCodeTypeMismatch,
			})
		} else {
			c.WrapWidth = n
		}
	}
	if v, ok := lookup(EnvPrefix + "WATCH_COLORS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, &ValidationError{
				Key: "watch_colors", Message: "not a boolean", Value: v, Code: ErrCodeTypeMismatch,
			})
		} else {
			c.WatchColors = b
		}
	}
	return errors.Join(errs...)
}

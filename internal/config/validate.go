package config

import (
	"errors"
	"strings"
	"unicode"
)

var logLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(key, msg string, value any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Key: key, Message: msg, Value: value, Code: code})
	}

	if strings.TrimSpace(c.Catalog) == "" {
		add("catalog", "required", c.Catalog, ErrCodeRequiredMissing)
	}
	if strings.TrimSpace(c.Colors) == "" {
		add("colors", "required", c.Colors, ErrCodeRequiredMissing)
	}
	if c.WrapWidth < 1 {
		add("wrap_width", "must be at least 1", c.WrapWidth, ErrCodeOutOfRange)
	}
	if !logLevels[strings.ToLower(c.LogLevel)] {
		add("log_level", "must be debug, info, warn or error", c.LogLevel, ErrCodeInvalidEnum)
	}
	if strings.IndexFunc(c.Trigger, unicode.IsSpace) >= 0 {
		add("trigger", "must be a single word", c.Trigger, ErrCodePatternMismatch)
	}

	return errors.Join(errs...)
}

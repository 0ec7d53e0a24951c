package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/tabview"
)

// ErrInvalidConfig is wrapped by every validation error
var ErrInvalidConfig = errors.New("invalid configuration")

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("%w: page_size must be at least 1, got %d", ErrInvalidConfig, c.PageSize)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("%w: history_limit must be at least 1, got %d", ErrInvalidConfig, c.HistoryLimit)
	}
	if _, err := tabview.ParseDelimiter(c.TxtDelimiter); err != nil {
		return fmt.Errorf("%w: txt_delimiter: %w", ErrInvalidConfig, err)
	}
	if len(c.TxtEncodings) == 0 {
		return fmt.Errorf("%w: txt_encodings must not be empty", ErrInvalidConfig)
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w: log_level must be one of %s, got %q",
			ErrInvalidConfig, strings.Join(logLevels, ", "), c.LogLevel)
	}
	return nil
}

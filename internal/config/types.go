// Package config provides configuration management for the tabview CLI.
//
// Values are layered from lowest to highest priority: built-in defaults,
// the YAML config file, TABVIEW_* environment variables and explicitly
// set command line flags.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/tabview"
)

// Default values
const (
	DefaultPageSize     = tabview.DefaultPageSize
	DefaultTxtDelimiter = "|"
	DefaultHistoryLimit = 10
	DefaultLogLevel     = "warn"
	DefaultHistoryFile  = "history.db"

	appDirName     = "tabview"
	envPrefix      = "TABVIEW_"
	userConfigName = "config.yaml"
)

// configNames are looked up in the working directory, in order
var configNames = []string{"tabview.yaml", "tabview.yml"}

// DefaultTxtEncodings are tried in order when a .txt file does not decode.
var DefaultTxtEncodings = []string{"utf-8", "iso-8859-1", "windows-1252", "latin1", "ascii"}

// Config holds all CLI configuration options.
type Config struct {
	PageSize          int      `koanf:"page_size"`
	TxtDelimiter      string   `koanf:"txt_delimiter"`
	TxtAutoInferTypes bool     `koanf:"txt_auto_infer_types"`
	TxtHeader         bool     `koanf:"txt_header"`
	TxtEncodings      []string `koanf:"txt_encodings"`
	HistoryPath       string   `koanf:"history_path"`
	HistoryLimit      int      `koanf:"history_limit"`
	LogLevel          string   `koanf:"log_level"`
	Verbose           bool     `koanf:"verbose"`
	Watch             bool     `koanf:"watch"`

	// FileUsed is the config file that was read, if any
	FileUsed string `koanf:"-"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		PageSize:          DefaultPageSize,
		TxtDelimiter:      DefaultTxtDelimiter,
		TxtAutoInferTypes: true,
		TxtHeader:         true,
		TxtEncodings:      append([]string(nil), DefaultTxtEncodings...),
		HistoryPath:       defaultHistoryPath(),
		HistoryLimit:      DefaultHistoryLimit,
		LogLevel:          DefaultLogLevel,
	}
}

// Level returns the slog level for the configuration. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// LoadOptions returns the load options for path. Files with the .txt
// extension use the configured delimiter, header and inference settings
// and the first configured encoding; other formats keep the defaults.
func (c *Config) LoadOptions(path string) (tabview.LoadOptions, error) {
	options := tabview.NewLoadOptions()
	if !IsTxtFile(path) {
		return options, nil
	}

	delimiter, err := tabview.ParseDelimiter(c.TxtDelimiter)
	if err != nil {
		return options, err
	}
	options = options.
		WithDelimiter(delimiter).
		WithHeader(c.TxtHeader).
		WithTypeInference(c.TxtAutoInferTypes)
	if len(c.TxtEncodings) > 0 {
		options = options.WithEncoding(c.TxtEncodings[0])
	}
	return options, nil
}

// IsTxtFile reports whether path is a .txt file, compressed or not.
func IsTxtFile(path string) bool {
	_, ext := tabview.SplitSourceName(path)
	ext = strings.ToLower(ext)
	return ext == "txt" || strings.HasPrefix(ext, "txt.")
}

// configDir returns the per-user tabview directory, or "" when unknown.
func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, appDirName)
}

func defaultHistoryPath() string {
	dir := configDir()
	if dir == "" {
		return DefaultHistoryFile
	}
	return filepath.Join(dir, DefaultHistoryFile)
}

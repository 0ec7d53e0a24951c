package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabview"
	"github.com/nao1215/tabview/internal/config"
	"github.com/nao1215/tabview/internal/history"
)

// loadFlags holds the load option flags shared by the commands that read a data file.
type loadFlags struct {
	format      string
	delimiter   string
	encoding    string
	compression string
	quoting     string
	noHeader    bool
	noInfer     bool
}

func (f *loadFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "", "Input format (csv|parquet|xlsx); detected from the extension by default")
	flags.StringVarP(&f.delimiter, "delimiter", "d", "", `Field delimiter, e.g. ";", "tab" or "pipe"`)
	flags.StringVar(&f.encoding, "encoding", "", "Character encoding of delimited text, e.g. iso-8859-1")
	flags.StringVar(&f.compression, "compression", "", "Input compression (none|gz|bz2|xz|zst); detected by default")
	flags.StringVar(&f.quoting, "quoting", "", "Quote handling (minimal|all|none)")
	flags.BoolVar(&f.noHeader, "no-header", false, "The first row holds data, not column names")
	flags.BoolVar(&f.noInfer, "no-infer", false, "Keep every text column untyped")
}

// options builds the load options for path: configured defaults first,
// then every flag the user set.
func (f *loadFlags) options(cmd *cobra.Command, cfg *config.Config, path string) (tabview.LoadOptions, error) {
	options, err := cfg.LoadOptions(path)
	if err != nil {
		return options, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		format, err := tabview.ParseFormat(f.format)
		if err != nil {
			return options, err
		}
		options = options.WithFormat(format)
	}
	if flags.Changed("delimiter") {
		delimiter, err := tabview.ParseDelimiter(f.delimiter)
		if err != nil {
			return options, err
		}
		options = options.WithDelimiter(delimiter)
	}
	if flags.Changed("encoding") {
		options = options.WithEncoding(f.encoding)
	}
	if flags.Changed("compression") {
		compression, err := tabview.ParseCompression(f.compression)
		if err != nil {
			return options, err
		}
		options = options.WithCompression(compression)
	}
	if flags.Changed("quoting") {
		quoting, err := tabview.ParseQuoting(f.quoting)
		if err != nil {
			return options, err
		}
		options = options.WithQuoting(quoting)
	}
	if flags.Changed("no-header") {
		options = options.WithHeader(!f.noHeader)
	}
	if flags.Changed("no-infer") {
		options = options.WithTypeInference(!f.noInfer)
	}
	return options, nil
}

// encodingsFor returns the encodings to try for path. An encoding given on
// the command line is the only candidate; .txt files otherwise fall back
// through the configured list.
func (f *loadFlags) encodingsFor(cmd *cobra.Command, cfg *config.Config, path string, options tabview.LoadOptions) []string {
	if cmd.Flags().Changed("encoding") || !config.IsTxtFile(path) {
		return []string{options.Encoding}
	}
	return cfg.TxtEncodings
}

// loadFile loads path into session, trying each encoding in turn while the
// text is invalid in it. A successful load is recorded in the history.
func loadFile(ctx context.Context, session *tabview.Session, path string, options tabview.LoadOptions, encodings []string) (*tabview.LoadResult, error) {
	logger := getLogger(ctx)

	var lastErr error
	for _, encoding := range encodings {
		result, err := session.Load(ctx, path, options.WithEncoding(encoding))
		if err == nil {
			recordRecent(ctx, path)
			return result, nil
		}
		lastErr = err
		if !errors.Is(err, tabview.ErrEncoding) {
			return nil, err
		}
		logger.Debug("invalid text for encoding, trying next",
			slog.String("path", path), slog.String("encoding", encoding), slog.Any("error", err))
	}
	if lastErr == nil {
		return nil, fmt.Errorf("no encoding to try for %s", path)
	}
	return nil, lastErr
}

// openFile loads the file named on the command line into a new session.
func openFile(cmd *cobra.Command, flags *loadFlags, path string) (*tabview.Session, *tabview.LoadResult, error) {
	ctx := cmd.Context()
	cfg := getConfig(ctx)

	options, err := flags.options(cmd, cfg, path)
	if err != nil {
		return nil, nil, err
	}

	session := tabview.NewSession(tabview.NewLoader(getLogger(ctx)), cfg.PageSize, getLogger(ctx))
	result, err := loadFile(ctx, session, path, options, flags.encodingsFor(cmd, cfg, path, options))
	if err != nil {
		return nil, nil, err
	}
	if result.SkippedRows > 0 {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped %d malformed row(s)\n", result.SkippedRows)
	}
	return session, result, nil
}

// openHistory opens the recent files store named by the configuration.
func openHistory(ctx context.Context) (*history.Store, error) {
	cfg := getConfig(ctx)
	return history.Open(ctx, cfg.HistoryPath, cfg.HistoryLimit, getLogger(ctx))
}

// recordRecent adds path to the history. Failures are logged, not returned.
func recordRecent(ctx context.Context, path string) {
	logger := getLogger(ctx)

	store, err := openHistory(ctx)
	if err != nil {
		logger.Warn("failed to open history", slog.Any("error", err))
		return
	}
	defer func() {
		_ = store.Close() // Ignore close error
	}()

	if err := store.Add(ctx, path); err != nil {
		logger.Warn("failed to record recent file", slog.String("path", path), slog.Any("error", err))
	}
}

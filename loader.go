package tabview

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/tabview/domain/model"
)

// LoadResult is a successfully loaded snapshot together with the
// warnings collected while decoding it.
type LoadResult struct {
	// Snapshot is the loaded table; it always has at least one row
	Snapshot *model.Snapshot
	// SkippedRows counts malformed rows that were dropped
	SkippedRows int
	// Path is the source path as given
	Path string
	// Format is the decoder that was used
	Format Format
	// Compression is the decompressor that was used
	Compression CompressionType
	// Options are the options the source was loaded with
	Options LoadOptions
}

// Load synchronously decodes the file at path into a snapshot.
//
// Errors are always *LoadError. Malformed rows do not fail the load; they
// are counted in LoadResult.SkippedRows. A source without data rows fails
// with kind LoadErrorEmpty.
func Load(ctx context.Context, path string, options LoadOptions) (*LoadResult, error) {
	return loadFile(ctx, slog.New(slog.DiscardHandler), path, options)
}

func loadFile(ctx context.Context, logger *slog.Logger, path string, options LoadOptions) (*LoadResult, error) {
	start := time.Now()

	if err := options.validate(); err != nil {
		return nil, newLoadError(LoadErrorUnsupportedFormat, path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, newLoadError(statErrorKind(err), path, err)
	}
	if info.IsDir() {
		return nil, newLoadError(LoadErrorUnsupportedFormat, path, errors.New("path is a directory"))
	}

	format := options.Format
	if format == FormatAuto {
		format = DetectFormat(path)
	}
	if format == FormatUnsupported {
		return nil, newLoadError(LoadErrorUnsupportedFormat, path, fmt.Errorf("unsupported file type: %s", path))
	}

	f, err := os.Open(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, newLoadError(statErrorKind(err), path, err)
	}
	defer func() {
		_ = f.Close() // Ignore close error
	}()

	buffered := bufio.NewReader(f)
	compression := resolveCompression(options.Compression, path, buffered)
	reader, closeReader, err := NewCompressionHandler(compression).CreateReader(buffered)
	if err != nil {
		return nil, newLoadError(LoadErrorDecode, path, err)
	}
	defer func() {
		_ = closeReader() // Ignore close error
	}()

	logger.Debug("decoding source",
		slog.String("path", path),
		slog.String("format", format.String()),
		slog.String("compression", compression.String()))

	table, err := decode(ctx, reader, path, format, options)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, loadErr
		}
		return nil, newLoadError(LoadErrorDecode, path, err)
	}

	if len(table.records) == 0 {
		return nil, newLoadError(LoadErrorEmpty, path, ErrEmpty)
	}

	snapshot, err := model.NewSnapshot(SourceIdentifier(path), table.header, table.types, table.records)
	if err != nil {
		return nil, newLoadError(LoadErrorDecode, path, err)
	}

	if table.skipped > 0 {
		logger.Warn("skipped malformed rows",
			slog.String("path", path),
			slog.Int("skipped", table.skipped))
	}
	logger.Info("loaded source",
		slog.String("path", path),
		slog.Int("rows", snapshot.NumRows()),
		slog.Int("columns", snapshot.NumColumns()),
		slog.Duration("elapsed", time.Since(start)))

	return &LoadResult{
		Snapshot:    snapshot,
		SkippedRows: table.skipped,
		Path:        path,
		Format:      format,
		Compression: compression,
		Options:     options,
	}, nil
}

// decode dispatches to the decoder for format.
func decode(ctx context.Context, reader io.Reader, path string, format Format, options LoadOptions) (*decodedTable, error) {
	switch format {
	case FormatColumnar:
		return parseParquet(ctx, reader)
	case FormatSpreadsheet:
		return parseSpreadsheet(reader, options)
	case FormatDelimited:
		enc, err := lookupEncoding(options.Encoding)
		if err != nil {
			return nil, newLoadError(LoadErrorUnsupportedFormat, path, err)
		}
		return newDelimitedParser(path, options).parse(ctx, decodeReader(reader, enc))
	default:
		return nil, newLoadError(LoadErrorUnsupportedFormat, path, fmt.Errorf("unsupported format: %s", format))
	}
}

// statErrorKind classifies errors from os.Stat and os.Open.
func statErrorKind(err error) LoadErrorKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return LoadErrorNotFound
	case errors.Is(err, fs.ErrPermission):
		return LoadErrorPermissionDenied
	default:
		return LoadErrorDecode
	}
}

// LoadOutcome is the single completion notification of an asynchronous load.
// Exactly one of Result and Err is set.
type LoadOutcome struct {
	Generation uint64
	RequestID  string
	Result     *LoadResult
	Err        error
}

// Ticket tracks one asynchronous load started by Loader.Start.
type Ticket struct {
	// Generation orders loads; a higher generation supersedes lower ones
	Generation uint64
	// RequestID identifies the load in log output
	RequestID string
	done      chan LoadOutcome
}

// Done returns a channel that receives the outcome exactly once.
// Done and Wait share the same notification; consume it only once.
func (t *Ticket) Done() <-chan LoadOutcome {
	return t.done
}

// Wait blocks until the load completes or ctx is done.
func (t *Ticket) Wait(ctx context.Context) (LoadOutcome, error) {
	select {
	case outcome := <-t.done:
		return outcome, nil
	case <-ctx.Done():
		return LoadOutcome{}, ctx.Err()
	}
}

// loadFunc performs one synchronous load
type loadFunc func(ctx context.Context, logger *slog.Logger, path string, options LoadOptions) (*LoadResult, error)

// Loader runs loads in the background with last-requested-wins semantics.
// Starting a load cancels the one in flight and makes its outcome stale.
type Loader struct {
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	onComplete func(LoadOutcome)
	logger     *slog.Logger
	load       loadFunc
}

// NewLoader creates a Loader. A nil logger discards log output.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		logger: logger,
		load:   loadFile,
	}
}

// SetOnComplete registers fn to be called with the outcome of every load
// that is still the latest when it completes. Stale outcomes are only
// delivered through their ticket.
func (l *Loader) SetOnComplete(fn func(LoadOutcome)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onComplete = fn
}

// Start begins loading path on a new goroutine and returns immediately.
func (l *Loader) Start(ctx context.Context, path string, options LoadOptions) *Ticket {
	loadCtx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	ticket := &Ticket{
		Generation: l.generation,
		RequestID:  uuid.NewString(),
		done:       make(chan LoadOutcome, 1),
	}
	l.cancel = cancel
	load := l.load
	l.mu.Unlock()

	logger := l.logger.With(
		slog.String("request_id", ticket.RequestID),
		slog.Uint64("generation", ticket.Generation))
	logger.Debug("load started", slog.String("path", path))

	go func() {
		defer cancel()

		result, err := load(loadCtx, logger, path, options)
		outcome := LoadOutcome{
			Generation: ticket.Generation,
			RequestID:  ticket.RequestID,
			Result:     result,
			Err:        err,
		}
		ticket.done <- outcome

		l.mu.Lock()
		current := l.generation == ticket.Generation
		onComplete := l.onComplete
		l.mu.Unlock()

		if !current {
			logger.Debug("load superseded", slog.String("path", path))
			return
		}
		if err != nil {
			logger.Warn("load failed", slog.String("path", path), slog.Any("error", err))
		}
		if onComplete != nil {
			onComplete(outcome)
		}
	}()

	return ticket
}

// Latest returns the generation of the most recently started load.
func (l *Loader) Latest() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// IsCurrent reports whether generation belongs to the most recent load.
func (l *Loader) IsCurrent(generation uint64) bool {
	return l.Latest() == generation
}

// Cancel aborts the load in flight, if any, and makes its outcome stale.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.generation++
}

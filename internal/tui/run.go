package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nao1215/tabview"
)

// Options configure Run.
type Options struct {
	// Session is the loaded session to browse
	Session *tabview.Session
	// Watch reloads the file whenever it changes on disk
	Watch bool
	// Logger receives diagnostics; it must not write to the terminal the
	// browser draws on
	Logger *slog.Logger
}

// Run starts the browser and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	if opts.Session == nil || opts.Session.Snapshot() == nil {
		return tabview.ErrNoSource
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes <-chan struct{}
	if opts.Watch {
		watcher, err := watchFile(ctx, opts.Session.Path(), logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = watcher.Close() // Ignore close error
		}()
		changes = watcher.Changes()
	}

	p := tea.NewProgram(
		NewModel(ctx, opts.Session, changes, logger),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

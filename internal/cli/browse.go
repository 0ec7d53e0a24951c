package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabview/internal/tui"
)

type browseOptions struct {
	load    loadFlags
	watch   bool
	logFile string
}

func newBrowseCommand() *cobra.Command {
	opts := &browseOptions{}

	cmd := &cobra.Command{
		Use:   "browse FILE",
		Short: "Browse a data file interactively",
		Long: `Open a data file in an interactive table browser.

Page with the arrow keys, press / to search all columns and r to reload the
file. With --watch the file is reloaded whenever it changes on disk.

The browser owns the terminal, so diagnostics are discarded unless
--log-file names a file to write them to.`,
		Example: `  # Browse a Parquet file
  tabview browse events.parquet

  # Follow a CSV file that another program rewrites
  tabview browse report.csv --watch --log-file /tmp/tabview.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts, args[0])
		},
	}

	opts.load.register(cmd)
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload the file when it changes")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write diagnostics to this file")

	return cmd
}

func runBrowse(cmd *cobra.Command, opts *browseOptions, path string) error {
	ctx := cmd.Context()
	cfg := getConfig(ctx)

	logger := slog.New(slog.DiscardHandler)
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path is chosen by the user
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			_ = f.Close() // Ignore close error
		}()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Level()}))
	}
	// The session keeps logging while the browser draws.
	cmd.SetContext(context.WithValue(ctx, loggerKey{}, logger))

	session, _, err := openFile(cmd, &opts.load, path)
	if err != nil {
		return err
	}

	watch := cfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.watch
	}

	return tui.Run(cmd.Context(), tui.Options{
		Session: session,
		Watch:   watch,
		Logger:  logger,
	})
}

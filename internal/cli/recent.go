package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newRecentCommand() *cobra.Command {
	var remove []string

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened files",
		Long: `List the files opened most recently, newest first.

Files that no longer exist are hidden but remembered, so they reappear
when the file comes back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close() // Ignore close error
			}()

			for _, path := range remove {
				if err := store.Remove(ctx, path); err != nil {
					return err
				}
			}

			entries, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(no recent files)")
				return nil
			}

			t := newTableWriter(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Path", "Opened"})
			for i, e := range entries {
				t.AppendRow(table.Row{i + 1, e.Path, e.OpenedAt.Local().Format("2006-01-02 15:04:05")})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&remove, "remove", nil, "Forget these paths before listing")
	return cmd
}

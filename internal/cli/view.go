package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

type viewOptions struct {
	load   loadFlags
	search string
	page   int
	last   bool
	output string
}

func newViewCommand() *cobra.Command {
	opts := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Print one page of a data file",
		Long: `Load a data file and print one page of rows.

Rows can be filtered with --search: a row is shown when any of its cells
contains the term, ignoring case. Pages are numbered from 1.`,
		Example: `  # First page of a CSV file
  tabview view sales.csv

  # Third page of 20 rows each
  tabview view sales.csv.gz --page 3 --page-size 20

  # Rows mentioning "tokyo" from a pipe separated text file
  tabview view export.txt -d pipe --search tokyo

  # Markdown output for pasting into documents
  tabview view data.parquet --output markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, args[0])
		},
	}

	opts.load.register(cmd)
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Only show rows containing this text")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page number to print")
	cmd.Flags().BoolVar(&opts.last, "last", false, "Print the last page")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "Output format (table|markdown|csv)")

	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runView(cmd *cobra.Command, opts *viewOptions, path string) error {
	output := strings.ToLower(opts.output)
	if !slices.Contains(outputFormats, output) {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	session, _, err := openFile(cmd, &opts.load, path)
	if err != nil {
		return err
	}

	session.Search(opts.search)
	if opts.last {
		session.Last()
	} else {
		session.GoTo(opts.page - 1)
	}

	renderPage(cmd.OutOrStdout(), session.CurrentPage(), output)
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/tabview"
)

// ErrSchemasDiffer is returned by compare --fail-on-diff when differences exist
var ErrSchemasDiffer = errors.New("schemas differ")

type compareOptions struct {
	failOnDiff bool
}

func newCompareCommand() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare FIRST.json SECOND.json",
		Short: "Compare two serialized schemas",
		Long: `Compare two schema files written by "tabview schema --json".

Four kinds of differences are reported: columns only in the first file,
columns only in the second file, columns whose semantic type differs and
columns whose position among the shared columns differs. Adding or
removing a column does not by itself move the others.`,
		Example: `  # Compare yesterday's schema with today's
  tabview compare sales_2024-05-01_schema.json sales_2024-05-02_schema.json

  # Exit with status 1 when the schemas differ
  tabview compare a.json b.json --fail-on-diff`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&opts.failOnDiff, "fail-on-diff", false, "Return an error when the schemas differ")
	return cmd
}

func runCompare(cmd *cobra.Command, opts *compareOptions, firstPath, secondPath string) error {
	schemas, err := readSchemas(firstPath, secondPath)
	if err != nil {
		return err
	}
	first, second := schemas[0], schemas[1]

	diff := tabview.CompareSchemas(first, second)
	_, _ = fmt.Fprint(cmd.OutOrStdout(), diff.Report(first, second))

	if opts.failOnDiff && diff.HasDifferences() {
		return fmt.Errorf("%w: %d difference(s)", ErrSchemasDiffer, diff.TotalDifferences())
	}
	return nil
}

// readSchemas reads the schema files concurrently, keeping argument order.
func readSchemas(paths ...string) ([]*tabview.SerializedSchema, error) {
	schemas := make([]*tabview.SerializedSchema, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			schema, err := tabview.ReadSerializedSchemaFile(path)
			if err != nil {
				return err
			}
			schemas[i] = schema
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return schemas, nil
}

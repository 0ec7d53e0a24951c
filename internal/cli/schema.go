package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabview"
)

type schemaOptions struct {
	load   loadFlags
	json   string
	xlsx   string
	output string
}

func newSchemaCommand() *cobra.Command {
	opts := &schemaOptions{}

	cmd := &cobra.Command{
		Use:   "schema FILE",
		Short: "Extract the column schema of a data file",
		Long: `Load a data file and describe its columns: the name, the native type
tag and the semantic type of each column.

Without --json or --xlsx the schema is printed. Passing an empty value,
e.g. --json "", writes next to the data file as <name>_schema.json.`,
		Example: `  # Print the schema
  tabview schema sales.parquet

  # Save it as JSON for a later compare
  tabview schema sales.parquet --json sales_schema.json

  # Save it as an Excel sheet named after the data file
  tabview schema sales.csv --xlsx ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, opts, args[0])
		},
	}

	opts.load.register(cmd)
	cmd.Flags().StringVar(&opts.json, "json", "", "Write the schema as JSON to this path")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "Write the schema as an Excel sheet to this path")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "Output format when printing (table|markdown|csv)")

	return cmd
}

func runSchema(cmd *cobra.Command, opts *schemaOptions, path string) error {
	output := strings.ToLower(opts.output)
	if !slices.Contains(outputFormats, output) {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	_, result, err := openFile(cmd, &opts.load, path)
	if err != nil {
		return err
	}
	schema := tabview.ExtractSchema(result.Snapshot)

	flags := cmd.Flags()
	if !flags.Changed("json") && !flags.Changed("xlsx") {
		renderSchema(cmd.OutOrStdout(), schema, output)
		return nil
	}

	if flags.Changed("json") {
		target := outputPath(opts.json, path, "_schema.json")
		serialized := tabview.ToSerialized(schema, tabview.SourceIdentifier(path), time.Now())
		if err := tabview.WriteSerializedSchemaFile(target, serialized); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", target)
	}
	if flags.Changed("xlsx") {
		target := outputPath(opts.xlsx, path, "_schema.xlsx")
		if err := tabview.WriteSchemaXLSXFile(target, schema); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", target)
	}
	return nil
}

// outputPath returns explicit, or <dir>/<name><suffix> next to the data file.
func outputPath(explicit, dataPath, suffix string) string {
	if explicit != "" {
		return explicit
	}
	name, _ := tabview.SplitSourceName(dataPath)
	return filepath.Join(filepath.Dir(dataPath), name+suffix)
}

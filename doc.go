// Package tabview loads tabular files into immutable snapshots and provides
// the views a table viewer is built from: a full-table search filter, a
// pagination window over the filtered rows, and schema extraction and
// comparison.
//
// tabview reads Parquet, CSV, TSV and delimited text, and the first sheet of
// Excel (XLSX) workbooks. Loads run in the background; only the most
// recently requested load can replace what is on screen.
//
// # Features
//
//   - Parquet, CSV, TSV, delimited text and XLSX sources
//   - Automatic handling of compressed files (gzip, bzip2, xz, zstandard)
//   - Configurable delimiter, character encoding, header row and quoting
//   - Type inference for text sources; malformed rows are skipped and counted
//   - Case-insensitive substring search across every column
//   - Pagination with clamped navigation
//   - Schema extraction to JSON or XLSX, and a four-way schema diff
//   - CSV and Parquet export with head, tail and random row selection
//
// # Basic Usage
//
// Load a file synchronously and page through it with a Session:
//
//	session := tabview.NewSession(nil, tabview.DefaultPageSize, nil)
//	result, err := session.Load(ctx, "sales.csv.gz", tabview.NewLoadOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("skipped rows:", result.SkippedRows)
//
//	session.Search("berlin")
//	page := session.CurrentPage()
//	for _, row := range page.Rows {
//	    fmt.Println(row.Cells)
//	}
//
// # Background Loading
//
// Loader.Start returns at once. Starting another load cancels the one in
// flight, and Session.Apply ignores outcomes of superseded loads:
//
//	loader := tabview.NewLoader(logger)
//	session := tabview.NewSession(loader, 50, logger)
//	loader.SetOnComplete(func(outcome tabview.LoadOutcome) {
//	    if _, err := session.Apply(outcome); err != nil {
//	        logger.Error("load failed", "error", err)
//	    }
//	})
//	session.Open(ctx, "big.parquet", tabview.NewLoadOptions())
//
// # Delimited Text
//
// The delimiter defaults to a comma, or a tab for ".tsv" files:
//
//	options := tabview.NewLoadOptions().
//	    WithDelimiter('|').
//	    WithEncoding("windows-1252").
//	    WithHeader(false)
//
// Without a header row columns are named col1..colN. Rows whose field count
// differs from the first row are skipped and reported in
// LoadResult.SkippedRows.
//
// # Schemas
//
// A schema lists every column with its native type and a semantic type
// (integer, double, string, boolean or timestamp):
//
//	schema := tabview.ExtractSchema(result.Snapshot)
//	serialized := tabview.ToSerialized(schema, tabview.SourceIdentifier(path), time.Now())
//	err := tabview.WriteSerializedSchemaFile("sales_schema.json", serialized)
//
// Two serialized schemas are compared with CompareSchemas. Column order is
// compared among the columns both schemas share, so one added column does
// not mark every later column as moved.
//
// # Error Handling
//
// Load failures are *LoadError values and match ErrNotFound,
// ErrPermissionDenied, ErrUnsupportedFormat, ErrDecode or ErrEmpty with
// errors.Is. Unusable schema files yield *SchemaError, matching
// ErrMalformedSchema.
package tabview

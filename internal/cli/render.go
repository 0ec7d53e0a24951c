package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nao1215/tabview"
)

// Output styles accepted by --output
const (
	outputTable    = "table"
	outputMarkdown = "markdown"
	outputCSV      = "csv"
)

var outputFormats = []string{outputTable, outputMarkdown, outputCSV}

func newTableWriter(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func headerRow(columns []string) table.Row {
	row := make(table.Row, len(columns))
	for i, col := range columns {
		row[i] = col
	}
	return row
}

func render(t table.Writer, format string) {
	switch format {
	case outputMarkdown:
		t.RenderMarkdown()
	case outputCSV:
		t.RenderCSV()
	default:
		t.Render()
	}
}

// renderPage writes one page of rows. Rows are numbered from 1 in snapshot order.
func renderPage(w io.Writer, page tabview.Page, format string) {
	if len(page.Rows) == 0 {
		if page.Term != "" {
			_, _ = fmt.Fprintf(w, "(no rows match %q)\n", page.Term)
		} else {
			_, _ = fmt.Fprintln(w, "(0 rows)")
		}
		return
	}

	t := newTableWriter(w)
	t.AppendHeader(append(table.Row{"#"}, headerRow(page.Columns)...))
	for _, r := range page.Rows {
		row := make(table.Row, 0, len(r.Cells)+1)
		row = append(row, r.Index+1)
		for _, cell := range r.Cells {
			row = append(row, cell)
		}
		t.AppendRow(row)
	}
	render(t, format)

	if format == outputTable {
		_, _ = fmt.Fprintln(w, page.String())
	}
}

// renderSchema writes the schema as a three column table.
func renderSchema(w io.Writer, schema []tabview.ColumnSchema, format string) {
	t := newTableWriter(w)
	t.AppendHeader(table.Row{"#", tabview.HeaderColumnName, tabview.HeaderNativeType, tabview.HeaderSemanticType})
	for i, column := range schema {
		t.AppendRow(table.Row{i + 1, column.Name, column.NativeType, column.SemanticType})
	}
	render(t, format)
}

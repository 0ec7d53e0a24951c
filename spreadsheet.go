package tabview

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/tabview/domain/model"
)

// parseSpreadsheet decodes the first sheet of an XLSX workbook.
// Short rows are padded with empty cells; rows wider than the header
// are skipped and counted.
func parseSpreadsheet(reader io.Reader, options LoadOptions) (*decodedTable, error) {
	xlsxFile, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, errors.New("no sheets found in XLSX file")
	}

	sheetName := sheetNames[0]
	iter, err := xlsxFile.Rows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to open rows iterator for sheet %s: %w", sheetName, err)
	}
	defer func() {
		_ = iter.Close()
	}()

	table := &decodedTable{}
	width := -1
	for iter.Next() {
		row, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row in sheet %s: %w", sheetName, err)
		}

		// Skip empty rows
		if len(row) == 0 {
			continue
		}

		if width < 0 {
			width = len(row)
			if options.HeaderPresent {
				table.header = normalizeHeader(row)
				continue
			}
			table.header = generatedHeader(width)
		}

		if len(row) > width {
			table.skipped++
			continue
		}
		record := make(model.Record, width)
		copy(record, row)
		table.records = append(table.records, record)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate sheet %s: %w", sheetName, err)
	}

	if options.TypeInference {
		table.types = model.InferNativeTypes(len(table.header), table.records)
	}
	return table, nil
}

package tabview

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// schemaSheet is the sheet name of schema workbooks
const schemaSheet = "Sheet1"

// WriteSchemaXLSX writes schema as a workbook with the columns
// "Column Name", "Pandas Type" and "Spark Type".
func WriteSchemaXLSX(w io.Writer, schema []ColumnSchema) error {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close() // Ignore close error
	}()

	header := []any{HeaderColumnName, HeaderNativeType, HeaderSemanticType}
	if err := file.SetSheetRow(schemaSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write schema header: %w", err)
	}

	for i, column := range schema {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{column.Name, column.NativeType, column.SemanticType.String()}
		if err := file.SetSheetRow(schemaSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write schema row %d: %w", i+1, err)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteSchemaXLSXFile writes a schema workbook to path.
func WriteSchemaXLSXFile(path string, schema []ColumnSchema) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return NewErrorContext("write schema", path).Error(err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := WriteSchemaXLSX(f, schema); err != nil {
		return NewErrorContext("write schema", path).Error(err)
	}
	return nil
}

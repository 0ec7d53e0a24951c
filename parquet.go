package tabview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"

	"github.com/nao1215/tabview/domain/model"
)

// parquetBatchSize is the number of rows converted per record batch
const parquetBatchSize = 1024

// parseParquet decodes a Parquet file, preserving the on-disk column order.
func parseParquet(ctx context.Context, reader io.Reader) (*decodedTable, error) {
	// Parquet requires random access
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty parquet file")
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	tbl, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer tbl.Release()

	schema := tbl.Schema()
	header := make(model.Header, schema.NumFields())
	types := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
		types[i] = arrowNativeType(field.Type)
	}

	tableReader := array.NewTableReader(tbl, parquetBatchSize)
	defer tableReader.Release()

	records := make([]model.Record, 0, tbl.NumRows())
	for tableReader.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch := tableReader.Record()
		numRows := int(batch.NumRows())
		for i := range numRows {
			row := make(model.Record, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = arrowCellString(col, i)
			}
			records = append(records, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}

	return &decodedTable{header: header, types: types, records: records}, nil
}

// arrowCellString renders a single cell. Nulls render as the empty string.
func arrowCellString(col arrow.Array, i int) string {
	if col.IsNull(i) {
		return ""
	}
	return col.ValueStr(i)
}

// arrowNativeType maps an Arrow data type to a native type tag.
func arrowNativeType(dt arrow.DataType) string {
	switch dt.ID() {
	case arrow.INT8:
		return "int8"
	case arrow.INT16:
		return "int16"
	case arrow.INT32:
		return "int32"
	case arrow.INT64:
		return model.NativeInt64
	case arrow.UINT8:
		return "uint8"
	case arrow.UINT16:
		return "uint16"
	case arrow.UINT32:
		return "uint32"
	case arrow.UINT64:
		return "uint64"
	case arrow.FLOAT16:
		return "float16"
	case arrow.FLOAT32:
		return "float32"
	case arrow.FLOAT64:
		return model.NativeFloat64
	case arrow.BOOL:
		return model.NativeBool
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return model.NativeDatetime
	default:
		return model.NativeObject
	}
}

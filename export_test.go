package tabview

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/tabview/domain/model"
)

func exportSnapshot(t *testing.T, rows int) *model.Snapshot {
	t.Helper()

	records := make([]model.Record, rows)
	for i := range records {
		records[i] = model.Record{strconv.Itoa(i), "user-" + strconv.Itoa(i), "secret"}
	}
	snapshot, err := model.NewSnapshot("users.csv", model.Header{"id", "name", "password"},
		[]string{model.NativeInt64, model.NativeObject, model.NativeObject}, records)
	require.NoError(t, err)
	return snapshot
}

func exportedIDs(t *testing.T, output string) []string {
	t.Helper()

	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	require.NotEmpty(t, lines)
	ids := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		ids = append(ids, strings.SplitN(line, ",", 2)[0])
	}
	return ids
}

func TestParseExtractMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected ExtractMode
		wantErr  bool
	}{
		{input: "", expected: ExtractAll},
		{input: "ALL", expected: ExtractAll},
		{input: "head", expected: ExtractHead},
		{input: " tail ", expected: ExtractTail},
		{input: "random", expected: ExtractRandom},
		{input: "sample", expected: ExtractRandom},
		{input: "middle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseExtractMode(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseExcludeList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"password", "token"}, ParseExcludeList(" password, ,token,"))
	assert.Empty(t, ParseExcludeList(""))
}

func TestExportCSV_Extract(t *testing.T) {
	t.Parallel()

	snapshot := exportSnapshot(t, 10)
	tests := []struct {
		name     string
		options  ExportOptions
		expected []string
	}{
		{
			name:     "all",
			options:  NewExportOptions(),
			expected: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
		},
		{
			name:     "head",
			options:  NewExportOptions().WithExtract(ExtractHead, 3),
			expected: []string{"0", "1", "2"},
		},
		{
			name:     "tail",
			options:  NewExportOptions().WithExtract(ExtractTail, 3),
			expected: []string{"7", "8", "9"},
		},
		{
			name:     "head larger than table",
			options:  NewExportOptions().WithExtract(ExtractHead, 50),
			expected: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
		},
		{
			name:     "tail of zero rows",
			options:  NewExportOptions().WithExtract(ExtractTail, 0),
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, ExportCSV(&buf, snapshot, tt.options))
			assert.True(t, strings.HasPrefix(buf.String(), "id,name,password\n"))
			assert.Equal(t, tt.expected, exportedIDs(t, buf.String()))
		})
	}
}

func TestExportCSV_Random(t *testing.T) {
	t.Parallel()

	snapshot := exportSnapshot(t, 100)
	export := func(seed uint64) []string {
		var buf bytes.Buffer
		options := NewExportOptions().
			WithExtract(ExtractRandom, 10).
			WithRand(rand.New(rand.NewPCG(seed, seed)))
		require.NoError(t, ExportCSV(&buf, snapshot, options))
		return exportedIDs(t, buf.String())
	}

	first := export(42)
	require.Len(t, first, 10)
	assert.Equal(t, first, export(42), "the same seed selects the same rows")

	previous := -1
	for _, id := range first {
		n, err := strconv.Atoi(id)
		require.NoError(t, err)
		assert.Greater(t, n, previous, "rows keep file order")
		previous = n
	}
}

func TestExportCSV_ExcludeAndDelimiter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	options := NewExportOptions().
		WithExtract(ExtractHead, 2).
		WithExclude("password", "unknown").
		WithDelimiter('\t')
	require.NoError(t, ExportCSV(&buf, exportSnapshot(t, 5), options))
	assert.Equal(t, "id\tname\n0\tuser-0\n1\tuser-1\n", buf.String())
}

func TestExportCSV_RejectsAutoCompression(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := ExportCSV(&buf, exportSnapshot(t, 1), NewExportOptions().WithCompression(CompressionAuto))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportCSVFile_Compressed(t *testing.T) {
	t.Parallel()

	compressions := []CompressionType{CompressionGZ, CompressionXZ, CompressionZSTD}
	for _, compression := range compressions {
		t.Run(compression.String(), func(t *testing.T) {
			t.Parallel()

			base := filepath.Join(t.TempDir(), "users.csv")
			options := NewExportOptions().WithExtract(ExtractHead, 3).WithCompression(compression)

			written, err := ExportCSVFile(base, exportSnapshot(t, 10), options)
			require.NoError(t, err)
			assert.Equal(t, base+compression.Extension(), written)

			f, err := os.Open(written) //nolint:gosec // test fixture
			require.NoError(t, err)
			defer func() {
				_ = f.Close()
			}()

			reader, closeReader, err := NewCompressionHandler(compression).CreateReader(f)
			require.NoError(t, err)
			defer func() {
				_ = closeReader()
			}()
			data, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, "id,name,password\n0,user-0,secret\n1,user-1,secret\n2,user-2,secret\n", string(data))

			// the export loads back through automatic detection
			result, err := Load(context.Background(), written, NewLoadOptions())
			require.NoError(t, err)
			assert.Equal(t, 3, result.Snapshot.NumRows())
			assert.Equal(t, compression, result.Compression)
		})
	}
}

func TestExportParquetFile_RoundTrip(t *testing.T) {
	t.Parallel()

	snapshot, err := model.NewSnapshot("mixed.csv",
		model.Header{"id", "score", "active", "born", "note"},
		[]string{model.NativeInt64, model.NativeFloat64, model.NativeBool, model.NativeDatetime, model.NativeObject},
		[]model.Record{
			{"1", "1.5", "true", "2024-01-02 03:04:05", "first"},
			{"2", "oops", "false", "2024-02-03", ""},
			{"3", "2.25", "true", "not a date", "third"},
		},
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mixed.parquet")
	require.NoError(t, ExportParquetFile(path, snapshot, NewExportOptions().WithExclude("note")))

	result, err := Load(context.Background(), path, NewLoadOptions())
	require.NoError(t, err)

	loaded := result.Snapshot
	assert.Equal(t, model.Header{"id", "score", "active", "born"}, loaded.Columns())
	assert.Equal(t, []string{"int64", "float64", "bool", "datetime64[ns]"}, loaded.NativeTypes())
	assert.Equal(t, 3, loaded.NumRows())

	assert.Equal(t, "2", loaded.Cell(1, 0))
	assert.Equal(t, "1.5", loaded.Cell(0, 1))
	assert.Empty(t, loaded.Cell(1, 1), "unparseable numbers are written as nulls")
	assert.Equal(t, "false", loaded.Cell(1, 2))
	assert.NotEmpty(t, loaded.Cell(0, 3))
	assert.Empty(t, loaded.Cell(2, 3), "unparseable dates are written as nulls")

	schemaBefore := ExtractSchema(snapshot)[:4]
	assert.Equal(t, schemaBefore, ExtractSchema(loaded))
}

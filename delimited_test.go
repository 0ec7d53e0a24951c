package tabview

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/tabview/domain/model"
)

func parseText(t *testing.T, p *delimitedParser, text string) *decodedTable {
	t.Helper()

	table, err := p.parse(context.Background(), strings.NewReader(text))
	require.NoError(t, err)
	return table
}

func TestDelimitedParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("header and inferred types", func(t *testing.T) {
		t.Parallel()

		p := &delimitedParser{delimiter: ',', header: true, infer: true}
		table := parseText(t, p, "id,name,score,active\n1,alice,9.5,true\n2,bob,7,false\n")

		assert.Equal(t, model.Header{"id", "name", "score", "active"}, table.header)
		assert.Equal(t, []string{model.NativeInt64, model.NativeObject, model.NativeFloat64, model.NativeBool}, table.types)
		require.Len(t, table.records, 2)
		assert.Equal(t, model.Record{"2", "bob", "7", "false"}, table.records[1])
		assert.Zero(t, table.skipped)
	})

	t.Run("without header columns are generated", func(t *testing.T) {
		t.Parallel()

		p := &delimitedParser{delimiter: '|', header: false}
		table := parseText(t, p, "1|a|x\n2|b|y\n")

		assert.Equal(t, model.Header{"col1", "col2", "col3"}, table.header)
		assert.Len(t, table.records, 2)
		assert.Nil(t, table.types)
	})

	t.Run("wrong field counts are skipped", func(t *testing.T) {
		t.Parallel()

		p := &delimitedParser{delimiter: ',', header: true}
		table := parseText(t, p, "a,b\n1,2\n1,2,3\n4\n5,6\n")

		assert.Equal(t, []model.Record{{"1", "2"}, {"5", "6"}}, table.records)
		assert.Equal(t, 2, table.skipped)
	})

	t.Run("quoted fields keep delimiters and newlines", func(t *testing.T) {
		t.Parallel()

		p := &delimitedParser{delimiter: ',', quoting: QuoteMinimal, header: true}
		table := parseText(t, p, "name,note\n\"Smith, J\",\"line1\nline2\"\n")

		require.Len(t, table.records, 1)
		assert.Equal(t, model.Record{"Smith, J", "line1\nline2"}, table.records[0])
	})

	t.Run("quote none keeps quotes literally", func(t *testing.T) {
		t.Parallel()

		p := &delimitedParser{delimiter: ',', quoting: QuoteNone, header: true}
		table := parseText(t, p, "name,note\r\n\"Smith, J\",x\r\n\"ok\",y\r\n\r\n")

		// the first data line splits into three fields and is skipped
		assert.Equal(t, []model.Record{{`"ok"`, "y"}}, table.records)
		assert.Equal(t, 1, table.skipped)
	})

	t.Run("quotes inside unquoted fields are data", func(t *testing.T) {
		t.Parallel()

		p := &delimitedParser{delimiter: ',', quoting: QuoteMinimal, header: true}
		table := parseText(t, p, "id,desc\n1,5\" screen\n2,plain\n3,x\"y\"z\n")

		assert.Equal(t, []model.Record{{"1", `5" screen`}, {"2", "plain"}, {"3", `x"y"z`}}, table.records)
		assert.Zero(t, table.skipped)
	})

	t.Run("blank lines are ignored", func(t *testing.T) {
		t.Parallel()

		p := &delimitedParser{delimiter: '\t', header: true}
		table := parseText(t, p, "a\tb\n\n1\t2\n\n")

		assert.Equal(t, []model.Record{{"1", "2"}}, table.records)
		assert.Zero(t, table.skipped)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		p := &delimitedParser{delimiter: ',', header: true, infer: true}
		table := parseText(t, p, "")

		assert.Empty(t, table.header)
		assert.Empty(t, table.records)
	})

	t.Run("last line without newline", func(t *testing.T) {
		t.Parallel()

		p := &delimitedParser{delimiter: ',', quoting: QuoteNone, header: true}
		table := parseText(t, p, "a,b\n1,2")

		assert.Equal(t, []model.Record{{"1", "2"}}, table.records)
	})
}

func TestDelimitedParser_MalformedRowScenario(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("id,value\n")
	for i := range 100 {
		if i == 10 || i == 50 {
			fmt.Fprintf(&sb, "%d,%d,extra\n", i, i)
			continue
		}
		fmt.Fprintf(&sb, "%d,%d\n", i, i*2)
	}

	p := &delimitedParser{delimiter: ',', header: true, infer: true}
	table := parseText(t, p, sb.String())

	assert.Len(t, table.records, 98)
	assert.Equal(t, 2, table.skipped)
}

// scriptedSource replays records and errors in order
type scriptedSource struct {
	steps []scriptedStep
}

type scriptedStep struct {
	fields []string
	err    error
}

func (s *scriptedSource) next() ([]string, error) {
	if len(s.steps) == 0 {
		return nil, io.EOF
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step.fields, step.err
}

func TestDelimitedParser_MalformedRecords(t *testing.T) {
	t.Parallel()

	t.Run("after the first row they are counted", func(t *testing.T) {
		t.Parallel()

		source := &scriptedSource{steps: []scriptedStep{
			{fields: []string{"a", "b"}},
			{fields: []string{"1", "2"}},
			{err: errMalformedRecord},
			{fields: []string{"3", "4"}},
		}}
		p := &delimitedParser{delimiter: ',', header: true}
		table, err := p.parseRecords(context.Background(), source)
		require.NoError(t, err)

		assert.Equal(t, model.Header{"a", "b"}, table.header)
		assert.Equal(t, []model.Record{{"1", "2"}, {"3", "4"}}, table.records)
		assert.Equal(t, 1, table.skipped)
	})

	t.Run("an unparseable first row fails", func(t *testing.T) {
		t.Parallel()

		source := &scriptedSource{steps: []scriptedStep{
			{err: errMalformedRecord},
			{fields: []string{"1", "2"}},
			{fields: []string{"3", "4"}},
		}}
		p := &delimitedParser{delimiter: ',', header: true}
		_, err := p.parseRecords(context.Background(), source)
		require.ErrorIs(t, err, errMalformedRecord)
	})

	t.Run("read errors fail the parse", func(t *testing.T) {
		t.Parallel()

		source := &scriptedSource{steps: []scriptedStep{
			{fields: []string{"a"}},
			{err: ErrEncoding},
		}}
		p := &delimitedParser{delimiter: ',', header: true}
		_, err := p.parseRecords(context.Background(), source)
		require.ErrorIs(t, err, ErrEncoding)
	})
}

func TestDelimitedParser_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &delimitedParser{delimiter: ',', header: true}
	_, err := p.parse(ctx, strings.NewReader("a\n1\n"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fields   []string
		expected model.Header
	}{
		{name: "unique", fields: []string{"a", "b"}, expected: model.Header{"a", "b"}},
		{name: "duplicates", fields: []string{"a", "a", "a"}, expected: model.Header{"a", "a.1", "a.2"}},
		{name: "suffix collision", fields: []string{"a", "a.1", "a"}, expected: model.Header{"a", "a.1", "a.2"}},
		{name: "empty cells", fields: []string{"", "b", " "}, expected: model.Header{"Unnamed: 0", "b", "Unnamed: 2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, normalizeHeader(tt.fields))
		})
	}
}

package tabview

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLookupEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   []byte
		want    string
		wantErr bool
	}{
		{name: "utf-8", input: []byte("café"), want: "café"},
		{name: "UTF8", input: []byte("café"), want: "café"},
		{name: "utf-8-sig", input: []byte("\xef\xbb\xbfid"), want: "id"},
		{name: "iso-8859-1", input: []byte("caf\xe9"), want: "café"},
		{name: "latin1", input: []byte("caf\xe9"), want: "café"},
		{name: "windows-1252", input: []byte("\x80 5"), want: "€ 5"},
		{name: "ascii", input: []byte("plain"), want: "plain"},
		{name: "no-such-encoding", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			enc, err := lookupEncoding(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("lookupEncoding(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("lookupEncoding(%q) error = %v, want ErrUnsupportedFormat", tt.name, err)
				}
				return
			}

			got, err := io.ReadAll(decodeReader(strings.NewReader(string(tt.input)), enc))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("decoded %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStrictUTF8_RejectsInvalidBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "latin1 byte", input: "caf\xe9|M\xfcnchen\n"},
		{name: "truncated rune at end", input: "ok\xe2\x82"},
		{name: "invalid after bom", input: "\xef\xbb\xbfid\n\xff\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			enc, err := lookupEncoding("utf-8")
			if err != nil {
				t.Fatalf("lookupEncoding() error = %v", err)
			}
			_, err = io.ReadAll(decodeReader(strings.NewReader(tt.input), enc))
			if !errors.Is(err, ErrEncoding) {
				t.Errorf("ReadAll() error = %v, want ErrEncoding", err)
			}
		})
	}
}

func TestStrictUTF8_LongInput(t *testing.T) {
	t.Parallel()

	// multi-byte runes straddle the transform buffer boundaries
	input := strings.Repeat("zéro→€", 10000)
	enc, err := lookupEncoding("utf-8")
	if err != nil {
		t.Fatalf("lookupEncoding() error = %v", err)
	}
	got, err := io.ReadAll(decodeReader(strings.NewReader(input), enc))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != input {
		t.Errorf("decoded %d bytes, want %d", len(got), len(input))
	}
}

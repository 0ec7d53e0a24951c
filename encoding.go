package tabview

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lookupEncoding resolves an encoding name. UTF-8 and ASCII are decoded
// strictly as UTF-8 with a leading byte order mark stripped; other names
// are looked up in the IANA registry ("iso-8859-1", "latin1", "windows-1252", ...).
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "utf-8-sig", "ascii", "us-ascii":
		return strictUTF8{}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrUnsupportedFormat, name)
	}
	if enc == nil {
		// registered name without a decoder in x/text
		return nil, fmt.Errorf("%w: encoding %q is not supported", ErrUnsupportedFormat, name)
	}
	return enc, nil
}

// decodeReader wraps r so that it yields UTF-8 text.
func decodeReader(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}

// strictUTF8 is UTF-8 with an optional byte order mark. Unlike
// unicode.UTF8BOM it fails on invalid input instead of substituting U+FFFD,
// so a caller can retry with another encoding.
type strictUTF8 struct{}

// NewDecoder implements encoding.Encoding.
func (strictUTF8) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: transform.Chain(utf8Validator{}, unicode.UTF8BOM.NewDecoder())}
}

// NewEncoder implements encoding.Encoding.
func (strictUTF8) NewEncoder() *encoding.Encoder {
	return unicode.UTF8.NewEncoder()
}

// utf8Validator copies valid UTF-8 and fails with ErrEncoding at the first
// invalid byte.
type utf8Validator struct {
	transform.NopResetter
}

// Transform implements transform.Transformer.
func (utf8Validator) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		size := 1
		if c := src[nSrc]; c >= utf8.RuneSelf {
			if !utf8.FullRune(src[nSrc:]) && !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			var r rune
			r, size = utf8.DecodeRune(src[nSrc:])
			if r == utf8.RuneError && size == 1 {
				return nDst, nSrc, fmt.Errorf("%w: invalid UTF-8 byte 0x%02x", ErrEncoding, c)
			}
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, nil
}

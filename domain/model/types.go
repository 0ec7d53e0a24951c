// Package model provides the domain model for tabview
package model

import "strings"

// Header is the ordered list of column names of a table.
type Header []string

// NewHeader create new Header.
func NewHeader(h []string) Header {
	return Header(h)
}

// Equal compare Header.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Record is one row of cell values.
type Record []string

// NewRecord create new Record.
func NewRecord(r []string) Record {
	return Record(r)
}

// Equal compare Record.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// SemanticType is a coarse, format independent column type.
type SemanticType string

const (
	// SemanticInteger represents whole numbers of any width
	SemanticInteger SemanticType = "integer"
	// SemanticDouble represents floating point numbers of any width
	SemanticDouble SemanticType = "double"
	// SemanticString represents text and anything not classified otherwise
	SemanticString SemanticType = "string"
	// SemanticBoolean represents true/false values
	SemanticBoolean SemanticType = "boolean"
	// SemanticTimestamp represents dates and date-times
	SemanticTimestamp SemanticType = "timestamp"
)

// String returns the wire name of the semantic type.
func (s SemanticType) String() string {
	return string(s)
}

// Native type tags attached to snapshot columns. The names follow the
// dtype spelling used by previously written schema files.
const (
	// NativeInt64 is the tag for inferred integer text columns
	NativeInt64 = "int64"
	// NativeFloat64 is the tag for inferred real text columns
	NativeFloat64 = "float64"
	// NativeBool is the tag for boolean columns
	NativeBool = "bool"
	// NativeDatetime is the tag for date and timestamp columns
	NativeDatetime = "datetime64[ns]"
	// NativeObject is the tag for text and uninferred columns
	NativeObject = "object"
)

// semanticTypeTable maps exact native type names to semantic types.
var semanticTypeTable = map[string]SemanticType{
	"int64":  SemanticInteger,
	"int32":  SemanticInteger,
	"int16":  SemanticInteger,
	"int8":   SemanticInteger,
	"uint8":  SemanticInteger,
	"uint16": SemanticInteger,
	"uint32": SemanticInteger,
	"uint64": SemanticInteger,

	"integer": SemanticInteger,
	"int":     SemanticInteger,

	"float64": SemanticDouble,
	"float32": SemanticDouble,
	"float16": SemanticDouble,
	"double":  SemanticDouble,

	"object": SemanticString,
	"string": SemanticString,

	"bool":    SemanticBoolean,
	"boolean": SemanticBoolean,

	"datetime64[ns]": SemanticTimestamp,
	"datetime64":     SemanticTimestamp,

	"timedelta64[ns]": SemanticString,
	"category":        SemanticString,
}

// Classify maps a native column type name to its semantic type.
// Unknown names fall back to SemanticString.
func Classify(native string) SemanticType {
	name := strings.ToLower(native)
	if st, ok := semanticTypeTable[name]; ok {
		return st
	}
	switch {
	case strings.HasPrefix(name, "int"), strings.HasPrefix(name, "uint"):
		return SemanticInteger
	case strings.HasPrefix(name, "float"):
		return SemanticDouble
	case strings.HasPrefix(name, "datetime"):
		return SemanticTimestamp
	}
	return SemanticString
}

package tabview

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nao1215/tabview/domain/model"
)

// CreatedAtLayout is the layout of the created_at field of serialized schemas
const CreatedAtLayout = "2006-01-02 15:04:05"

// Display headers of a schema table. Their normalized forms are the keys of
// serialized schema entries.
const (
	HeaderColumnName   = "Column Name"
	HeaderNativeType   = "Pandas Type"
	HeaderSemanticType = "Spark Type"
)

// Serialized schema keys
var (
	keyColumnName   = NormalizeKey(HeaderColumnName)
	keyNativeType   = NormalizeKey(HeaderNativeType)
	keySemanticType = NormalizeKey(HeaderSemanticType)
	// keyNativeTypeAlias is accepted in place of keyNativeType when reading
	keyNativeTypeAlias = "native_type"
	keySchema          = "schema"
	keyTotalColumns    = "total_columns"
	keyCreatedAt       = "created_at"
	keyDataFile        = "data_file"
)

// ColumnSchema describes one column.
type ColumnSchema struct {
	Name         string             `json:"column_name"`
	NativeType   string             `json:"pandas_type"`
	SemanticType model.SemanticType `json:"spark_type"`
}

// SerializedSchema is the persisted description of a table's columns.
type SerializedSchema struct {
	Schema       []ColumnSchema `json:"schema"`
	TotalColumns int            `json:"total_columns"`
	CreatedAt    string         `json:"created_at"`
	DataFile     string         `json:"data_file"`
}

// Names returns the column names in order.
func (s *SerializedSchema) Names() []string {
	names := make([]string, len(s.Schema))
	for i, c := range s.Schema {
		names[i] = c.Name
	}
	return names
}

// NormalizeKey lowercases key and joins its words with underscores:
// "Spark Type" becomes "spark_type".
func NormalizeKey(key string) string {
	return strings.Join(strings.Fields(strings.ToLower(key)), "_")
}

// ExtractSchema derives one ColumnSchema per column in column order.
func ExtractSchema(snapshot *model.Snapshot) []ColumnSchema {
	columns := snapshot.Columns()
	types := snapshot.NativeTypes()
	schema := make([]ColumnSchema, len(columns))
	for i, name := range columns {
		native := types[i]
		if native == "" {
			native = model.NativeObject
		}
		schema[i] = ColumnSchema{
			Name:         name,
			NativeType:   native,
			SemanticType: model.Classify(native),
		}
	}
	return schema
}

// ToSerialized stamps schema with its column count, the creation time and
// the identifier of the data file it was extracted from.
func ToSerialized(schema []ColumnSchema, sourceIdentifier string, now time.Time) *SerializedSchema {
	return &SerializedSchema{
		Schema:       append([]ColumnSchema{}, schema...),
		TotalColumns: len(schema),
		CreatedAt:    now.Format(CreatedAtLayout),
		DataFile:     sourceIdentifier,
	}
}

// WriteSerializedSchema writes s as JSON indented by four spaces.
func WriteSerializedSchema(w io.Writer, s *SerializedSchema) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	return nil
}

// WriteSerializedSchemaFile writes s to path, replacing any existing file.
func WriteSerializedSchemaFile(path string, s *SerializedSchema) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return NewErrorContext("write schema", path).Error(err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return WriteSerializedSchema(f, s)
}

// ReadSerializedSchema reads a serialized schema. Keys are normalized before
// they are looked up, "native_type" is accepted for "pandas_type", and a
// missing "spark_type" is derived from the native type. Missing "schema" or
// "total_columns", or an entry without a name, yields a *SchemaError.
func ReadSerializedSchema(r io.Reader, source string) (*SerializedSchema, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, malformedSchema(source, "invalid JSON", err)
	}
	fields := normalizeKeys(raw)

	rawSchema, ok := fields[keySchema]
	if !ok {
		return nil, malformedSchema(source, "missing key "+keySchema, nil)
	}
	rawTotal, ok := fields[keyTotalColumns]
	if !ok {
		return nil, malformedSchema(source, "missing key "+keyTotalColumns, nil)
	}

	s := &SerializedSchema{}
	if err := json.Unmarshal(rawTotal, &s.TotalColumns); err != nil {
		return nil, malformedSchema(source, keyTotalColumns+" is not an integer", err)
	}
	if rawCreated, ok := fields[keyCreatedAt]; ok {
		if err := json.Unmarshal(rawCreated, &s.CreatedAt); err != nil {
			return nil, malformedSchema(source, keyCreatedAt+" is not a string", err)
		}
	}
	if rawFile, ok := fields[keyDataFile]; ok {
		if err := json.Unmarshal(rawFile, &s.DataFile); err != nil {
			return nil, malformedSchema(source, keyDataFile+" is not a string", err)
		}
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(rawSchema, &entries); err != nil {
		return nil, malformedSchema(source, keySchema+" is not a list of objects", err)
	}
	s.Schema = make([]ColumnSchema, 0, len(entries))
	for i, entry := range entries {
		column, err := decodeColumnSchema(normalizeKeys(entry))
		if err != nil {
			return nil, malformedSchema(source, fmt.Sprintf("schema entry %d: %v", i, err), err)
		}
		s.Schema = append(s.Schema, column)
	}
	return s, nil
}

// ReadSerializedSchemaFile reads a serialized schema from path.
func ReadSerializedSchemaFile(path string) (*SerializedSchema, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, NewErrorContext("read schema", path).Error(err)
	}
	defer func() {
		_ = f.Close() // Ignore close error
	}()
	return ReadSerializedSchema(f, path)
}

// errMissingField reports a required entry key that is absent
var errMissingField = errors.New("missing field")

func decodeColumnSchema(entry map[string]json.RawMessage) (ColumnSchema, error) {
	var column ColumnSchema

	rawName, ok := entry[keyColumnName]
	if !ok {
		return column, fmt.Errorf("%w %s", errMissingField, keyColumnName)
	}
	if err := json.Unmarshal(rawName, &column.Name); err != nil {
		return column, fmt.Errorf("%s: %w", keyColumnName, err)
	}

	rawNative, ok := entry[keyNativeType]
	if !ok {
		rawNative, ok = entry[keyNativeTypeAlias]
	}
	if ok {
		if err := json.Unmarshal(rawNative, &column.NativeType); err != nil {
			return column, fmt.Errorf("%s: %w", keyNativeType, err)
		}
	}

	if rawSemantic, ok := entry[keySemanticType]; ok {
		var semantic string
		if err := json.Unmarshal(rawSemantic, &semantic); err != nil {
			return column, fmt.Errorf("%s: %w", keySemanticType, err)
		}
		column.SemanticType = model.SemanticType(semantic)
		return column, nil
	}

	if column.NativeType == "" {
		return column, fmt.Errorf("%w %s or %s", errMissingField, keySemanticType, keyNativeType)
	}
	column.SemanticType = model.Classify(column.NativeType)
	return column, nil
}

// normalizeKeys rewrites the keys of m with NormalizeKey.
// A key already in normalized form wins over its variants.
func normalizeKeys(m map[string]json.RawMessage) map[string]json.RawMessage {
	normalized := make(map[string]json.RawMessage, len(m))
	for key, value := range m {
		nk := NormalizeKey(key)
		if _, exists := normalized[nk]; exists && key != nk {
			continue
		}
		normalized[nk] = value
	}
	return normalized
}

func malformedSchema(source, reason string, err error) *SchemaError {
	return &SchemaError{
		Kind:   MalformedSerializedSchema,
		Source: source,
		Reason: reason,
		Err:    err,
	}
}

package tabview

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error values. LoadError and SchemaError match them with errors.Is.
var (
	// ErrNotFound indicates the source file does not exist
	ErrNotFound = errors.New("tabview: file not found")

	// ErrPermissionDenied indicates the source file cannot be read
	ErrPermissionDenied = errors.New("tabview: permission denied")

	// ErrUnsupportedFormat indicates an unsupported file format or option
	ErrUnsupportedFormat = errors.New("tabview: unsupported file format")

	// ErrDecode indicates the content could not be decoded at all
	ErrDecode = errors.New("tabview: decode error")

	// ErrEncoding indicates delimited text is not valid in the requested
	// character encoding; a load failing with it may succeed with another one
	ErrEncoding = errors.New("tabview: invalid character encoding")

	// ErrEmpty indicates that the source decoded to zero rows
	ErrEmpty = errors.New("tabview: empty data source")

	// ErrMalformedSchema indicates a serialized schema is missing required keys
	ErrMalformedSchema = errors.New("tabview: malformed serialized schema")

	// ErrNoSource indicates a refresh was requested before anything was loaded
	ErrNoSource = errors.New("tabview: no source loaded")
)

// LoadErrorKind classifies terminal load failures.
type LoadErrorKind int

const (
	// LoadErrorNotFound means the path does not exist
	LoadErrorNotFound LoadErrorKind = iota
	// LoadErrorPermissionDenied means the path exists but cannot be read
	LoadErrorPermissionDenied
	// LoadErrorUnsupportedFormat means the format or options cannot be handled
	LoadErrorUnsupportedFormat
	// LoadErrorDecode means the content is corrupt or undecodable
	LoadErrorDecode
	// LoadErrorEmpty means the source holds no data rows
	LoadErrorEmpty
)

// String returns the name of the kind.
func (k LoadErrorKind) String() string {
	switch k {
	case LoadErrorNotFound:
		return "NotFound"
	case LoadErrorPermissionDenied:
		return "PermissionDenied"
	case LoadErrorUnsupportedFormat:
		return "UnsupportedFormat"
	case LoadErrorDecode:
		return "DecodeError"
	case LoadErrorEmpty:
		return "Empty"
	default:
		return "Unknown"
	}
}

// sentinel returns the package error value matching the kind.
func (k LoadErrorKind) sentinel() error {
	switch k {
	case LoadErrorNotFound:
		return ErrNotFound
	case LoadErrorPermissionDenied:
		return ErrPermissionDenied
	case LoadErrorUnsupportedFormat:
		return ErrUnsupportedFormat
	case LoadErrorEmpty:
		return ErrEmpty
	default:
		return ErrDecode
	}
}

// LoadError is the single terminal error reported by a failed load.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

// newLoadError creates a LoadError for path.
func newLoadError(kind LoadErrorKind, path string, err error) *LoadError {
	return &LoadError{Kind: kind, Path: path, Err: err}
}

// Error implements error.
func (e *LoadError) Error() string {
	ec := NewErrorContext("load", e.Path).WithDetails(e.Kind.String())
	return ec.Error(e.Err).Error()
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the kind.
func (e *LoadError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// SchemaErrorKind classifies schema errors.
type SchemaErrorKind int

const (
	// MalformedSerializedSchema means required keys are missing or mistyped
	MalformedSerializedSchema SchemaErrorKind = iota
)

// SchemaError reports an unusable serialized schema.
type SchemaError struct {
	Kind   SchemaErrorKind
	Source string
	Reason string
	Err    error
}

// Error implements error.
func (e *SchemaError) Error() string {
	ec := NewErrorContext("read schema", e.Source).WithDetails(e.Reason)
	return ec.Error(e.Err).Error()
}

// Unwrap returns the underlying cause.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformedSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrMalformedSchema
}

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("tabview: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}

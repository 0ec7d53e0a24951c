package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common datetime patterns to detect
var datetimePatterns = []struct {
	pattern *regexp.Regexp
	formats []string // Multiple formats for the same pattern
}{
	// ISO8601 formats with timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
	},
	// ISO8601 formats without timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"},
	},
	// ISO8601 date and time with space
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"},
	},
	// ISO8601 date only
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
	// US formats
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}:\d{2}( (AM|PM))?$`),
		[]string{"1/2/2006 15:04:05", "1/2/2006 3:04:05 PM", "01/02/2006 15:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		[]string{"1/2/2006", "01/02/2006"},
	},
	// European formats
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4} \d{1,2}:\d{2}:\d{2}$`),
		[]string{"2.1.2006 15:04:05", "02.01.2006 15:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`),
		[]string{"2.1.2006", "02.01.2006"},
	},
	// Time only
	{
		regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"15:04:05", "15:04:05.000", "3:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}:\d{2}$`),
		[]string{"15:04", "3:04"},
	},
}

// ParseDatetime parses value with the first matching datetime pattern.
func ParseDatetime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, dp := range datetimePatterns {
		if dp.pattern.MatchString(value) {
			for _, format := range dp.formats {
				if t, err := time.Parse(format, value); err == nil {
					return t, true
				}
			}
		}
	}

	return time.Time{}, false
}

// isDatetime checks if a string value represents a datetime
func isDatetime(value string) bool {
	_, ok := ParseDatetime(value)
	return ok
}

// isBool reports whether value is a boolean literal.
func isBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "false":
		return true
	}
	return false
}

// InferNativeType infers the native type tag of a text column from its values.
// Empty values are ignored; a column without any value is NativeObject.
func InferNativeType(values []string) string {
	hasDatetime := false
	hasReal := false
	hasInteger := false
	hasBool := false

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if isDatetime(value) {
			hasDatetime = true
			continue
		}
		if isBool(value) {
			hasBool = true
			continue
		}
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			hasInteger = true
			continue
		}
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			hasReal = true
			continue
		}

		// A single text value makes the whole column text.
		return NativeObject
	}

	numeric := hasInteger || hasReal
	switch {
	case hasDatetime && !numeric && !hasBool:
		return NativeDatetime
	case hasBool && !numeric && !hasDatetime:
		return NativeBool
	case hasDatetime || hasBool:
		return NativeObject
	case hasReal:
		return NativeFloat64
	case hasInteger:
		return NativeInt64
	}
	return NativeObject
}

// InferNativeTypes infers a native type tag for every column of records.
func InferNativeTypes(columnCount int, records []Record) []string {
	types := make([]string, columnCount)
	values := make([]string, 0, len(records))
	for i := range columnCount {
		values = values[:0]
		for _, record := range records {
			if i < len(record) {
				values = append(values, record[i])
			}
		}
		types[i] = InferNativeType(values)
	}
	return types
}

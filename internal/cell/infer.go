package cell

import (
	"strconv"
	"strings"
	"time"
)

// Infer classifies a cell that is stored as text, such as an xlsx inline
// ISO 8601 date cell. Integers, floats, "#..." error codes and date/datetime strings are recognized;
// anything else is Text.
func Infer(raw string) Value {
	if raw == "" {
		return EmptyValue()
	}
	trimmed := strings.TrimSpace(raw)
	if isErrorCode(trimmed) {
		return ErrorValue(trimmed)
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && strings.ContainsAny(trimmed, "0123456789") {
		return FloatValue(f)
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return DateTimeValue(t)
		}
	}
	return TextValue(raw)
}

func isErrorCode(value string) bool {
	switch value {
	case "#NULL!", "#DIV/0!", "#VALUE!", "#REF!", "#NAME?", "#NUM!", "#N/A", "#GETTING_DATA":
		return true
	default:
		return false
	}
}

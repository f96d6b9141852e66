package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ColumnLabel converts a 0-based column index into its sheet label:
// 0 -> "A", 25 -> "Z", 27 -> "AB".
func ColumnLabel(index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("invalid column index %d", index)
	}
	return excelize.ColumnNumberToName(index + 1)
}

// EnsureXLSXExtension replaces any extension on path with ".xlsx". The
// leading dot of a name such as ".hidden" does not start an extension.
func EnsureXLSXExtension(path string) string {
	ext := filepath.Ext(strings.TrimPrefix(filepath.Base(path), "."))
	if ext == ".xlsx" {
		return path
	}
	return strings.TrimSuffix(path, ext) + ".xlsx"
}

// MonthName returns the English month name used as sheet name.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("Month %d", month)
	}
	return time.Month(month).String()
}

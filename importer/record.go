package importer

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	"traininghours/internal/cell"
)

// Column names of the source sheet. Matching is exact and case-sensitive.
const (
	ColumnTimestamp           = "timestamp"
	ColumnInstructorEmail     = "Instructors_email"
	ColumnDate                = "date"
	ColumnInstructorName      = "Instructors_name"
	ColumnInstructorSchool    = "instructors_school"
	ColumnTrainingHours       = "training_hours"
	ColumnPayingFramework     = "paying_framework"
	ColumnTeachingContent     = "teaching_content"
	ColumnLearningOutcomes    = "learning_outcomes"
	ColumnAtmosphere          = "atmosphere"
	ColumnTechnicalProblems   = "technical_problems"
	ColumnConversationSummary = "conversation_summary"
	ColumnRemarks             = "remarks"
	ColumnGeneralSituation    = "general_situation"
)

// Columns is the fixed header of the source sheet.
var Columns = []string{
	ColumnTimestamp,
	ColumnInstructorEmail,
	ColumnDate,
	ColumnInstructorName,
	ColumnInstructorSchool,
	ColumnTrainingHours,
	ColumnPayingFramework,
	ColumnTeachingContent,
	ColumnLearningOutcomes,
	ColumnAtmosphere,
	ColumnTechnicalProblems,
	ColumnConversationSummary,
	ColumnRemarks,
	ColumnGeneralSituation,
}

// HeaderNotFoundError is fatal: the sheet lacks one of Columns.
type HeaderNotFoundError struct {
	Header string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("Required header not found: %s", e.Header)
}

type RowErrorKind int

const (
	RowErrorCellType RowErrorKind = iota
	RowErrorEndOfRow
	RowErrorCustom
	RowErrorCellOutOfRange
)

// RowError describes why one data row was rejected.
type RowError struct {
	Row    int
	Column string
	Cell   string
	Kind   RowErrorKind
	Err    error
}

func (e *RowError) Error() string {
	var diagnosis string
	switch e.Kind {
	case RowErrorCellType:
		diagnosis = fmt.Sprintf("Cell error - column %s at %s: %v", e.Column, e.Cell, e.Err)
	case RowErrorEndOfRow:
		diagnosis = fmt.Sprintf("Unexpected end of row - column %s at %s", e.Column, e.Cell)
	case RowErrorCellOutOfRange:
		diagnosis = fmt.Sprintf("Cell out of range - column %s at %s", e.Column, e.Cell)
	default:
		diagnosis = fmt.Sprintf("column %s at %s: %v", e.Column, e.Cell, e.Err)
	}
	return fmt.Sprintf("Row #%d: %s", e.Row, diagnosis)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func newRowError(row int, column, cellName string, err error) *RowError {
	kind := RowErrorCustom
	var typeErr *cell.TypeError
	if errors.As(err, &typeErr) {
		kind = RowErrorCellType
	}
	return &RowError{Row: row, Column: column, Cell: cellName, Kind: kind, Err: err}
}

func normalizeHeader(input string) string {
	return strings.TrimSpace(norm.NFC.String(input))
}

// headerIndex resolves every column name to its position in the header row.
func headerIndex(header []cell.Value) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, value := range header {
		name := normalizeHeader(value.String())
		if _, exists := positions[name]; !exists && name != "" {
			positions[name] = i
		}
	}

	index := make(map[string]int, len(Columns))
	for _, column := range Columns {
		position, ok := positions[column]
		if !ok {
			return nil, &HeaderNotFoundError{Header: column}
		}
		index[column] = position
	}
	return index, nil
}

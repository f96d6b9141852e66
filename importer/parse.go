package importer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"traininghours/internal/cell"
	"traininghours/training"
)

type Options struct {
	// StrictHours rejects rows whose training_hours cell is not numeric
	// instead of counting them as 0 hours.
	StrictHours bool
	// Readers overrides the trial order; nil uses DefaultReaders.
	Readers []Reader
	// Logger receives one warning per rejected row.
	Logger *slog.Logger
}

// Outcome is the result of parsing one workbook.
// RowsRead always equals len(Records)+len(Rejections).
type Outcome struct {
	Records    []training.Record
	Warnings   []string
	Rejections []RowError
	RowsRead   int
}

// Parse reads the first worksheet of path and converts every data row into a
// training.Record. Only open and header failures are returned as errors; bad
// rows become warnings.
func Parse(path string, options Options) (*Outcome, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	readers := options.Readers
	if readers == nil {
		readers = DefaultReaders()
	}

	sheet, err := openFirstSheet(path, readers)
	if err != nil {
		return nil, err
	}

	var header []cell.Value
	if len(sheet.Rows) > 0 {
		header = sheet.Rows[0]
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Records: make([]training.Record, 0, len(sheet.Rows))}
	for i := 1; i < len(sheet.Rows); i++ {
		rowNumber := i + 1
		outcome.RowsRead++

		record, rowErr := parseRow(rowNumber, sheet.Rows[i], index, options)
		if rowErr != nil {
			logger.Warn("row rejected", slog.String("sheet", sheet.Name), slog.Int("row", rowNumber), slog.String("reason", rowErr.Error()))
			outcome.Rejections = append(outcome.Rejections, *rowErr)
			outcome.Warnings = append(outcome.Warnings, rowErr.Error())
			continue
		}
		outcome.Records = append(outcome.Records, record)
	}

	return outcome, nil
}

type rowReader struct {
	number int
	cells  []cell.Value
	index  map[string]int
}

// locate names the cell under column. ok is false when the position lies
// outside the worksheet grid.
func (r rowReader) locate(column string) (name string, ok bool) {
	name, err := excelize.CoordinatesToCellName(r.index[column]+1, r.number)
	if err != nil {
		return fmt.Sprintf("R%dC%d", r.number, r.index[column]+1), false
	}
	return name, true
}

func (r rowReader) optional(column string) cell.Value {
	position := r.index[column]
	if position >= len(r.cells) {
		return cell.EmptyValue()
	}
	return r.cells[position]
}

func (r rowReader) required(column string) (cell.Value, *RowError) {
	name, ok := r.locate(column)
	if !ok {
		return cell.Value{}, &RowError{Row: r.number, Column: column, Cell: name, Kind: RowErrorCellOutOfRange}
	}
	position := r.index[column]
	if position >= len(r.cells) {
		return cell.Value{}, &RowError{Row: r.number, Column: column, Cell: name, Kind: RowErrorEndOfRow}
	}
	return r.cells[position], nil
}

// text reads a required text column. A row that ends early reads as "".
func (r rowReader) text(column string) (string, *RowError) {
	if name, ok := r.locate(column); !ok {
		return "", &RowError{Row: r.number, Column: column, Cell: name, Kind: RowErrorCellOutOfRange}
	}
	value, err := cell.RequiredText(r.optional(column))
	if err != nil {
		return "", r.fail(column, err)
	}
	return value, nil
}

func (r rowReader) fail(column string, err error) *RowError {
	name, _ := r.locate(column)
	return newRowError(r.number, column, name, err)
}

func parseRow(number int, cells []cell.Value, index map[string]int, options Options) (training.Record, *RowError) {
	row := rowReader{number: number, cells: cells, index: index}
	record := training.Record{RowNumber: number}

	value, rowErr := row.required(ColumnTimestamp)
	if rowErr != nil {
		return record, rowErr
	}
	submitted, err := cell.Date(value)
	if err != nil {
		return record, row.fail(ColumnTimestamp, err)
	}
	record.SubmittedOn = submitted

	if record.InstructorEmail, rowErr = row.text(ColumnInstructorEmail); rowErr != nil {
		return record, rowErr
	}

	if value, rowErr = row.required(ColumnDate); rowErr != nil {
		return record, rowErr
	}
	day, month, err := cell.DayMonth(value)
	if err != nil {
		return record, row.fail(ColumnDate, err)
	}
	record.SessionDate = training.SessionDate{Day: day, Month: month}

	record.InstructorName = cell.OptionalText(row.optional(ColumnInstructorName))
	record.InstructorSchool = cell.OptionalText(row.optional(ColumnInstructorSchool))

	hours := row.optional(ColumnTrainingHours)
	if options.StrictHours {
		if record.TrainingHours, err = cell.HoursStrict(hours); err != nil {
			return record, row.fail(ColumnTrainingHours, err)
		}
	} else {
		record.TrainingHours = cell.Hours(hours)
	}

	if record.PayingFramework, rowErr = row.text(ColumnPayingFramework); rowErr != nil {
		return record, rowErr
	}

	record.TeachingContent = cell.OptionalText(row.optional(ColumnTeachingContent))
	record.LearningOutcomes = cell.OptionalText(row.optional(ColumnLearningOutcomes))
	record.Atmosphere = cell.OptionalText(row.optional(ColumnAtmosphere))
	record.TechnicalProblems = cell.OptionalText(row.optional(ColumnTechnicalProblems))
	record.ConversationSummary = cell.OptionalText(row.optional(ColumnConversationSummary))
	record.Remarks = cell.OptionalText(row.optional(ColumnRemarks))
	record.GeneralSituation = cell.OptionalText(row.optional(ColumnGeneralSituation))

	return record, nil
}

package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"traininghours/summary"
)

const (
	firstDay = 1
	lastDay  = 31

	// 0-based column positions of the report layout.
	nameColumn      = 0
	schoolColumn    = 1
	frameworkColumn = 2
	firstDayColumn  = 3
	sumColumn       = firstDayColumn + lastDay
)

// WriteError wraps any failure while composing or saving the report.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not create result file: %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// BuildMonthlyReport lays the table out as one sheet per month in ascending
// month order. Each group becomes a row holding its day hours and a SUM
// formula over the day columns. The caller closes the returned file.
func BuildMonthlyReport(table summary.Table) (*excelize.File, error) {
	file := excelize.NewFile()

	defaultSheet := file.GetSheetName(0)
	for i, month := range table.Months() {
		name := MonthName(month)
		if i == 0 {
			if err := file.SetSheetName(defaultSheet, name); err != nil {
				_ = file.Close()
				return nil, &WriteError{Op: "rename sheet " + name, Err: err}
			}
		} else if _, err := file.NewSheet(name); err != nil {
			_ = file.Close()
			return nil, &WriteError{Op: "create sheet " + name, Err: err}
		}

		if err := writeMonthSheet(file, name, table.Groups(month)); err != nil {
			_ = file.Close()
			return nil, err
		}
	}

	return file, nil
}

// WriteMonthlyReport builds the report and saves it at path with its
// extension forced to .xlsx. It returns the path actually written.
func WriteMonthlyReport(path string, table summary.Table) (string, error) {
	file, err := BuildMonthlyReport(table)
	if err != nil {
		return "", err
	}
	defer file.Close()

	target := EnsureXLSXExtension(path)
	if err := file.SaveAs(target); err != nil {
		return "", &WriteError{Op: "save " + target, Err: err}
	}
	return target, nil
}

func writeMonthSheet(file *excelize.File, sheet string, groups []summary.Group) error {
	if err := writeHeader(file, sheet); err != nil {
		return err
	}

	firstDayLabel, err := ColumnLabel(firstDayColumn)
	if err != nil {
		return &WriteError{Op: "resolve day column", Err: err}
	}
	lastDayLabel, err := ColumnLabel(firstDayColumn + lastDay - 1)
	if err != nil {
		return &WriteError{Op: "resolve day column", Err: err}
	}

	for i, group := range groups {
		row := i + 2
		identity := []struct {
			column int
			value  string
		}{
			{nameColumn, group.Name},
			{schoolColumn, group.School},
			{frameworkColumn, group.Framework},
		}
		for _, field := range identity {
			if err := setValue(file, sheet, field.column, row, field.value); err != nil {
				return err
			}
		}

		for day, hours := range group.Days {
			if day < firstDay || day > lastDay {
				continue
			}
			if err := setValue(file, sheet, firstDayColumn+day-1, row, hours); err != nil {
				return err
			}
		}

		cellName, err := excelize.CoordinatesToCellName(sumColumn+1, row)
		if err != nil {
			return &WriteError{Op: "resolve sum cell", Err: err}
		}
		formula := fmt.Sprintf("SUM(%s%d:%s%d)", firstDayLabel, row, lastDayLabel, row)
		if err := file.SetCellFormula(sheet, cellName, formula); err != nil {
			return &WriteError{Op: "set formula " + cellName, Err: err}
		}
	}

	return nil
}

func writeHeader(file *excelize.File, sheet string) error {
	headers := []any{"Name", "School", "Payment Framework"}
	for day := firstDay; day <= lastDay; day++ {
		headers = append(headers, day)
	}
	headers = append(headers, "SUM")

	for col, header := range headers {
		if err := setValue(file, sheet, col, 1, header); err != nil {
			return err
		}
	}
	return nil
}

func setValue(file *excelize.File, sheet string, column, row int, value any) error {
	cellName, err := excelize.CoordinatesToCellName(column+1, row)
	if err != nil {
		return &WriteError{Op: "resolve cell", Err: err}
	}
	if err := file.SetCellValue(sheet, cellName, value); err != nil {
		return &WriteError{Op: "set value " + sheet + "!" + cellName, Err: err}
	}
	return nil
}

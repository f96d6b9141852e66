package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"traininghours/internal/cell"
)

// ExcelReader reads .xlsx/.xlsm workbooks.
type ExcelReader struct{}

func (r *ExcelReader) Name() string {
	return "xlsx"
}

func (r *ExcelReader) Read(path string) (*Sheet, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: %s", ErrWorksheetNotFound, path)
	}

	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}

	date1904 := false
	if props, err := file.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	sheet := &Sheet{Name: sheetName, Rows: make([][]cell.Value, 0, len(rows))}
	for i, row := range rows {
		values := make([]cell.Value, len(row))
		for col, raw := range row {
			name, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("resolve cell name: %w", err)
			}
			values[col] = classifyExcelCell(file, sheetName, name, raw, date1904)
		}
		sheet.Rows = append(sheet.Rows, values)
	}

	return sheet, nil
}

// classifyExcelCell maps an excelize raw value onto a cell variant using the
// cell type and, for numbers, the number format of its style.
func classifyExcelCell(file *excelize.File, sheet, name, raw string, date1904 bool) cell.Value {
	if raw == "" {
		return cell.EmptyValue()
	}

	cellType, err := file.GetCellType(sheet, name)
	if err != nil {
		return cell.TextValue(raw)
	}

	switch cellType {
	case excelize.CellTypeError:
		return cell.ErrorValue(raw)
	case excelize.CellTypeBool:
		return cell.BoolValue(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return cell.TextValue(raw)
	case excelize.CellTypeDate:
		return cell.Infer(raw)
	}

	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return cell.TextValue(raw)
	}
	if hasDateFormat(file, sheet, name) {
		if t, err := excelize.ExcelDateToTime(number, date1904); err == nil {
			return cell.DateTimeValue(t)
		}
	}
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return cell.IntValue(i)
		}
	}
	return cell.FloatValue(number)
}

func hasDateFormat(file *excelize.File, sheet, name string) bool {
	styleID, err := file.GetCellStyle(sheet, name)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateLayout(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

func isBuiltInDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58)
}

// isDateLayout reports whether a custom number format renders dates or times.
func isDateLayout(format string) bool {
	var b strings.Builder
	inQuote := false
	inBracket := false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), "general", "")
	if strings.ContainsAny(cleaned, "#0?") {
		return false
	}
	return strings.ContainsAny(cleaned, "ydmhs")
}

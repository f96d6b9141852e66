package importer

import (
	"fmt"

	"github.com/extrame/xls"
	"traininghours/internal/cell"
)

// XLSReader reads legacy BIFF .xls workbooks. extrame/xls decodes the shared
// strings and sheet names; numbers, booleans and errors come from a raw
// record scan so that number formats and date serials survive.
type XLSReader struct {
	Charset string
}

func (r *XLSReader) Name() string {
	return "xls"
}

func (r *XLSReader) Read(path string) (sheet *Sheet, err error) {
	charset := r.Charset
	if charset == "" {
		charset = "utf-8"
	}

	// The BIFF decoder panics on some malformed inputs.
	defer func() {
		if recovered := recover(); recovered != nil {
			sheet = nil
			err = fmt.Errorf("decode xls file %s: %v", path, recovered)
		}
	}()

	workbook, err := xls.Open(path, charset)
	if err != nil {
		return nil, fmt.Errorf("open xls file %s: %w", path, err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrWorksheetNotFound, path)
	}
	worksheet := workbook.GetSheet(0)
	if worksheet == nil {
		return nil, fmt.Errorf("%w: %s", ErrWorksheetNotFound, path)
	}

	stream, err := readBIFFStream(path)
	if err != nil {
		return nil, err
	}
	globals, err := parseBIFFGlobals(stream)
	if err != nil {
		return nil, fmt.Errorf("decode xls file %s: %w", path, err)
	}
	if !globals.hasSheet {
		return nil, fmt.Errorf("%w: %s", ErrWorksheetNotFound, path)
	}
	raw, err := parseBIFFSheet(stream, globals.firstSheet, globals.biff8)
	if err != nil {
		return nil, fmt.Errorf("decode xls file %s: %w", path, err)
	}

	sheet = &Sheet{Name: worksheet.Name}
	for i := 0; i <= raw.maxRow; i++ {
		width := raw.widths[i]
		if width == 0 {
			sheet.Rows = append(sheet.Rows, nil)
			continue
		}
		values := make([]cell.Value, 0, width)
		for col := 0; col < width; col++ {
			c, ok := raw.cells[biffPos{row: i, col: col}]
			if !ok {
				values = append(values, cell.EmptyValue())
				continue
			}
			label := ""
			if c.kind == biffLabel {
				// extrame/xls creates a row for every label it decodes.
				label = worksheet.Row(i).Col(col)
			}
			values = append(values, globals.value(c, label))
		}
		sheet.Rows = append(sheet.Rows, values)
	}

	return sheet, nil
}

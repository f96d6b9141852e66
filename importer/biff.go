package importer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf16"

	"github.com/extrame/ole2"
	"github.com/xuri/excelize/v2"
	"traininghours/internal/cell"
)

// BIFF record ids used by the raw cell scan.
const (
	recordFormula    = 0x0006
	recordEOF        = 0x000A
	recordDateMode   = 0x0022
	recordBoundSheet = 0x0085
	recordMulRK      = 0x00BD
	recordMulBlank   = 0x00BE
	recordXF         = 0x00E0
	recordLabelSST   = 0x00FD
	recordBlank      = 0x0201
	recordNumber     = 0x0203
	recordLabel      = 0x0204
	recordBoolErr    = 0x0205
	recordString     = 0x0207
	recordRK         = 0x027E
	recordFormat     = 0x041E
	recordBOF        = 0x0809
)

var errMalformedBIFF = errors.New("malformed BIFF stream")

var biffErrorCodes = map[byte]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0F: "#VALUE!",
	0x17: "#REF!",
	0x1D: "#NAME?",
	0x24: "#NUM!",
	0x2A: "#N/A",
}

type biffKind int

const (
	biffBlank biffKind = iota
	biffNumber
	biffInteger
	biffLabel
	biffBool
	biffError
	biffFormulaText
)

// biffCell is one cell record as stored in the sheet substream. Labels only
// mark the position; their text is decoded by extrame/xls.
type biffCell struct {
	kind   biffKind
	xf     uint16
	number float64
	flag   bool
	text   string
}

type biffPos struct {
	row, col int
}

// biffSheet holds the raw cells of one worksheet.
type biffSheet struct {
	cells  map[biffPos]biffCell
	widths map[int]int
	maxRow int
}

// biffWorkbook is the globals substream: number formats, XF records, the
// date system and the position of the first worksheet.
type biffWorkbook struct {
	biff8      bool
	date1904   bool
	xfFormats  []uint16
	formats    map[uint16]string
	firstSheet int64
	hasSheet   bool
}

type biffRecord struct {
	id     uint16
	body   []byte
	offset int64
}

// readBIFFStream returns the Workbook (or BIFF5 Book) stream of an OLE2 file.
func readBIFFStream(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open xls file %s: %w", path, err)
	}
	defer file.Close()

	container, err := ole2.Open(file, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open ole2 container %s: %w", path, err)
	}
	entries, err := container.ListDir()
	if err != nil {
		return nil, fmt.Errorf("list ole2 entries %s: %w", path, err)
	}

	var book, root *ole2.File
	for _, entry := range entries {
		switch entry.Name() {
		case "Workbook", "Book":
			book = entry
		case "Root Entry":
			root = entry
		}
	}
	if book == nil || root == nil {
		return nil, fmt.Errorf("%s: no workbook stream", path)
	}

	data := make([]byte, book.Size)
	n, err := io.ReadFull(container.OpenFile(book, root), data)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read workbook stream %s: %w", path, err)
	}
	return data[:n], nil
}

// walkBIFF calls fn for every record starting at offset until fn returns
// false or the stream ends.
func walkBIFF(data []byte, offset int64, fn func(biffRecord) (bool, error)) error {
	for offset+4 <= int64(len(data)) {
		id := binary.LittleEndian.Uint16(data[offset:])
		size := int64(binary.LittleEndian.Uint16(data[offset+2:]))
		start := offset + 4
		if start+size > int64(len(data)) {
			return fmt.Errorf("%w: record 0x%04X at %d overruns the stream", errMalformedBIFF, id, offset)
		}
		more, err := fn(biffRecord{id: id, body: data[start : start+size], offset: offset})
		if err != nil || !more {
			return err
		}
		offset = start + size
	}
	return nil
}

func parseBIFFGlobals(data []byte) (*biffWorkbook, error) {
	wb := &biffWorkbook{formats: make(map[uint16]string)}
	seenBOF := false

	err := walkBIFF(data, 0, func(rec biffRecord) (bool, error) {
		switch rec.id {
		case recordBOF:
			if seenBOF {
				return true, nil
			}
			if len(rec.body) < 2 {
				return false, fmt.Errorf("%w: short BOF", errMalformedBIFF)
			}
			seenBOF = true
			wb.biff8 = binary.LittleEndian.Uint16(rec.body) == 0x0600
		case recordEOF:
			return false, nil
		case recordDateMode:
			if len(rec.body) >= 2 {
				wb.date1904 = binary.LittleEndian.Uint16(rec.body) == 1
			}
		case recordXF:
			if len(rec.body) < 4 {
				return false, fmt.Errorf("%w: short XF", errMalformedBIFF)
			}
			wb.xfFormats = append(wb.xfFormats, binary.LittleEndian.Uint16(rec.body[2:]))
		case recordFormat:
			if len(rec.body) < 3 {
				return true, nil
			}
			index := binary.LittleEndian.Uint16(rec.body)
			if wb.biff8 {
				wb.formats[index] = decodeUnicodeString(rec.body[2:])
			} else {
				wb.formats[index] = decodeByteString(rec.body[2:])
			}
		case recordBoundSheet:
			if !wb.hasSheet && len(rec.body) >= 4 {
				wb.firstSheet = int64(binary.LittleEndian.Uint32(rec.body))
				wb.hasSheet = true
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if !seenBOF {
		return nil, fmt.Errorf("%w: missing BOF", errMalformedBIFF)
	}
	return wb, nil
}

func parseBIFFSheet(data []byte, offset int64, biff8 bool) (*biffSheet, error) {
	sheet := &biffSheet{cells: make(map[biffPos]biffCell), widths: make(map[int]int), maxRow: -1}
	put := func(row, col int, c biffCell) {
		sheet.cells[biffPos{row: row, col: col}] = c
		if col+1 > sheet.widths[row] {
			sheet.widths[row] = col + 1
		}
		if row > sheet.maxRow {
			sheet.maxRow = row
		}
	}

	var pendingFormula *biffPos
	first := true
	err := walkBIFF(data, offset, func(rec biffRecord) (bool, error) {
		if first {
			first = false
			if rec.id != recordBOF {
				return false, fmt.Errorf("%w: worksheet does not start with BOF", errMalformedBIFF)
			}
			return true, nil
		}

		body := rec.body
		switch rec.id {
		case recordEOF:
			return false, nil
		case recordNumber:
			if len(body) < 14 {
				return false, fmt.Errorf("%w: short NUMBER", errMalformedBIFF)
			}
			row, col, xf := cellHeader(body)
			put(row, col, biffCell{kind: biffNumber, xf: xf, number: math.Float64frombits(binary.LittleEndian.Uint64(body[6:]))})
		case recordRK:
			if len(body) < 10 {
				return false, fmt.Errorf("%w: short RK", errMalformedBIFF)
			}
			row, col, xf := cellHeader(body)
			put(row, col, rkCell(xf, binary.LittleEndian.Uint32(body[6:])))
		case recordMulRK:
			if len(body) < 6 {
				return false, fmt.Errorf("%w: short MULRK", errMalformedBIFF)
			}
			row := int(binary.LittleEndian.Uint16(body))
			col := int(binary.LittleEndian.Uint16(body[2:]))
			for i := 4; i+6 <= len(body)-2; i += 6 {
				xf := binary.LittleEndian.Uint16(body[i:])
				put(row, col, rkCell(xf, binary.LittleEndian.Uint32(body[i+2:])))
				col++
			}
		case recordLabelSST, recordLabel:
			if len(body) < 6 {
				return false, fmt.Errorf("%w: short label", errMalformedBIFF)
			}
			row, col, xf := cellHeader(body)
			put(row, col, biffCell{kind: biffLabel, xf: xf})
		case recordBlank:
			if len(body) < 6 {
				return false, fmt.Errorf("%w: short BLANK", errMalformedBIFF)
			}
			row, col, xf := cellHeader(body)
			put(row, col, biffCell{kind: biffBlank, xf: xf})
		case recordMulBlank:
			if len(body) < 6 {
				return false, fmt.Errorf("%w: short MULBLANK", errMalformedBIFF)
			}
			row := int(binary.LittleEndian.Uint16(body))
			col := int(binary.LittleEndian.Uint16(body[2:]))
			for i := 4; i+2 <= len(body)-2; i += 2 {
				put(row, col, biffCell{kind: biffBlank, xf: binary.LittleEndian.Uint16(body[i:])})
				col++
			}
		case recordBoolErr:
			if len(body) < 8 {
				return false, fmt.Errorf("%w: short BOOLERR", errMalformedBIFF)
			}
			row, col, xf := cellHeader(body)
			if body[7] == 1 {
				put(row, col, biffCell{kind: biffError, xf: xf, text: errorCode(body[6])})
			} else {
				put(row, col, biffCell{kind: biffBool, xf: xf, flag: body[6] != 0})
			}
		case recordFormula:
			if len(body) < 14 {
				return false, fmt.Errorf("%w: short FORMULA", errMalformedBIFF)
			}
			row, col, xf := cellHeader(body)
			pendingFormula = nil
			result := body[6:14]
			if result[6] != 0xFF || result[7] != 0xFF {
				put(row, col, biffCell{kind: biffNumber, xf: xf, number: math.Float64frombits(binary.LittleEndian.Uint64(result))})
				return true, nil
			}
			switch result[0] {
			case 0:
				put(row, col, biffCell{kind: biffFormulaText, xf: xf})
				pendingFormula = &biffPos{row: row, col: col}
			case 1:
				put(row, col, biffCell{kind: biffBool, xf: xf, flag: result[2] != 0})
			case 2:
				put(row, col, biffCell{kind: biffError, xf: xf, text: errorCode(result[2])})
			default:
				put(row, col, biffCell{kind: biffBlank, xf: xf})
			}
		case recordString:
			if pendingFormula == nil {
				return true, nil
			}
			c := sheet.cells[*pendingFormula]
			if biff8 {
				c.text = decodeUnicodeString(body)
			} else {
				c.text = decodeByteStringWide(body)
			}
			sheet.cells[*pendingFormula] = c
			pendingFormula = nil
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

func cellHeader(body []byte) (row, col int, xf uint16) {
	return int(binary.LittleEndian.Uint16(body)), int(binary.LittleEndian.Uint16(body[2:])), binary.LittleEndian.Uint16(body[4:])
}

// rkCell decodes an RK number: bit 0 divides by 100, bit 1 marks a 30-bit
// signed integer, otherwise the upper 30 bits of an IEEE double.
func rkCell(xf uint16, rk uint32) biffCell {
	if rk&0x02 != 0 {
		value := int64(int32(rk) >> 2)
		if rk&0x01 != 0 {
			return biffCell{kind: biffNumber, xf: xf, number: float64(value) / 100}
		}
		return biffCell{kind: biffInteger, xf: xf, number: float64(value)}
	}
	value := math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	if rk&0x01 != 0 {
		value /= 100
	}
	return biffCell{kind: biffNumber, xf: xf, number: value}
}

func errorCode(code byte) string {
	if text, ok := biffErrorCodes[code]; ok {
		return text
	}
	return fmt.Sprintf("#ERR%d", code)
}

// decodeUnicodeString reads a BIFF8 XLUnicodeString: 16-bit length, option
// flags, optional rich-text and phonetic counts, then the characters.
func decodeUnicodeString(body []byte) string {
	if len(body) < 3 {
		return ""
	}
	count := int(binary.LittleEndian.Uint16(body))
	flags := body[2]
	pos := 3
	if flags&0x08 != 0 {
		pos += 2
	}
	if flags&0x04 != 0 {
		pos += 4
	}
	if flags&0x01 != 0 {
		units := make([]uint16, 0, count)
		for i := 0; i < count && pos+2 <= len(body); i++ {
			units = append(units, binary.LittleEndian.Uint16(body[pos:]))
			pos += 2
		}
		return string(utf16.Decode(units))
	}
	end := min(pos+count, len(body))
	if pos > end {
		return ""
	}
	return latin1(body[pos:end])
}

// decodeByteString reads a BIFF5 string with an 8-bit length.
func decodeByteString(body []byte) string {
	if len(body) < 1 {
		return ""
	}
	end := min(1+int(body[0]), len(body))
	return latin1(body[1:end])
}

// decodeByteStringWide reads a BIFF5 string with a 16-bit length.
func decodeByteStringWide(body []byte) string {
	if len(body) < 2 {
		return ""
	}
	end := min(2+int(binary.LittleEndian.Uint16(body)), len(body))
	return latin1(body[2:end])
}

func latin1(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

// isDate reports whether the number format behind an XF index renders a date.
func (wb *biffWorkbook) isDate(xf uint16) bool {
	if int(xf) >= len(wb.xfFormats) {
		return false
	}
	id := wb.xfFormats[xf]
	if format, ok := wb.formats[id]; ok {
		return isDateLayout(format)
	}
	return isBuiltInDateFormat(int(id))
}

// value converts a raw cell. label is the decoded text for label cells.
func (wb *biffWorkbook) value(c biffCell, label string) cell.Value {
	switch c.kind {
	case biffNumber, biffInteger:
		if wb.isDate(c.xf) {
			if t, err := excelize.ExcelDateToTime(c.number, wb.date1904); err == nil {
				return cell.DateTimeValue(t)
			}
		}
		if c.kind == biffInteger {
			return cell.IntValue(int64(c.number))
		}
		return cell.FloatValue(c.number)
	case biffLabel:
		return cell.TextValue(label)
	case biffFormulaText:
		if c.text == "" {
			return cell.EmptyValue()
		}
		return cell.TextValue(c.text)
	case biffBool:
		return cell.BoolValue(c.flag)
	case biffError:
		return cell.ErrorValue(c.text)
	default:
		return cell.EmptyValue()
	}
}

package importer

import (
	"errors"
	"fmt"

	"traininghours/internal/cell"
)

var (
	// ErrUnsupportedFile is returned when no reader can open the source file.
	ErrUnsupportedFile = errors.New("invalid file type: not a readable xlsx or xls workbook")
	// ErrWorksheetNotFound is returned when the workbook has no first sheet.
	ErrWorksheetNotFound = errors.New("cannot find data worksheet")
)

// Sheet is the first worksheet of a workbook as a grid of raw cells.
// Rows may have different lengths.
type Sheet struct {
	Name string
	Rows [][]cell.Value
}

type Reader interface {
	Name() string
	Read(path string) (*Sheet, error)
}

// DefaultReaders lists readers in trial order: XML container first, legacy
// binary second.
func DefaultReaders() []Reader {
	return []Reader{&ExcelReader{}, &XLSReader{}}
}

// openFirstSheet tries each reader in turn. A reader that opens the file but
// finds no worksheet stops the trial.
func openFirstSheet(path string, readers []Reader) (*Sheet, error) {
	attempts := make([]error, 0, len(readers))
	for _, reader := range readers {
		sheet, err := reader.Read(path)
		if err == nil {
			return sheet, nil
		}
		if errors.Is(err, ErrWorksheetNotFound) {
			return nil, err
		}
		attempts = append(attempts, fmt.Errorf("%s: %w", reader.Name(), err))
	}
	return nil, fmt.Errorf("%w: %s (%v)", ErrUnsupportedFile, path, errors.Join(attempts...))
}

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"traininghours/importer"
)

// WriteWarningsCSV writes one line per rejected source row.
func WriteWarningsCSV(path string, rejections []importer.RowError) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Row", "Column", "Cell", "Message"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, rejection := range rejections {
		row := []string{
			strconv.Itoa(rejection.Row),
			rejection.Column,
			rejection.Cell,
			rejection.Error(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

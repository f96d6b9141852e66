package transform

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"traininghours/importer"
	"traininghours/storage"
	"traininghours/summary"
)

type sourceRow struct {
	date      string
	name      any
	school    any
	hours     any
	framework string
}

func writeSource(t *testing.T, rows ...sourceRow) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()
	sheet := file.GetSheetName(0)

	header := make([]any, len(importer.Columns))
	for i, column := range importer.Columns {
		header[i] = column
	}
	require.NoError(t, file.SetSheetRow(sheet, "A1", &header))

	for i, row := range rows {
		values := []any{
			time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
			"instructor@example.org",
			row.date,
			row.name,
			row.school,
			row.hours,
			row.framework,
		}
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, file.SetSheetRow(sheet, cellName, &values))
	}

	path := filepath.Join(t.TempDir(), "source.xlsx")
	require.NoError(t, file.SaveAs(path))
	return path
}

func TestRun_SuccessWithRejectedRow(t *testing.T) {
	t.Parallel()

	src := writeSource(t,
		sourceRow{date: "10/04", name: "Dana", school: "North", hours: 3.5, framework: "Ministry"},
		sourceRow{date: "not-a-date", name: "Dana", school: "North", hours: 8, framework: "Ministry"},
		sourceRow{date: "11/04", name: "Dana", school: "North", hours: 2, framework: "Ministry"},
	)
	dest := filepath.Join(t.TempDir(), "report")

	result := Run(src, dest, Options{})
	require.True(t, result.Succeeded(), "errors: %v", result.Errors)
	assert.Equal(t, 2, result.RowCount)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Row #3")
	assert.Equal(t, dest+".xlsx", result.Output)

	key := summary.Key{Month: 4, Name: "Dana", School: "North", Framework: "Ministry"}
	assert.Equal(t, map[int]float64{10: 3.5, 11: 2}, result.Table[key])

	file, err := excelize.OpenFile(result.Output)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, []string{"April"}, file.GetSheetList())
	value, err := file.GetCellValue("April", "M2")
	require.NoError(t, err)
	assert.Equal(t, "3.5", value)
}

func TestRun_MonthsOrdered(t *testing.T) {
	t.Parallel()

	src := writeSource(t,
		sourceRow{date: "01/12", name: "A", school: "S", hours: 1, framework: "F"},
		sourceRow{date: "01/01", name: "A", school: "S", hours: 1, framework: "F"},
		sourceRow{date: "01/06", name: "A", school: "S", hours: 1, framework: "F"},
	)

	result := Run(src, filepath.Join(t.TempDir(), "out.xlsx"), Options{})
	require.True(t, result.Succeeded(), "errors: %v", result.Errors)

	file, err := excelize.OpenFile(result.Output)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, []string{"January", "June", "December"}, file.GetSheetList())
}

func TestRun_IsRepeatable(t *testing.T) {
	t.Parallel()

	src := writeSource(t,
		sourceRow{date: "01/03", name: "A", school: "S", hours: 1, framework: "F"},
		sourceRow{date: "01/03", name: "A", school: "S", hours: 2, framework: "F"},
		sourceRow{date: "02/03", name: nil, school: "S", hours: 4, framework: "F"},
	)
	dir := t.TempDir()

	first := Run(src, filepath.Join(dir, "first.xlsx"), Options{})
	second := Run(src, filepath.Join(dir, "second.xlsx"), Options{})
	require.True(t, first.Succeeded())
	require.True(t, second.Succeeded())
	assert.Equal(t, first.Table, second.Table)
}

func TestRun_NonSpreadsheetFails(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))
	dest := filepath.Join(t.TempDir(), "out.xlsx")

	result := Run(src, dest, Options{})
	assert.Equal(t, StatusFailure, result.Status)
	assert.Equal(t, 0, result.RowCount)
	assert.Len(t, result.Errors, 1)
	assert.Empty(t, result.Warnings)
	assert.NoFileExists(t, dest)
}

func TestRun_UnwritableDestinationFails(t *testing.T) {
	t.Parallel()

	src := writeSource(t,
		sourceRow{date: "bad", name: "A", school: "S", hours: 1, framework: "F"},
		sourceRow{date: "01/03", name: "A", school: "S", hours: 1, framework: "F"},
	)

	result := Run(src, filepath.Join(t.TempDir(), "nope", "out.xlsx"), Options{})
	assert.Equal(t, StatusFailure, result.Status)
	assert.Equal(t, 0, result.RowCount)
	assert.Len(t, result.Errors, 1)
	assert.Empty(t, result.Warnings)
}

func TestResult_JSONShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Success(3, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","num_rows":3,"error":[],"warning":[]}`, string(data))

	data, err = json.Marshal(Failure(errors.New("Required header not found: date")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"failure","num_rows":0,"error":["Required header not found: date"],"warning":[]}`, string(data))
}

type fakeJournal struct {
	runs []storage.Run
	err  error
}

func (j *fakeJournal) InsertRun(_ context.Context, run storage.Run) error {
	j.runs = append(j.runs, run)
	return j.err
}

func TestService_JournalsRuns(t *testing.T) {
	t.Parallel()

	src := writeSource(t, sourceRow{date: "01/03", name: "A", school: "S", hours: 1, framework: "F"})
	journal := &fakeJournal{}
	service := NewService(Options{}, journal, nil)

	result := service.Run(context.Background(), src, filepath.Join(t.TempDir(), "out"))
	require.True(t, result.Succeeded())
	require.Len(t, journal.runs, 1)

	run := journal.runs[0]
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "success", run.Status)
	assert.Equal(t, 1, run.RowCount)
	assert.Equal(t, result.Output, run.Destination)
	assert.Empty(t, run.Error)
}

func TestService_JournalErrorDoesNotChangeResult(t *testing.T) {
	t.Parallel()

	journal := &fakeJournal{err: errors.New("disk full")}
	service := NewService(Options{}, journal, nil)

	result := service.Run(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"), "out.xlsx")
	assert.Equal(t, StatusFailure, result.Status)
	require.Len(t, journal.runs, 1)
	assert.Equal(t, result.Errors[0], journal.runs[0].Error)
}

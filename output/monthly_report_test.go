package output

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"traininghours/importer"
	"traininghours/summary"
)

func TestColumnLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{3, "D"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{33, "AH"},
		{34, "AI"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tc := range tests {
		got, err := ColumnLabel(tc.index)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "index %d", tc.index)
	}

	_, err := ColumnLabel(-1)
	require.Error(t, err)
}

func TestEnsureXLSXExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "report.xlsx", EnsureXLSXExtension("report"))
	assert.Equal(t, "report.xlsx", EnsureXLSXExtension("report.xlsx"))
	assert.Equal(t, "report.xlsx", EnsureXLSXExtension("report.xls"))
	assert.Equal(t, "out/report.v2.xlsx", EnsureXLSXExtension("out/report.v2.csv"))
	assert.Equal(t, ".hidden.xlsx", EnsureXLSXExtension(".hidden"))
	assert.Equal(t, "out/.hidden.xlsx", EnsureXLSXExtension("out/.hidden"))
	assert.Equal(t, ".hidden.xlsx", EnsureXLSXExtension(".hidden.csv"))
	assert.Equal(t, "report.xlsx", EnsureXLSXExtension("report."))
}

func TestMonthName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "December", MonthName(12))
	assert.Equal(t, "Month 13", MonthName(13))
}

func sampleTable() summary.Table {
	return summary.Table{
		{Month: 12, Name: "Dana", School: "North", Framework: "Ministry"}: {1: 2},
		{Month: 1, Name: "Noa", School: "South", Framework: "Private"}:    {5: 1.5},
		{Month: 1, Name: "Adi", School: "North", Framework: "Ministry"}:   {10: 3.5, 31: 1, 40: 9},
		{Month: 6, Name: "Adi", School: "North", Framework: "Ministry"}:   {2: 4},
	}
}

func TestBuildMonthlyReport_SheetsInMonthOrder(t *testing.T) {
	t.Parallel()

	file, err := BuildMonthlyReport(sampleTable())
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"January", "June", "December"}, file.GetSheetList())
}

func TestBuildMonthlyReport_HeaderAndRows(t *testing.T) {
	t.Parallel()

	file, err := BuildMonthlyReport(sampleTable())
	require.NoError(t, err)
	defer file.Close()

	expectCell := func(cell, want string) {
		t.Helper()
		got, err := file.GetCellValue("January", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, "cell %s", cell)
	}

	expectCell("A1", "Name")
	expectCell("B1", "School")
	expectCell("C1", "Payment Framework")
	expectCell("D1", "1")
	expectCell("AH1", "31")
	expectCell("AI1", "SUM")

	expectCell("A2", "Adi")
	expectCell("B2", "North")
	expectCell("C2", "Ministry")
	expectCell("M2", "3.5")
	expectCell("AH2", "1")
	expectCell("D2", "")
	expectCell("AJ2", "")

	expectCell("A3", "Noa")
	expectCell("H3", "1.5")

	formula, err := file.GetCellFormula("January", "AI2")
	require.NoError(t, err)
	assert.Equal(t, "SUM(D2:AH2)", formula)

	formula, err = file.GetCellFormula("January", "AI3")
	require.NoError(t, err)
	assert.Equal(t, "SUM(D3:AH3)", formula)
}

func TestBuildMonthlyReport_EmptyTableKeepsDefaultSheet(t *testing.T) {
	t.Parallel()

	file, err := BuildMonthlyReport(summary.Table{})
	require.NoError(t, err)
	defer file.Close()

	assert.Len(t, file.GetSheetList(), 1)
}

func TestWriteMonthlyReport_ForcesExtension(t *testing.T) {
	t.Parallel()

	target, err := WriteMonthlyReport(filepath.Join(t.TempDir(), "result"), sampleTable())
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(target))

	file, err := excelize.OpenFile(target)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, []string{"January", "June", "December"}, file.GetSheetList())
}

func TestWriteMonthlyReport_UnwritableDestination(t *testing.T) {
	t.Parallel()

	_, err := WriteMonthlyReport(filepath.Join(t.TempDir(), "missing", "dir", "result.xlsx"), sampleTable())
	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr), "expected WriteError, got %v", err)
}

func TestWriteWarningsCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "warnings.csv")
	err := WriteWarningsCSV(path, []importer.RowError{
		{Row: 3, Column: importer.ColumnDate, Cell: "C3", Kind: importer.RowErrorCustom, Err: errors.New(`invalid date format "x"`)},
	})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Row", "Column", "Cell", "Message"}, rows[0])
	assert.Equal(t, "3", rows[1][0])
	assert.Equal(t, "C3", rows[1][2])
	assert.Contains(t, rows[1][3], "Row #3:")
}

package services

import (
	"bytes"
	"context"
	"testing"

	"advocate_diary_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func buildCasesWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheetCases)

	header := make([]interface{}, len(caseSheetHeader))
	for i, h := range caseSheetHeader {
		header[i] = h
	}
	f.SetSheetRow(sheetCases, "A1", &header)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		r := row
		f.SetSheetRow(sheetCases, cell, &r)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}
	return buf
}

// caseRow fills the columns named in values, leaving the rest blank
func caseRow(values map[int]interface{}) []interface{} {
	row := make([]interface{}, len(caseSheetHeader))
	for i := range row {
		row[i] = ""
	}
	for col, v := range values {
		row[col] = v
	}
	return row
}

func TestImportCasesXLSX(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()
	svc := NewCaseService(m)
	user := createTestUser(t, m, "asha")
	_, err := NewCourtService(m).Add(ctx, "Sessions Court Pune", user)
	assert.NoError(t, err)

	buf := buildCasesWorkbook(t, [][]interface{}{
		caseRow(map[int]interface{}{
			colUniqueID: "imp-1", colCaseTitle: "State vs Deshmukh", colCourt: "sessions court pune",
			colCaseType: "Criminal Case", colCaseYear: "2022", colNextDate: "2024-06-01",
		}),
		caseRow(map[int]interface{}{colCaseTitle: "No id given", colCourt: "High Court"}),
		caseRow(map[int]interface{}{colUniqueID: "imp-3", colCaseTitle: "Bad court", colCourt: "Moon Court"}),
		caseRow(map[int]interface{}{colUniqueID: "imp-4", colCaseTitle: "Bad year", colCaseYear: "twenty"}),
		caseRow(map[int]interface{}{}),
		caseRow(map[int]interface{}{colUniqueID: "imp-1", colCaseTitle: "Duplicate id"}),
	})

	result, err := svc.ImportCasesXLSX(ctx, buf, user)
	assert.NoError(t, err)
	assert.Equal(t, 5, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 3, result.FailedCount)
	assert.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Moon Court")

	cases, err := svc.GetCases(ctx, &user)
	assert.NoError(t, err)
	if assert.Len(t, cases, 2) {
		imported := cases[0]
		assert.Equal(t, "imp-1", imported.UniqueID)
		assert.Equal(t, "Sessions Court Pune", *imported.CourtName)
		assert.Equal(t, "Criminal Case", *imported.CaseTypeName)
		assert.Equal(t, 2022, *imported.CaseYear)

		generated := cases[1]
		assert.NotEmpty(t, generated.UniqueID)
		assert.Equal(t, "High Court", *generated.CourtName)
	}
}

func TestImportCasesXLSXRejectsOtherWorkbooks(t *testing.T) {
	m := setupEmptyManager(t)
	user := createTestUser(t, m, "asha")

	f := excelize.NewFile()
	buf, _ := f.WriteToBuffer()
	f.Close()

	_, err := NewCaseService(m).ImportCasesXLSX(context.Background(), buf, user)
	assert.Error(t, err)

	_, err = NewCaseService(m).ImportCasesXLSX(context.Background(), bytes.NewReader([]byte("not a workbook")), user)
	assert.Error(t, err)
}

func TestExportCasesXLSXRoundTrip(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()
	svc := NewCaseService(m)
	owner := createTestUser(t, m, "asha")
	other := createTestUser(t, m, "vikram")

	createTestCase(t, m, &models.Case{
		UniqueID:   "exp-1",
		UserID:     &owner,
		CaseTitle:  stringPtr("Joshi vs Joshi"),
		CaseYear:   intPtr(2021),
		CaseStatus: stringPtr(models.CaseStatusPending),
		NextDate:   stringPtr("2024-07-07"),
	})
	createTestCase(t, m, &models.Case{UniqueID: "exp-other", UserID: &other})

	buf, err := svc.ExportCasesXLSX(ctx, owner)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	rows, err := f.GetRows(sheetCases)
	f.Close()
	assert.NoError(t, err)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, caseSheetHeader, rows[0])
		assert.Equal(t, "exp-1", rows[1][colUniqueID])
		assert.Equal(t, "Joshi vs Joshi", rows[1][colCaseTitle])
		assert.Equal(t, "2021", rows[1][colCaseYear])
		assert.Equal(t, "2024-07-07", rows[1][colNextDate])
	}

	// Re-importing into a fresh account recreates the case
	fresh := createTestUser(t, m, "neha")
	exported := rows[1]
	exported[colUniqueID] = "exp-copy"
	row := make([]interface{}, len(exported))
	for i, v := range exported {
		row[i] = v
	}
	result, err := svc.ImportCasesXLSX(ctx, buildCasesWorkbook(t, [][]interface{}{row}), fresh)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
}

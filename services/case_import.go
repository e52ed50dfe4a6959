package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"advocate_diary_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const sheetCases = "Cases"

// Column order of the Cases sheet, shared by export and import
var caseSheetHeader = []string{
	"UniqueID", "CaseTitle", "CNRNumber", "Court", "CaseType", "CaseNumber", "CaseYear",
	"CrimeNumber", "CrimeYear", "DateFiled", "OnBehalfOf", "FirstParty", "OppositeParty",
	"ClientContactNumber", "Accussed", "Undersection", "PoliceStation", "OppositeAdvocate",
	"OppAdvocateContactNumber", "CaseStatus", "PreviousDate", "NextDate",
}

const (
	colUniqueID = iota
	colCaseTitle
	colCNRNumber
	colCourt
	colCaseType
	colCaseNumber
	colCaseYear
	colCrimeNumber
	colCrimeYear
	colDateFiled
	colOnBehalfOf
	colFirstParty
	colOppositeParty
	colClientContact
	colAccussed
	colUndersection
	colPoliceStation
	colOppositeAdvocate
	colOppAdvocateContact
	colCaseStatus
	colPreviousDate
	colNextDate
)

// ImportResult contains the summary of the import process
type ImportResult struct {
	TotalProcessed int
	SuccessCount   int
	FailedCount    int
	Errors         []string
}

// ExportCasesXLSX writes the user's cases to a workbook with a single Cases sheet
func (s *CaseService) ExportCasesXLSX(ctx context.Context, userID int64) (*bytes.Buffer, error) {
	cases, err := s.GetCases(ctx, &userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetCases); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(caseSheetHeader))
	for i, h := range caseSheetHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetCases, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, c := range cases {
		row := []interface{}{
			c.UniqueID, str(c.CaseTitle), str(c.CNRNumber), str(c.CourtName), str(c.CaseTypeName),
			str(c.CaseNumber), year(c.CaseYear), str(c.CrimeNumber), year(c.CrimeYear), str(c.DateFiled),
			str(c.OnBehalfOf), str(c.FirstParty), str(c.OppositeParty), str(c.ClientContactNumber),
			str(c.Accussed), str(c.Undersection), str(c.PoliceStationName), str(c.OppositeAdvocate),
			str(c.OppAdvocateContactNumber), str(c.CaseStatus), str(c.PreviousDate), str(c.NextDate),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetCases, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write case %s: %w", c.UniqueID, err)
		}
	}

	// Header Style
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastCol, _ := excelize.ColumnNumberToName(len(caseSheetHeader))
	f.SetCellStyle(sheetCases, "A1", lastCol+"1", headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// ImportCasesXLSX reads the Cases sheet and adds one case per row for userID.
// Court, case type and police station are matched by name against the lookups
// the user can see. A blank UniqueID gets a generated one. Rows fail
// independently; the failures are listed in the result.
func (s *CaseService) ImportCasesXLSX(ctx context.Context, file io.Reader, userID int64) (*ImportResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheetCases); idx < 0 {
		return nil, fmt.Errorf("invalid excel format: missing %s sheet", sheetCases)
	}

	rows, err := f.GetRows(sheetCases)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases sheet: %w", err)
	}

	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	courts, err := lookupIndex(conn, "Courts", userID)
	if err != nil {
		return nil, err
	}
	caseTypes, err := lookupIndex(conn, "CaseTypes", userID)
	if err != nil {
		return nil, err
	}
	stations, err := lookupIndex(conn, "PoliceStations", userID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []string{}}

	err = conn.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			if i == 0 || blankRow(row) {
				continue
			}
			result.TotalProcessed++

			c, err := caseFromRow(row, userID, courts, caseTypes, stations)
			if err == nil {
				// Savepoint per row so one bad row does not undo the others
				err = tx.Transaction(func(rowTx *gorm.DB) error {
					return rowTx.Create(c).Error
				})
				if err != nil {
					err = storeError("import", casesTable, err)
				}
			}
			if err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
				continue
			}
			result.SuccessCount++
		}
		return nil
	})
	if err != nil {
		return result, storeError("import", casesTable, err)
	}

	log.Printf("[IMPORT] Cases import for user %d: %d processed, %d imported, %d failed",
		userID, result.TotalProcessed, result.SuccessCount, result.FailedCount)
	return result, nil
}

// lookupIndex maps lower-cased names visible to userID to their ids. A private
// row shadows a global row of the same name.
func lookupIndex(conn *gorm.DB, table string, userID int64) (map[string]int64, error) {
	var rows []struct {
		ID     int64
		Name   string
		UserID *int64
	}
	err := conn.Table(table).
		Select("id, name, user_id").
		Where("user_id IS NULL OR user_id = ?", userID).
		Order("user_id IS NOT NULL, id").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError("list", table, err)
	}

	index := make(map[string]int64, len(rows))
	for _, r := range rows {
		index[strings.ToLower(strings.TrimSpace(r.Name))] = r.ID
	}
	return index, nil
}

func caseFromRow(row []string, userID int64, courts, caseTypes, stations map[string]int64) (*models.Case, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	optional := func(i int) *string {
		if v := cell(i); v != "" {
			return &v
		}
		return nil
	}
	resolve := func(i int, index map[string]int64, label string) (*int64, error) {
		name := cell(i)
		if name == "" {
			return nil, nil
		}
		id, ok := index[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown %s %q", label, name)
		}
		return &id, nil
	}
	parseYear := func(i int, label string) (*int, error) {
		v := cell(i)
		if v == "" {
			return nil, nil
		}
		y, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", label, v)
		}
		return &y, nil
	}

	uniqueID := cell(colUniqueID)
	if uniqueID == "" {
		uniqueID = NewCaseUniqueID()
	}

	courtID, courtErr := resolve(colCourt, courts, "court")
	caseTypeID, typeErr := resolve(colCaseType, caseTypes, "case type")
	stationID, stationErr := resolve(colPoliceStation, stations, "police station")
	caseYear, caseYearErr := parseYear(colCaseYear, "case year")
	crimeYear, crimeYearErr := parseYear(colCrimeYear, "crime year")
	if err := errors.Join(courtErr, typeErr, stationErr, caseYearErr, crimeYearErr); err != nil {
		return nil, err
	}

	return &models.Case{
		UniqueID:                 uniqueID,
		UserID:                   &userID,
		CaseTitle:                optional(colCaseTitle),
		CNRNumber:                optional(colCNRNumber),
		CourtID:                  courtID,
		DateFiled:                optional(colDateFiled),
		CaseTypeID:               caseTypeID,
		CaseNumber:               optional(colCaseNumber),
		CaseYear:                 caseYear,
		CrimeNumber:              optional(colCrimeNumber),
		CrimeYear:                crimeYear,
		OnBehalfOf:               optional(colOnBehalfOf),
		FirstParty:               optional(colFirstParty),
		OppositeParty:            optional(colOppositeParty),
		ClientContactNumber:      optional(colClientContact),
		Accussed:                 optional(colAccussed),
		Undersection:             optional(colUndersection),
		PoliceStationID:          stationID,
		OppositeAdvocate:         optional(colOppositeAdvocate),
		OppAdvocateContactNumber: optional(colOppAdvocateContact),
		CaseStatus:               optional(colCaseStatus),
		PreviousDate:             optional(colPreviousDate),
		NextDate:                 optional(colNextDate),
	}, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func year(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

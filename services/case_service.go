package services

import (
	"context"
	"strings"

	"advocate_diary_go/db"
	"advocate_diary_go/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const casesTable = "Cases"

// Columns matched by SearchCases, all case-insensitive substring matches
var caseSearchColumns = []string{
	"c.CaseTitle",
	"c.CNRNumber",
	"c.case_number",
	"c.crime_number",
	"c.FirstParty",
	"c.OppositeParty",
	"c.OnBehalfOf",
	"c.Accussed",
	"c.Undersection",
	"c.OppositeAdvocate",
	"c.ClientContactNumber",
	"co.name",
	"ct.name",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CaseUpdate is a sparse patch of a case. Nil fields are left untouched.
type CaseUpdate struct {
	CaseTitle                *string
	CNRNumber                *string
	CourtID                  *int64
	DateFiled                *string
	CaseTypeID               *int64
	CaseNumber               *string
	CaseYear                 *int
	CrimeNumber              *string
	CrimeYear                *int
	OnBehalfOf               *string
	FirstParty               *string
	OppositeParty            *string
	ClientContactNumber      *string
	Accussed                 *string
	Undersection             *string
	PoliceStationID          *int64
	OppositeAdvocate         *string
	OppAdvocateContactNumber *string
	CaseStatus               *string
	PreviousDate             *string
	NextDate                 *string
}

// columns maps the present fields to their column names
func (u CaseUpdate) columns() map[string]any {
	fields := map[string]any{}
	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	setInt64 := func(column string, v *int64) {
		if v != nil {
			fields[column] = *v
		}
	}
	setInt := func(column string, v *int) {
		if v != nil {
			fields[column] = *v
		}
	}

	setString("CaseTitle", u.CaseTitle)
	setString("CNRNumber", u.CNRNumber)
	setInt64("court_id", u.CourtID)
	setString("dateFiled", u.DateFiled)
	setInt64("case_type_id", u.CaseTypeID)
	setString("case_number", u.CaseNumber)
	setInt("case_year", u.CaseYear)
	setString("crime_number", u.CrimeNumber)
	setInt("crime_year", u.CrimeYear)
	setString("OnBehalfOf", u.OnBehalfOf)
	setString("FirstParty", u.FirstParty)
	setString("OppositeParty", u.OppositeParty)
	setString("ClientContactNumber", u.ClientContactNumber)
	setString("Accussed", u.Accussed)
	setString("Undersection", u.Undersection)
	setInt64("police_station_id", u.PoliceStationID)
	setString("OppositeAdvocate", u.OppositeAdvocate)
	setString("OppAdvocateContactNumber", u.OppAdvocateContactNumber)
	setString("CaseStatus", u.CaseStatus)
	setString("PreviousDate", u.PreviousDate)
	setString("NextDate", u.NextDate)
	return fields
}

// CaseService is the repository for the Cases table and its history log
type CaseService struct {
	db Connector
}

func NewCaseService(c Connector) *CaseService {
	return &CaseService{db: c}
}

// NewCaseUniqueID generates the client-side identifier a case carries before it has a row id
func NewCaseUniqueID() string {
	return uuid.New().String()
}

// AddCase inserts a case and returns its id. UniqueID is required and must be unique.
func (s *CaseService) AddCase(ctx context.Context, c *models.Case) (int64, error) {
	if strings.TrimSpace(c.UniqueID) == "" {
		return 0, validationErrorf("uniqueId is required")
	}

	conn, err := session(ctx, s.db)
	if err != nil {
		return 0, err
	}

	c.ID = 0
	if err := conn.Create(c).Error; err != nil {
		return 0, storeError("add", casesTable, err)
	}
	return c.ID, nil
}

// detailQuery selects cases with the display names of their lookups
func detailQuery(conn *gorm.DB) *gorm.DB {
	return conn.Table("Cases AS c").
		Select("c.*, co.name AS court_name, ct.name AS case_type_name, ps.name AS police_station_name").
		Joins("LEFT JOIN Courts co ON co.id = c.court_id").
		Joins("LEFT JOIN CaseTypes ct ON ct.id = c.case_type_id").
		Joins("LEFT JOIN PoliceStations ps ON ps.id = c.police_station_id")
}

// GetCaseByID returns the case with its court, case type and police station names,
// or nil when no such case exists
func (s *CaseService) GetCaseByID(ctx context.Context, id int64) (*models.CaseDetail, error) {
	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	var rows []models.CaseDetail
	if err := detailQuery(conn).Where("c.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, storeError("get", casesTable, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// GetCases lists cases, only the given user's when userID is set.
// Ordered by next hearing, undated cases last.
func (s *CaseService) GetCases(ctx context.Context, userID *int64) ([]models.CaseDetail, error) {
	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	query := detailQuery(conn)
	if userID != nil {
		query = query.Where("c.user_id = ?", *userID)
	}

	var rows []models.CaseDetail
	if err := query.Order("c.NextDate IS NULL, c.NextDate ASC, c.id ASC").Scan(&rows).Error; err != nil {
		return nil, storeError("list", casesTable, err)
	}
	return rows, nil
}

// SearchCases matches query as a literal, case-insensitive substring.
// Both sides are folded with casefold, so non-ASCII names match regardless of case.
// A blank query returns no rows and does not touch the store.
func (s *CaseService) SearchCases(ctx context.Context, query string, userID *int64) ([]models.CaseDetail, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.CaseDetail{}, nil
	}

	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	pattern := "%" + likeEscaper.Replace(db.CaseFold(query)) + "%"
	clauses := make([]string, len(caseSearchColumns))
	args := make([]any, len(caseSearchColumns))
	for i, column := range caseSearchColumns {
		clauses[i] = "casefold(COALESCE(" + column + `, '')) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}

	q := detailQuery(conn).Where("("+strings.Join(clauses, " OR ")+")", args...)
	if userID != nil {
		q = q.Where("c.user_id = ?", *userID)
	}

	rows := []models.CaseDetail{}
	if err := q.Order("c.NextDate IS NULL, c.NextDate ASC, c.id ASC").Scan(&rows).Error; err != nil {
		return nil, storeError("search", casesTable, err)
	}
	return rows, nil
}

// GetUpcomingHearings returns the user's cases listed on or after fromDate, soonest first.
// A limit of zero or less returns them all.
func (s *CaseService) GetUpcomingHearings(ctx context.Context, userID int64, fromDate string, limit int) ([]models.CaseDetail, error) {
	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	q := detailQuery(conn).
		Where("c.user_id = ? AND c.NextDate IS NOT NULL AND c.NextDate >= ?", userID, fromDate).
		Order("c.NextDate ASC, c.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.CaseDetail
	if err := q.Scan(&rows).Error; err != nil {
		return nil, storeError("upcoming", casesTable, err)
	}
	return rows, nil
}

// UpdateCase applies a sparse patch on behalf of the case owner.
//
// When the patch moves NextDate, the stored NextDate becomes PreviousDate and one
// CaseHistoryLog row records the change. The row update and the history entry
// commit together. An empty patch is a no-op and never reaches the store.
func (s *CaseService) UpdateCase(ctx context.Context, id int64, update CaseUpdate, actorUserID int64) (MutationResult, error) {
	fields := update.columns()
	if len(fields) == 0 {
		return ResultNoop, nil
	}

	conn, err := session(ctx, s.db)
	if err != nil {
		return ResultNoop, err
	}

	result := ResultNoop
	err = conn.Transaction(func(tx *gorm.DB) error {
		var current []models.Case
		if err := tx.Select("id", "user_id", "NextDate").Where("id = ?", id).Limit(1).Find(&current).Error; err != nil {
			return err
		}
		if len(current) == 0 {
			result = ResultNotFound
			return nil
		}
		if !models.OwnedBy(current[0].UserID, actorUserID) {
			result = ResultForbidden
			return nil
		}

		previous := current[0].NextDate
		moved := update.NextDate != nil && (previous == nil || *previous != *update.NextDate)
		if moved {
			fields["PreviousDate"] = previous
		}

		if err := tx.Model(&models.Case{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}

		if moved {
			entry := models.CaseHistoryLog{
				CaseID:       id,
				UserID:       &actorUserID,
				FieldChanged: models.HistoryFieldNextDate,
				OldValue:     previous,
				NewValue:     update.NextDate,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		result = ResultApplied
		return nil
	})
	if err != nil {
		return ResultNoop, storeError("update", casesTable, err)
	}
	return result, nil
}

// DeleteCase removes an owned case. Documents, history and timeline rows go with it.
func (s *CaseService) DeleteCase(ctx context.Context, id, userID int64) (MutationResult, error) {
	return mutateOwned(ctx, s.db, "delete", casesTable, id, userID, func(tx *gorm.DB) error {
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Case{}).Error
	})
}

// GetCaseHistory returns the change log of a case, newest first
func (s *CaseService) GetCaseHistory(ctx context.Context, caseID int64) ([]models.CaseHistoryLog, error) {
	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	var entries []models.CaseHistoryLog
	err = conn.Where("case_id = ?", caseID).
		Order("timestamp DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, storeError("history", "CaseHistoryLog", err)
	}
	return entries, nil
}

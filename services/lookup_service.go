package services

import (
	"context"
	"strings"

	"advocate_diary_go/models"

	"gorm.io/gorm"
)

type lookupRecord interface {
	models.CaseType | models.Court | models.District | models.PoliceStation
}

// lookupRepo is the shared core of the four reference tables. Reads return
// global rows plus the caller's own; writes only ever touch the caller's own.
type lookupRepo[T lookupRecord] struct {
	db    Connector
	table string
}

func (r lookupRepo[T]) list(ctx context.Context, userID int64) ([]T, error) {
	conn, err := session(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []T
	err = conn.Where("user_id IS NULL OR user_id = ?", userID).
		Order("name ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("list", r.table, err)
	}
	return rows, nil
}

func (r lookupRepo[T]) create(ctx context.Context, name string, row *T) error {
	if strings.TrimSpace(name) == "" {
		return validationErrorf("%s name is required", r.table)
	}

	conn, err := session(ctx, r.db)
	if err != nil {
		return err
	}
	if err := conn.Create(row).Error; err != nil {
		return storeError("add", r.table, err)
	}
	return nil
}

func (r lookupRepo[T]) rename(ctx context.Context, id int64, name string, userID int64) (MutationResult, error) {
	if strings.TrimSpace(name) == "" {
		return ResultNoop, validationErrorf("%s name is required", r.table)
	}
	return mutateOwned(ctx, r.db, "update", r.table, id, userID, func(tx *gorm.DB) error {
		return tx.Table(r.table).Where("id = ? AND user_id = ?", id, userID).Update("name", name).Error
	})
}

// remove deletes an owned row; Cases pointing at it keep their other data
// because the reference is declared ON DELETE SET NULL
func (r lookupRepo[T]) remove(ctx context.Context, id, userID int64) (MutationResult, error) {
	return mutateOwned(ctx, r.db, "delete", r.table, id, userID, func(tx *gorm.DB) error {
		return tx.Exec("DELETE FROM "+r.table+" WHERE id = ? AND user_id = ?", id, userID).Error
	})
}

// CaseTypeService manages the case type taxonomy
type CaseTypeService struct {
	repo lookupRepo[models.CaseType]
}

func NewCaseTypeService(c Connector) *CaseTypeService {
	return &CaseTypeService{repo: lookupRepo[models.CaseType]{db: c, table: models.CaseType{}.TableName()}}
}

// List returns global case types and the user's own
func (s *CaseTypeService) List(ctx context.Context, userID int64) ([]models.CaseType, error) {
	return s.repo.list(ctx, userID)
}

// Add creates a private case type. A duplicate name for the same user fails
// with a unique-constraint error; another user's identical name does not.
func (s *CaseTypeService) Add(ctx context.Context, name string, userID int64) (int64, error) {
	row := models.CaseType{Name: strings.TrimSpace(name), UserID: &userID}
	if err := s.repo.create(ctx, name, &row); err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *CaseTypeService) Update(ctx context.Context, id int64, name string, userID int64) (MutationResult, error) {
	return s.repo.rename(ctx, id, strings.TrimSpace(name), userID)
}

func (s *CaseTypeService) Delete(ctx context.Context, id, userID int64) (MutationResult, error) {
	return s.repo.remove(ctx, id, userID)
}

// CourtService manages the court list
type CourtService struct {
	repo lookupRepo[models.Court]
}

func NewCourtService(c Connector) *CourtService {
	return &CourtService{repo: lookupRepo[models.Court]{db: c, table: models.Court{}.TableName()}}
}

func (s *CourtService) List(ctx context.Context, userID int64) ([]models.Court, error) {
	return s.repo.list(ctx, userID)
}

func (s *CourtService) Add(ctx context.Context, name string, userID int64) (int64, error) {
	row := models.Court{Name: strings.TrimSpace(name), UserID: &userID}
	if err := s.repo.create(ctx, name, &row); err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *CourtService) Update(ctx context.Context, id int64, name string, userID int64) (MutationResult, error) {
	return s.repo.rename(ctx, id, strings.TrimSpace(name), userID)
}

func (s *CourtService) Delete(ctx context.Context, id, userID int64) (MutationResult, error) {
	return s.repo.remove(ctx, id, userID)
}

// DistrictService manages districts. The same district name may exist once per state.
type DistrictService struct {
	repo lookupRepo[models.District]
}

func NewDistrictService(c Connector) *DistrictService {
	return &DistrictService{repo: lookupRepo[models.District]{db: c, table: models.District{}.TableName()}}
}

func (s *DistrictService) List(ctx context.Context, userID int64) ([]models.District, error) {
	return s.repo.list(ctx, userID)
}

func (s *DistrictService) Add(ctx context.Context, name string, state *string, userID int64) (int64, error) {
	row := models.District{Name: strings.TrimSpace(name), State: state, UserID: &userID}
	if err := s.repo.create(ctx, name, &row); err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *DistrictService) Update(ctx context.Context, id int64, name string, userID int64) (MutationResult, error) {
	return s.repo.rename(ctx, id, strings.TrimSpace(name), userID)
}

func (s *DistrictService) Delete(ctx context.Context, id, userID int64) (MutationResult, error) {
	return s.repo.remove(ctx, id, userID)
}

// PoliceStationService manages police stations, optionally linked to a district
type PoliceStationService struct {
	repo lookupRepo[models.PoliceStation]
}

func NewPoliceStationService(c Connector) *PoliceStationService {
	return &PoliceStationService{repo: lookupRepo[models.PoliceStation]{db: c, table: models.PoliceStation{}.TableName()}}
}

func (s *PoliceStationService) List(ctx context.Context, userID int64) ([]models.PoliceStation, error) {
	return s.repo.list(ctx, userID)
}

func (s *PoliceStationService) Add(ctx context.Context, name string, districtID *int64, userID int64) (int64, error) {
	row := models.PoliceStation{Name: strings.TrimSpace(name), DistrictID: districtID, UserID: &userID}
	if err := s.repo.create(ctx, name, &row); err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *PoliceStationService) Update(ctx context.Context, id int64, name string, userID int64) (MutationResult, error) {
	return s.repo.rename(ctx, id, strings.TrimSpace(name), userID)
}

func (s *PoliceStationService) Delete(ctx context.Context, id, userID int64) (MutationResult, error) {
	return s.repo.remove(ctx, id, userID)
}

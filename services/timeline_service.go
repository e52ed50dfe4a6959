package services

import (
	"context"
	"strings"

	"advocate_diary_go/models"
)

type timelineRecord interface {
	models.TimelineEvent | models.CaseTimelineEvent
}

// timelineRepo serves both event shapes; they differ only in column names
type timelineRepo[T timelineRecord] struct {
	db       Connector
	table    string
	dateCol  string
	textCol  string
	textName string
}

func (r timelineRepo[T]) add(ctx context.Context, row *T, caseID int64, date, text string) error {
	if caseID <= 0 {
		return validationErrorf("case id is required")
	}
	if strings.TrimSpace(date) == "" {
		return validationErrorf("%s is required", r.dateCol)
	}
	if strings.TrimSpace(text) == "" {
		return validationErrorf("%s is required", r.textName)
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

func (r timelineRepo[T]) byCase(ctx context.Context, caseID int64) ([]T, error) {
	conn, err := session(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []T
	err = conn.Where("case_id = ?", caseID).
		Order(r.dateCol + " DESC, created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("list", r.table, err)
	}
	return rows, nil
}

// update applies the present fields. Nothing to apply, or no such row, is false.
func (r timelineRepo[T]) update(ctx context.Context, id int64, date, text *string) (bool, error) {
	fields := map[string]any{}
	if date != nil {
		if strings.TrimSpace(*date) == "" {
			return false, validationErrorf("%s cannot be blank", r.dateCol)
		}
		fields[r.dateCol] = *date
	}
	if text != nil {
		if strings.TrimSpace(*text) == "" {
			return false, validationErrorf("%s cannot be blank", r.textName)
		}
		fields[r.textCol] = *text
	}
	if len(fields) == 0 {
		return false, nil
	}

	conn, err := session(ctx, r.db)
	if err != nil {
		return false, err
	}

	res := conn.Table(r.table).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, storeError("update", r.table, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r timelineRepo[T]) remove(ctx context.Context, id int64) (bool, error) {
	conn, err := session(ctx, r.db)
	if err != nil {
		return false, err
	}

	res := conn.Exec("DELETE FROM "+r.table+" WHERE id = ?", id)
	if res.Error != nil {
		return false, storeError("delete", r.table, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// TimelineEventUpdate is a sparse patch of a milestone
type TimelineEventUpdate struct {
	EventDate   *string
	Description *string
}

// CaseTimelineEventUpdate is a sparse patch of a hearing note
type CaseTimelineEventUpdate struct {
	HearingDate *string
	Notes       *string
}

// TimelineService manages the two editable event logs of a case: milestones
// (TimelineEvents) and hearing notes (CaseTimelineEvents). The automatic
// CaseHistoryLog is written only by CaseService.UpdateCase.
type TimelineService struct {
	milestones timelineRepo[models.TimelineEvent]
	hearings   timelineRepo[models.CaseTimelineEvent]
}

func NewTimelineService(c Connector) *TimelineService {
	return &TimelineService{
		milestones: timelineRepo[models.TimelineEvent]{
			db: c, table: "TimelineEvents", dateCol: "event_date", textCol: "description", textName: "description",
		},
		hearings: timelineRepo[models.CaseTimelineEvent]{
			db: c, table: "CaseTimelineEvents", dateCol: "hearing_date", textCol: "notes", textName: "notes",
		},
	}
}

func (s *TimelineService) AddTimelineEvent(ctx context.Context, event *models.TimelineEvent) (int64, error) {
	if err := s.milestones.add(ctx, event, event.CaseID, event.EventDate, event.Description); err != nil {
		return 0, err
	}
	return event.ID, nil
}

// GetTimelineEventsByCaseID returns milestones most recent first
func (s *TimelineService) GetTimelineEventsByCaseID(ctx context.Context, caseID int64) ([]models.TimelineEvent, error) {
	return s.milestones.byCase(ctx, caseID)
}

func (s *TimelineService) UpdateTimelineEvent(ctx context.Context, id int64, update TimelineEventUpdate) (bool, error) {
	return s.milestones.update(ctx, id, update.EventDate, update.Description)
}

func (s *TimelineService) DeleteTimelineEvent(ctx context.Context, id int64) (bool, error) {
	return s.milestones.remove(ctx, id)
}

func (s *TimelineService) AddCaseTimelineEvent(ctx context.Context, event *models.CaseTimelineEvent) (int64, error) {
	if err := s.hearings.add(ctx, event, event.CaseID, event.HearingDate, event.Notes); err != nil {
		return 0, err
	}
	return event.ID, nil
}

// GetCaseTimelineEventsByCaseID returns hearing notes most recent first
func (s *TimelineService) GetCaseTimelineEventsByCaseID(ctx context.Context, caseID int64) ([]models.CaseTimelineEvent, error) {
	return s.hearings.byCase(ctx, caseID)
}

func (s *TimelineService) UpdateCaseTimelineEvent(ctx context.Context, id int64, update CaseTimelineEventUpdate) (bool, error) {
	return s.hearings.update(ctx, id, update.HearingDate, update.Notes)
}

func (s *TimelineService) DeleteCaseTimelineEvent(ctx context.Context, id int64) (bool, error) {
	return s.hearings.remove(ctx, id)
}

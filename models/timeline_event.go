package models

// TimelineEvent is a milestone entered against a case (filing, order passed, evidence closed...).
type TimelineEvent struct {
	ID          int64  `gorm:"column:id;primaryKey" json:"id"`
	CaseID      int64  `gorm:"column:case_id" json:"case_id"`
	EventDate   string `gorm:"column:event_date" json:"event_date"`
	Description string `gorm:"column:description" json:"description"`
	UserID      *int64 `gorm:"column:user_id" json:"user_id,omitempty"`
	CreatedAt   string `gorm:"column:created_at;<-:false" json:"created_at"`
	UpdatedAt   string `gorm:"column:updated_at;<-:false" json:"updated_at"`
}

func (TimelineEvent) TableName() string {
	return "TimelineEvents"
}

// CaseTimelineEvent is a note taken at a hearing.
type CaseTimelineEvent struct {
	ID          int64  `gorm:"column:id;primaryKey" json:"id"`
	CaseID      int64  `gorm:"column:case_id" json:"case_id"`
	HearingDate string `gorm:"column:hearing_date" json:"hearing_date"`
	Notes       string `gorm:"column:notes" json:"notes"`
	UserID      *int64 `gorm:"column:user_id" json:"user_id,omitempty"`
	CreatedAt   string `gorm:"column:created_at;<-:false" json:"created_at"`
	UpdatedAt   string `gorm:"column:updated_at;<-:false" json:"updated_at"`
}

func (CaseTimelineEvent) TableName() string {
	return "CaseTimelineEvents"
}

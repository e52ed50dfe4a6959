package models

import "strings"

// Case status values used by the diary screens. The column is free text, these are the defaults.
const (
	CaseStatusPending  = "Pending"
	CaseStatusDisposed = "Disposed"
	CaseStatusClosed   = "Closed"
)

// HistoryFieldNextDate is the only field whose changes are written to CaseHistoryLog
const HistoryFieldNextDate = "NextDate"

// Case represents a legal case in the practitioner's diary.
// Column names keep the mixed casing of the on-device schema.
type Case struct {
	ID       int64  `gorm:"column:id;primaryKey" json:"id"`
	UniqueID string `gorm:"column:uniqueId" json:"uniqueId"`
	UserID   *int64 `gorm:"column:user_id" json:"user_id,omitempty"`

	CaseTitle   *string `gorm:"column:CaseTitle" json:"CaseTitle,omitempty"`
	CNRNumber   *string `gorm:"column:CNRNumber" json:"CNRNumber,omitempty"`
	CourtID     *int64  `gorm:"column:court_id" json:"court_id,omitempty"`
	DateFiled   *string `gorm:"column:dateFiled" json:"dateFiled,omitempty"`
	CaseTypeID  *int64  `gorm:"column:case_type_id" json:"case_type_id,omitempty"`
	CaseNumber  *string `gorm:"column:case_number" json:"case_number,omitempty"`
	CaseYear    *int    `gorm:"column:case_year" json:"case_year,omitempty"`
	CrimeNumber *string `gorm:"column:crime_number" json:"crime_number,omitempty"`
	CrimeYear   *int    `gorm:"column:crime_year" json:"crime_year,omitempty"`

	// Parties
	OnBehalfOf          *string `gorm:"column:OnBehalfOf" json:"OnBehalfOf,omitempty"`
	FirstParty          *string `gorm:"column:FirstParty" json:"FirstParty,omitempty"`
	OppositeParty       *string `gorm:"column:OppositeParty" json:"OppositeParty,omitempty"`
	ClientContactNumber *string `gorm:"column:ClientContactNumber" json:"ClientContactNumber,omitempty"`
	Accussed            *string `gorm:"column:Accussed" json:"Accussed,omitempty"`
	Undersection        *string `gorm:"column:Undersection" json:"Undersection,omitempty"`
	PoliceStationID     *int64  `gorm:"column:police_station_id" json:"police_station_id,omitempty"`

	OppositeAdvocate         *string `gorm:"column:OppositeAdvocate" json:"OppositeAdvocate,omitempty"`
	OppAdvocateContactNumber *string `gorm:"column:OppAdvocateContactNumber" json:"OppAdvocateContactNumber,omitempty"`

	// Hearing tracking
	CaseStatus   *string `gorm:"column:CaseStatus" json:"CaseStatus,omitempty"`
	PreviousDate *string `gorm:"column:PreviousDate" json:"PreviousDate,omitempty"`
	NextDate     *string `gorm:"column:NextDate" json:"NextDate,omitempty"`

	// Maintained by the database (default + trigger)
	CreatedAt string `gorm:"column:created_at;<-:false" json:"created_at"`
	UpdatedAt string `gorm:"column:updated_at;<-:false" json:"updated_at"`
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "Cases"
}

// Title returns the case title, or "FirstParty vs OppositeParty" when no title was entered
func (c *Case) Title() string {
	if c.CaseTitle != nil && strings.TrimSpace(*c.CaseTitle) != "" {
		return *c.CaseTitle
	}
	var parts []string
	if c.FirstParty != nil && *c.FirstParty != "" {
		parts = append(parts, *c.FirstParty)
	}
	if c.OppositeParty != nil && *c.OppositeParty != "" {
		parts = append(parts, *c.OppositeParty)
	}
	return strings.Join(parts, " vs ")
}

// CaseDetail is a Case denormalized with the display names of its lookups
type CaseDetail struct {
	Case
	CourtName         *string `gorm:"column:court_name" json:"court_name,omitempty"`
	CaseTypeName      *string `gorm:"column:case_type_name" json:"case_type_name,omitempty"`
	PoliceStationName *string `gorm:"column:police_station_name" json:"police_station_name,omitempty"`
}

// CaseHistoryLog is an append-only record of a tracked field change
type CaseHistoryLog struct {
	ID           int64   `gorm:"column:id;primaryKey" json:"id"`
	CaseID       int64   `gorm:"column:case_id" json:"case_id"`
	Timestamp    string  `gorm:"column:timestamp;<-:false" json:"timestamp"`
	UserID       *int64  `gorm:"column:user_id" json:"user_id,omitempty"`
	FieldChanged string  `gorm:"column:field_changed" json:"field_changed"`
	OldValue     *string `gorm:"column:old_value" json:"old_value,omitempty"`
	NewValue     *string `gorm:"column:new_value" json:"new_value,omitempty"`
}

func (CaseHistoryLog) TableName() string {
	return "CaseHistoryLog"
}

package models

import "gorm.io/datatypes"

// UserInformation is the stored row of a lawyer profile; one per user.
// Composite fields are kept as encoded JSON and only decoded through
// the helpers in json_fields.go.
type UserInformation struct {
	UserID          int64          `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Name            *string        `gorm:"column:name"`
	Designation     *string        `gorm:"column:designation"`
	Bio             *string        `gorm:"column:bio"`
	AvatarURI       *string        `gorm:"column:avatar_uri"`
	BarCouncilID    *string        `gorm:"column:bar_council_id"`
	ExperienceYears *int           `gorm:"column:experience_years"`
	PracticeAreas   datatypes.JSON `gorm:"column:practiceAreas"`
	ContactInfo     datatypes.JSON `gorm:"column:contactInfo"`
	Languages       datatypes.JSON `gorm:"column:languages"`
	Stats           datatypes.JSON `gorm:"column:stats"`
	RecentActivity  datatypes.JSON `gorm:"column:recentActivity"`
	UpdatedAt       string         `gorm:"column:updated_at;<-:false"`
}

// TableName specifies the table name for UserInformation model
func (UserInformation) TableName() string {
	return "UserInformation"
}

// UserProfile is the decoded lawyer profile handed to callers
type UserProfile struct {
	UserID          int64            `json:"user_id"`
	Name            *string          `json:"name,omitempty"`
	Designation     *string          `json:"designation,omitempty"`
	Bio             *string          `json:"bio,omitempty"`
	AvatarURI       *string          `json:"avatar_uri,omitempty"`
	BarCouncilID    *string          `json:"bar_council_id,omitempty"`
	ExperienceYears *int             `json:"experience_years,omitempty"`
	PracticeAreas   []string         `json:"practiceAreas"`
	ContactInfo     map[string]any   `json:"contactInfo"`
	Languages       []string         `json:"languages"`
	Stats           map[string]any   `json:"stats"`
	RecentActivity  []map[string]any `json:"recentActivity"`
	UpdatedAt       string           `json:"updated_at,omitempty"`
}

// ToRow encodes the profile for storage
func (p *UserProfile) ToRow() (*UserInformation, error) {
	practiceAreas, err := EncodeJSON(p.PracticeAreas, EmptyList)
	if err != nil {
		return nil, err
	}
	contactInfo, err := EncodeJSON(p.ContactInfo, EmptyObject)
	if err != nil {
		return nil, err
	}
	languages, err := EncodeJSON(p.Languages, EmptyList)
	if err != nil {
		return nil, err
	}
	stats, err := EncodeJSON(p.Stats, EmptyObject)
	if err != nil {
		return nil, err
	}
	recentActivity, err := EncodeJSON(p.RecentActivity, EmptyList)
	if err != nil {
		return nil, err
	}

	return &UserInformation{
		UserID:          p.UserID,
		Name:            p.Name,
		Designation:     p.Designation,
		Bio:             p.Bio,
		AvatarURI:       p.AvatarURI,
		BarCouncilID:    p.BarCouncilID,
		ExperienceYears: p.ExperienceYears,
		PracticeAreas:   practiceAreas,
		ContactInfo:     contactInfo,
		Languages:       languages,
		Stats:           stats,
		RecentActivity:  recentActivity,
	}, nil
}

// Profile decodes a stored row. It never fails: unreadable composite
// columns come back as empty collections.
func (r *UserInformation) Profile() *UserProfile {
	return &UserProfile{
		UserID:          r.UserID,
		Name:            r.Name,
		Designation:     r.Designation,
		Bio:             r.Bio,
		AvatarURI:       r.AvatarURI,
		BarCouncilID:    r.BarCouncilID,
		ExperienceYears: r.ExperienceYears,
		PracticeAreas:   DecodeList(r.PracticeAreas),
		ContactInfo:     DecodeObject(r.ContactInfo),
		Languages:       DecodeList(r.Languages),
		Stats:           DecodeObject(r.Stats),
		RecentActivity:  DecodeObjectList(r.RecentActivity),
		UpdatedAt:       r.UpdatedAt,
	}
}

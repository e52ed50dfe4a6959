package models

// CaseType classifies a case (Civil, Criminal, ...)
type CaseType struct {
	ID        int64  `gorm:"column:id;primaryKey" json:"id"`
	Name      string `gorm:"column:name" json:"name"`
	UserID    *int64 `gorm:"column:user_id" json:"user_id,omitempty"`
	CreatedAt string `gorm:"column:created_at;<-:false" json:"created_at"`
}

func (CaseType) TableName() string {
	return "CaseTypes"
}

// Court is a court a case is filed in
type Court struct {
	ID        int64  `gorm:"column:id;primaryKey" json:"id"`
	Name      string `gorm:"column:name" json:"name"`
	UserID    *int64 `gorm:"column:user_id" json:"user_id,omitempty"`
	CreatedAt string `gorm:"column:created_at;<-:false" json:"created_at"`
}

func (Court) TableName() string {
	return "Courts"
}

// District is unique per (name, state, owner)
type District struct {
	ID        int64   `gorm:"column:id;primaryKey" json:"id"`
	Name      string  `gorm:"column:name" json:"name"`
	State     *string `gorm:"column:state" json:"state,omitempty"`
	UserID    *int64  `gorm:"column:user_id" json:"user_id,omitempty"`
	CreatedAt string  `gorm:"column:created_at;<-:false" json:"created_at"`
}

func (District) TableName() string {
	return "Districts"
}

// PoliceStation optionally belongs to a district; the link is cleared when the district goes
type PoliceStation struct {
	ID         int64  `gorm:"column:id;primaryKey" json:"id"`
	Name       string `gorm:"column:name" json:"name"`
	DistrictID *int64 `gorm:"column:district_id" json:"district_id,omitempty"`
	UserID     *int64 `gorm:"column:user_id" json:"user_id,omitempty"`
	CreatedAt  string `gorm:"column:created_at;<-:false" json:"created_at"`
}

func (PoliceStation) TableName() string {
	return "PoliceStations"
}

// IsGlobal reports whether the row is shared by every user
func IsGlobal(userID *int64) bool {
	return userID == nil
}

// OwnedBy reports whether a row with the given owner belongs to userID
func OwnedBy(owner *int64, userID int64) bool {
	return owner != nil && *owner == userID
}

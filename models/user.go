package models

// User is the root owner entity. Rows elsewhere reference it through a nullable user_id:
// NULL marks a global row, a value marks a row private to that user.
type User struct {
	ID        int64   `gorm:"column:id;primaryKey" json:"id"`
	Name      *string `gorm:"column:name" json:"name,omitempty"`
	Email     *string `gorm:"column:email" json:"email,omitempty"`
	CreatedAt string  `gorm:"column:created_at;<-:false" json:"created_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "Users"
}

// DisplayName returns the name, falling back to the email
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.Email != nil {
		return *u.Email
	}
	return ""
}

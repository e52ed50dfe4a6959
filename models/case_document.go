package models

import "fmt"

// CaseDocument is the metadata row of a file attached to a case.
// The bytes live wherever FileURI points; this row never touches them.
type CaseDocument struct {
	ID                  int64   `gorm:"column:id;primaryKey" json:"id"`
	CaseID              int64   `gorm:"column:case_id" json:"case_id"`
	StoredFilename      string  `gorm:"column:stored_filename" json:"stored_filename"`
	OriginalDisplayName string  `gorm:"column:original_display_name" json:"original_display_name"`
	FileType            *string `gorm:"column:file_type" json:"file_type,omitempty"`
	FileSize            *int64  `gorm:"column:file_size" json:"file_size,omitempty"`
	FileURI             *string `gorm:"column:file_uri" json:"file_uri,omitempty"`
	CreatedAt           string  `gorm:"column:created_at;<-:false" json:"created_at"`
	UserID              *int64  `gorm:"column:user_id" json:"user_id,omitempty"`
}

// TableName specifies the table name for CaseDocument model
func (CaseDocument) TableName() string {
	return "CaseDocuments"
}

// HumanSize formats FileSize for display ("1.2 MB")
func (d *CaseDocument) HumanSize() string {
	if d.FileSize == nil {
		return ""
	}
	size := float64(*d.FileSize)
	units := []string{"B", "KB", "MB", "GB"}
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", *d.FileSize)
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}

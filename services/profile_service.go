package services

import (
	"context"
	"fmt"

	"advocate_diary_go/models"

	"gorm.io/gorm/clause"
)

const profilesTable = "UserInformation"

// ProfileService stores one lawyer profile per user
type ProfileService struct {
	db Connector
}

func NewProfileService(c Connector) *ProfileService {
	return &ProfileService{db: c}
}

// GetUserProfile returns the decoded profile, nil when the user has none.
// Composite fields that are missing or unreadable come back empty.
func (s *ProfileService) GetUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	var rows []models.UserInformation
	if err := conn.Where("user_id = ?", userID).Limit(1).Find(&rows).Error; err != nil {
		return nil, storeError("get", profilesTable, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Profile(), nil
}

// UpdateUserProfile replaces the user's profile row. Fields are not merged:
// read, modify and write back to change part of a profile.
func (s *ProfileService) UpdateUserProfile(ctx context.Context, userID int64, profile models.UserProfile) error {
	profile.UserID = userID
	row, err := profile.ToRow()
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	conn, err := session(ctx, s.db)
	if err != nil {
		return err
	}

	if err := conn.Clauses(clause.Insert{Modifier: "OR REPLACE"}).Create(row).Error; err != nil {
		return storeError("upsert", profilesTable, err)
	}
	return nil
}

package services

import (
	"context"
	"strings"

	"advocate_diary_go/models"
)

const usersTable = "Users"

// UserService manages the owner rows everything else hangs off
type UserService struct {
	db Connector
}

func NewUserService(c Connector) *UserService {
	return &UserService{db: c}
}

// CreateUser inserts a user. A repeated email fails with a unique-constraint error.
func (s *UserService) CreateUser(ctx context.Context, name, email *string) (int64, error) {
	if email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*email))
		if normalized == "" {
			email = nil
		} else {
			email = &normalized
		}
	}

	conn, err := session(ctx, s.db)
	if err != nil {
		return 0, err
	}

	user := models.User{Name: name, Email: email}
	if err := conn.Create(&user).Error; err != nil {
		return 0, storeError("create", usersTable, err)
	}
	return user.ID, nil
}

// GetUser returns the user or nil
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

// GetUserByEmail matches case-insensitively; nil when unknown
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (s *UserService) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := conn.Where(where, arg).Limit(1).Find(&users).Error; err != nil {
		return nil, storeError("get", usersTable, err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// DeleteUser removes a user with their cases, private lookups and profile.
// Documents, history and events they authored elsewhere keep their rows with the author cleared.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	conn, err := session(ctx, s.db)
	if err != nil {
		return false, err
	}

	res := conn.Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return false, storeError("delete", usersTable, res.Error)
	}
	return res.RowsAffected > 0, nil
}

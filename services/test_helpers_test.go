package services

import (
	"context"
	"errors"
	"testing"

	"advocate_diary_go/db"
	"advocate_diary_go/models"

	"gorm.io/gorm"
)

// setupTestManager opens a private in-memory store with the default seed
func setupTestManager(t *testing.T) *db.Manager {
	t.Helper()
	m := db.NewManager(db.Options{Path: db.MemoryPath, Environment: "test"})
	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

// setupEmptyManager opens a store with the schema but no seed rows
func setupEmptyManager(t *testing.T) *db.Manager {
	t.Helper()
	m := db.NewManager(db.Options{
		Path:        db.MemoryPath,
		Environment: "test",
		Seeder:      func(context.Context, *gorm.DB) error { return nil },
	})
	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func rawConn(t *testing.T, m *db.Manager) *gorm.DB {
	t.Helper()
	conn, err := m.Conn(context.Background())
	if err != nil {
		t.Fatalf("failed to get connection: %v", err)
	}
	return conn
}

func createTestUser(t *testing.T, m *db.Manager, name string) int64 {
	t.Helper()
	id, err := NewUserService(m).CreateUser(context.Background(), stringPtr(name), stringPtr(name+"@example.com"))
	if err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return id
}

func createTestCase(t *testing.T, m *db.Manager, c *models.Case) int64 {
	t.Helper()
	id, err := NewCaseService(m).AddCase(context.Background(), c)
	if err != nil {
		t.Fatalf("failed to create case %s: %v", c.UniqueID, err)
	}
	return id
}

// unavailableConnector fails every request for a handle
type unavailableConnector struct{}

func (unavailableConnector) Conn(context.Context) (*gorm.DB, error) {
	return nil, errors.New("store unavailable")
}

func stringPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

package db

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// Migration is one ordered, versioned step of the schema.
// Statements run in order inside a single transaction.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

// Migrations lists every schema step. Parents come before children within
// and across steps; append new steps, never edit applied ones.
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "core_tables",
		Statements: []string{
			CreateUsersTable,
			CreateCaseTypesTable,
			CreateCourtsTable,
			CreateDistrictsTable,
			CreatePoliceStationsTable,
			CreateCasesTable,
			CreateCasesUpdatedAtTrigger,
			CreateCaseDocumentsTable,
			CreateCaseHistoryLogTable,
			CreateCaseDocumentsIndex,
			CreateCaseHistoryLogIndex,
			CreateCasesUserIndex,
			CreateCasesNextDateIndex,
		},
	},
	{
		Version: 2,
		Name:    "timeline_and_profile",
		Statements: []string{
			CreateTimelineEventsTable,
			CreateTimelineEventsUpdatedAtTrigger,
			CreateTimelineEventsIndex,
			CreateCaseTimelineEventsTable,
			CreateCaseTimelineEventsUpdatedAtTrigger,
			CreateCaseTimelineEventsIndex,
			CreateUserInformationTable,
		},
	},
	{
		Version: 3,
		Name:    "district_stateless_uniqueness",
		Statements: []string{
			CreateDistrictsOwnerNameIndex,
		},
	},
}

// Bootstrap brings the store up to the latest schema version. It is safe
// to call on an initialized store: applied versions are skipped and every
// statement is "if not exists".
func Bootstrap(ctx context.Context, conn *gorm.DB) error {
	conn = conn.WithContext(ctx)

	// Engines that already enforce foreign keys should not abort bootstrap
	if err := conn.Exec(EnableForeignKeys).Error; err != nil {
		log.Printf("[SCHEMA] Failed to enable foreign keys, continuing: %v", err)
	}

	if err := conn.Exec(CreateSchemaMigrationsTable).Error; err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(conn)
	if err != nil {
		return err
	}

	for _, m := range Migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(conn, m); err != nil {
			return err
		}
		log.Printf("[SCHEMA] Applied migration %d (%s)", m.Version, m.Name)
	}

	return nil
}

// SchemaVersion returns the highest applied migration version, 0 for an empty store
func SchemaVersion(ctx context.Context, conn *gorm.DB) (int, error) {
	exists, err := TableExists(ctx, conn, "schema_migrations")
	if err != nil || !exists {
		return 0, err
	}

	var version int
	err = conn.WithContext(ctx).
		Raw(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).
		Scan(&version).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func appliedVersions(conn *gorm.DB) (map[int]bool, error) {
	var versions []int
	if err := conn.Raw(`SELECT version FROM schema_migrations`).Scan(&versions).Error; err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}

	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func applyMigration(conn *gorm.DB, m Migration) error {
	return conn.Transaction(func(tx *gorm.DB) error {
		for i, stmt := range m.Statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("migration %d (%s) statement %d: %w", m.Version, m.Name, i+1, err)
			}
		}
		if err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.Version, m.Name).Error; err != nil {
			return fmt.Errorf("migration %d (%s): failed to record version: %w", m.Version, m.Name, err)
		}
		return nil
	})
}

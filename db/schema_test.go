package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRawTestDB() *gorm.DB {
	conn, err := gorm.Open(sqlite.Open(MemoryPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		panic("failed to connect database")
	}
	sqlDB, _ := conn.DB()
	sqlDB.SetMaxOpenConns(1)
	return conn
}

func schemaObjects(t *testing.T, conn *gorm.DB) []string {
	var names []string
	err := conn.Raw(`SELECT type || ':' || name FROM sqlite_master WHERE name NOT LIKE 'sqlite_%' ORDER BY type, name`).Scan(&names).Error
	assert.NoError(t, err)
	return names
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates every table", func(t *testing.T) {
		conn := setupRawTestDB()
		assert.NoError(t, Bootstrap(ctx, conn))

		for _, table := range []string{
			"Users", "CaseTypes", "Courts", "Districts", "PoliceStations", "Cases",
			"CaseDocuments", "CaseHistoryLog", "TimelineEvents", "CaseTimelineEvents", "UserInformation",
		} {
			exists, err := TableExists(ctx, conn, table)
			assert.NoError(t, err)
			assert.True(t, exists, table)
		}

		exists, err := TableExists(ctx, conn, "NoSuchTable")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Is idempotent", func(t *testing.T) {
		conn := setupRawTestDB()
		assert.NoError(t, Bootstrap(ctx, conn))
		once := schemaObjects(t, conn)

		assert.NoError(t, Bootstrap(ctx, conn))
		assert.Equal(t, once, schemaObjects(t, conn))

		var migrations int64
		conn.Table("schema_migrations").Count(&migrations)
		assert.Equal(t, int64(len(Migrations)), migrations)
	})

	t.Run("Statements alone are idempotent", func(t *testing.T) {
		conn := setupRawTestDB()
		for i := 0; i < 2; i++ {
			for _, m := range Migrations {
				for _, stmt := range m.Statements {
					assert.NoError(t, conn.Exec(stmt).Error)
				}
			}
		}
	})

	t.Run("Tracks schema version", func(t *testing.T) {
		conn := setupRawTestDB()
		version, err := SchemaVersion(ctx, conn)
		assert.NoError(t, err)
		assert.Equal(t, 0, version)

		assert.NoError(t, Bootstrap(ctx, conn))
		version, err = SchemaVersion(ctx, conn)
		assert.NoError(t, err)
		assert.Equal(t, Migrations[len(Migrations)-1].Version, version)
	})

	t.Run("Applies only missing migrations", func(t *testing.T) {
		conn := setupRawTestDB()
		assert.NoError(t, conn.Exec(CreateSchemaMigrationsTable).Error)
		assert.NoError(t, applyMigration(conn, Migrations[0]))

		exists, _ := TableExists(ctx, conn, "TimelineEvents")
		assert.False(t, exists)

		assert.NoError(t, Bootstrap(ctx, conn))
		exists, _ = TableExists(ctx, conn, "TimelineEvents")
		assert.True(t, exists)
	})

	t.Run("Failing statement propagates and rolls back", func(t *testing.T) {
		conn := setupRawTestDB()
		assert.NoError(t, conn.Exec(CreateSchemaMigrationsTable).Error)

		broken := Migration{Version: 99, Name: "broken", Statements: []string{
			`CREATE TABLE IF NOT EXISTS Scratch (id INTEGER PRIMARY KEY)`,
			`CREATE TABLE Nope (`,
		}}
		err := applyMigration(conn, broken)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "migration 99 (broken)")

		exists, _ := TableExists(ctx, conn, "Scratch")
		assert.False(t, exists)
		version, _ := SchemaVersion(ctx, conn)
		assert.Equal(t, 0, version)
	})
}

func TestCasesUpdatedAtTrigger(t *testing.T) {
	conn := setupRawTestDB()
	assert.NoError(t, Bootstrap(context.Background(), conn))

	assert.NoError(t, conn.Exec(`INSERT INTO Cases (uniqueId, updated_at) VALUES ('u-1', '2000-01-01T00:00:00.000Z')`).Error)
	assert.NoError(t, conn.Exec(`UPDATE Cases SET CaseStatus = 'Pending' WHERE uniqueId = 'u-1'`).Error)

	var updatedAt string
	conn.Raw(`SELECT updated_at FROM Cases WHERE uniqueId = 'u-1'`).Scan(&updatedAt)
	assert.NotEqual(t, "2000-01-01T00:00:00.000Z", updatedAt)
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	conn := setupRawTestDB()
	assert.NoError(t, Bootstrap(ctx, conn))

	assert.NoError(t, SeedDefaults(ctx, conn))
	var first int64
	conn.Table("CaseTypes").Where("user_id IS NULL").Count(&first)
	assert.Equal(t, int64(len(defaultCaseTypes)), first)

	assert.NoError(t, SeedDefaults(ctx, conn))
	var second int64
	conn.Table("CaseTypes").Where("user_id IS NULL").Count(&second)
	assert.Equal(t, first, second)

	var linked int64
	conn.Table("PoliceStations").Where("district_id IS NOT NULL").Count(&linked)
	assert.Equal(t, int64(len(defaultPoliceStations)), linked)
}

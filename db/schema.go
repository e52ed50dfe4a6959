package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// isoNow is the SQLite expression used for every timestamp default
const isoNow = `(strftime('%Y-%m-%dT%H:%M:%fZ','now'))`

// EnableForeignKeys turns on FK enforcement for the session
const EnableForeignKeys = `PRAGMA foreign_keys = ON`

const CreateSchemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TEXT NOT NULL DEFAULT ` + isoNow + `
)`

const CreateUsersTable = `
CREATE TABLE IF NOT EXISTS Users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	email TEXT UNIQUE,
	created_at TEXT NOT NULL DEFAULT ` + isoNow + `
)`

const CreateCaseTypesTable = `
CREATE TABLE IF NOT EXISTS CaseTypes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	user_id INTEGER REFERENCES Users(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL DEFAULT ` + isoNow + `,
	UNIQUE (name, user_id)
)`

const CreateCourtsTable = `
CREATE TABLE IF NOT EXISTS Courts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	user_id INTEGER REFERENCES Users(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL DEFAULT ` + isoNow + `,
	UNIQUE (name, user_id)
)`

const CreateDistrictsTable = `
CREATE TABLE IF NOT EXISTS Districts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	state TEXT,
	user_id INTEGER REFERENCES Users(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL DEFAULT ` + isoNow + `,
	UNIQUE (name, state, user_id)
)`

const CreatePoliceStationsTable = `
CREATE TABLE IF NOT EXISTS PoliceStations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	district_id INTEGER REFERENCES Districts(id) ON DELETE SET NULL,
	user_id INTEGER REFERENCES Users(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL DEFAULT ` + isoNow + `,
	UNIQUE (name, user_id)
)`

const CreateCasesTable = `
CREATE TABLE IF NOT EXISTS Cases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uniqueId TEXT NOT NULL UNIQUE,
	user_id INTEGER REFERENCES Users(id) ON DELETE CASCADE,
	CaseTitle TEXT,
	CNRNumber TEXT,
	court_id INTEGER REFERENCES Courts(id) ON DELETE SET NULL,
	dateFiled TEXT,
	case_type_id INTEGER REFERENCES CaseTypes(id) ON DELETE SET NULL,
	case_number TEXT,
	case_year INTEGER,
	crime_number TEXT,
	crime_year INTEGER,
	OnBehalfOf TEXT,
	FirstParty TEXT,
	OppositeParty TEXT,
	ClientContactNumber TEXT,
	Accussed TEXT,
	Undersection TEXT,
	police_station_id INTEGER REFERENCES PoliceStations(id) ON DELETE SET NULL,
	OppositeAdvocate TEXT,
	OppAdvocateContactNumber TEXT,
	CaseStatus TEXT,
	PreviousDate TEXT,
	NextDate TEXT,
	created_at TEXT NOT NULL DEFAULT ` + isoNow + `,
	updated_at TEXT NOT NULL DEFAULT ` + isoNow + `
)`

// The WHEN clause skips rows whose updated_at the statement already set
const CreateCasesUpdatedAtTrigger = `
CREATE TRIGGER IF NOT EXISTS trg_cases_updated_at
AFTER UPDATE ON Cases
FOR EACH ROW
WHEN NEW.updated_at IS OLD.updated_at
BEGIN
	UPDATE Cases SET updated_at = ` + isoNow + ` WHERE id = NEW.id;
END`

const CreateCaseDocumentsTable = `
CREATE TABLE IF NOT EXISTS CaseDocuments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id INTEGER NOT NULL REFERENCES Cases(id) ON DELETE CASCADE,
	stored_filename TEXT NOT NULL UNIQUE,
	original_display_name TEXT NOT NULL,
	file_type TEXT,
	file_size INTEGER,
	file_uri TEXT,
	created_at TEXT NOT NULL DEFAULT ` + isoNow + `,
	user_id INTEGER REFERENCES Users(id) ON DELETE SET NULL
)`

const CreateCaseHistoryLogTable = `
CREATE TABLE IF NOT EXISTS CaseHistoryLog (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id INTEGER NOT NULL REFERENCES Cases(id) ON DELETE CASCADE,
	timestamp TEXT NOT NULL DEFAULT ` + isoNow + `,
	user_id INTEGER REFERENCES Users(id) ON DELETE SET NULL,
	field_changed TEXT NOT NULL,
	old_value TEXT,
	new_value TEXT
)`

const (
	CreateCaseDocumentsIndex  = `CREATE INDEX IF NOT EXISTS idx_case_documents_case_id ON CaseDocuments(case_id)`
	CreateCaseHistoryLogIndex = `CREATE INDEX IF NOT EXISTS idx_case_history_log_case_id ON CaseHistoryLog(case_id)`
	CreateCasesUserIndex      = `CREATE INDEX IF NOT EXISTS idx_cases_user_id ON Cases(user_id)`
	CreateCasesNextDateIndex  = `CREATE INDEX IF NOT EXISTS idx_cases_next_date ON Cases(NextDate)`
)

// CreateDistrictsOwnerNameIndex closes the gap left by UNIQUE (name, state, user_id):
// SQLite treats NULL states as distinct, so a stateless district could repeat.
const CreateDistrictsOwnerNameIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_districts_owner_name_state ON Districts(name, COALESCE(state, ''), user_id)`

const CreateTimelineEventsTable = `
CREATE TABLE IF NOT EXISTS TimelineEvents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id INTEGER NOT NULL REFERENCES Cases(id) ON DELETE CASCADE,
	event_date TEXT NOT NULL,
	description TEXT NOT NULL,
	user_id INTEGER REFERENCES Users(id) ON DELETE SET NULL,
	created_at TEXT NOT NULL DEFAULT ` + isoNow + `,
	updated_at TEXT NOT NULL DEFAULT ` + isoNow + `
)`

const CreateTimelineEventsUpdatedAtTrigger = `
CREATE TRIGGER IF NOT EXISTS trg_timeline_events_updated_at
AFTER UPDATE ON TimelineEvents
FOR EACH ROW
WHEN NEW.updated_at IS OLD.updated_at
BEGIN
	UPDATE TimelineEvents SET updated_at = ` + isoNow + ` WHERE id = NEW.id;
END`

const CreateCaseTimelineEventsTable = `
CREATE TABLE IF NOT EXISTS CaseTimelineEvents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id INTEGER NOT NULL REFERENCES Cases(id) ON DELETE CASCADE,
	hearing_date TEXT NOT NULL,
	notes TEXT NOT NULL,
	user_id INTEGER REFERENCES Users(id) ON DELETE SET NULL,
	created_at TEXT NOT NULL DEFAULT ` + isoNow + `,
	updated_at TEXT NOT NULL DEFAULT ` + isoNow + `
)`

const CreateCaseTimelineEventsUpdatedAtTrigger = `
CREATE TRIGGER IF NOT EXISTS trg_case_timeline_events_updated_at
AFTER UPDATE ON CaseTimelineEvents
FOR EACH ROW
WHEN NEW.updated_at IS OLD.updated_at
BEGIN
	UPDATE CaseTimelineEvents SET updated_at = ` + isoNow + ` WHERE id = NEW.id;
END`

const (
	CreateTimelineEventsIndex     = `CREATE INDEX IF NOT EXISTS idx_timeline_events_case_id ON TimelineEvents(case_id)`
	CreateCaseTimelineEventsIndex = `CREATE INDEX IF NOT EXISTS idx_case_timeline_events_case_id ON CaseTimelineEvents(case_id)`
)

const CreateUserInformationTable = `
CREATE TABLE IF NOT EXISTS UserInformation (
	user_id INTEGER PRIMARY KEY REFERENCES Users(id) ON DELETE CASCADE,
	name TEXT,
	designation TEXT,
	bio TEXT,
	avatar_uri TEXT,
	bar_council_id TEXT,
	experience_years INTEGER,
	practiceAreas TEXT NOT NULL DEFAULT '[]',
	contactInfo TEXT NOT NULL DEFAULT '{}',
	languages TEXT NOT NULL DEFAULT '[]',
	stats TEXT NOT NULL DEFAULT '{}',
	recentActivity TEXT NOT NULL DEFAULT '[]',
	updated_at TEXT NOT NULL DEFAULT ` + isoNow + `
)`

// TableExists reports whether a table with the given name is present
func TableExists(ctx context.Context, conn *gorm.DB, name string) (bool, error) {
	var count int64
	err := conn.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).
		Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return count > 0, nil
}

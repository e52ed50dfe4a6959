package db

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the sqlite3 driver with the diary's SQL functions registered on
// every connection
const DriverName = "sqlite3_diary"

var registerDriver sync.Once

func diaryDriver() string {
	registerDriver.Do(func() {
		sql.Register(DriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("casefold", CaseFold, true)
			},
		})
	})
	return DriverName
}

// CaseFold lowercases text for comparison. SQLite's own LIKE and lower() only
// fold ASCII, so searches fold both sides through this function instead.
// SQL callers must pass TEXT, e.g. casefold(COALESCE(col, '')).
func CaseFold(s string) string {
	return strings.ToLower(s)
}

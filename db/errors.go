package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrConnection wraps every failure to open, bootstrap, or seed the store
	ErrConnection = errors.New("database connection failed")

	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
	ErrNotNullViolation    = errors.New("not null constraint violation")
)

// ConstraintKind names the declared constraint that rejected a write
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintNotNull    ConstraintKind = "not_null"
	ConstraintCheck      ConstraintKind = "check"
)

// ConstraintError is returned when an insert or update violates the schema.
// Detail holds the columns SQLite reports, e.g. "CaseTypes.name, CaseTypes.user_id".
type ConstraintError struct {
	Kind   ConstraintKind
	Detail string
	Err    error
}

func (e *ConstraintError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s constraint failed", e.Kind)
	}
	return fmt.Sprintf("%s constraint failed: %s", e.Kind, e.Detail)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// Is lets callers test the kind with errors.Is(err, db.ErrUniqueViolation)
func (e *ConstraintError) Is(target error) bool {
	switch target {
	case ErrUniqueViolation:
		return e.Kind == ConstraintUnique
	case ErrForeignKeyViolation:
		return e.Kind == ConstraintForeignKey
	case ErrNotNullViolation:
		return e.Kind == ConstraintNotNull
	}
	return false
}

// ClassifyError converts a driver constraint failure into a *ConstraintError.
// Any other error (including nil) is returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		kind, ok := kindFromExtendedCode(sqliteErr.ExtendedCode)
		if !ok {
			kind, ok = kindFromMessage(err.Error())
		}
		if ok {
			return &ConstraintError{Kind: kind, Detail: constraintDetail(err.Error()), Err: err}
		}
		return err
	}

	// Some wrappers flatten the driver error into text
	if kind, ok := kindFromMessage(err.Error()); ok {
		return &ConstraintError{Kind: kind, Detail: constraintDetail(err.Error()), Err: err}
	}
	return err
}

func kindFromExtendedCode(code sqlite3.ErrNoExtended) (ConstraintKind, bool) {
	switch code {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ConstraintUnique, true
	case sqlite3.ErrConstraintForeignKey:
		return ConstraintForeignKey, true
	case sqlite3.ErrConstraintNotNull:
		return ConstraintNotNull, true
	case sqlite3.ErrConstraintCheck:
		return ConstraintCheck, true
	}
	return "", false
}

func kindFromMessage(msg string) (ConstraintKind, bool) {
	switch {
	case strings.Contains(msg, "UNIQUE constraint"), strings.Contains(msg, "PRIMARY KEY constraint"):
		return ConstraintUnique, true
	case strings.Contains(msg, "FOREIGN KEY constraint"):
		return ConstraintForeignKey, true
	case strings.Contains(msg, "NOT NULL constraint"):
		return ConstraintNotNull, true
	case strings.Contains(msg, "CHECK constraint"):
		return ConstraintCheck, true
	}
	return "", false
}

func constraintDetail(msg string) string {
	const marker = "constraint failed: "
	if i := strings.Index(msg, marker); i >= 0 {
		return strings.TrimSpace(msg[i+len(marker):])
	}
	return ""
}

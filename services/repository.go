package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"advocate_diary_go/db"
	"advocate_diary_go/models"

	"gorm.io/gorm"
)

// ErrValidation is returned when a required field is missing before any write
var ErrValidation = errors.New("validation failed")

// Connector hands out the ready database handle. *db.Manager satisfies it.
type Connector interface {
	Conn(ctx context.Context) (*gorm.DB, error)
}

// MutationResult is the outcome of an ownership-checked update or delete
type MutationResult int

const (
	ResultApplied MutationResult = iota
	ResultNotFound
	ResultForbidden
	ResultNoop
)

// Applied reports whether a row was changed
func (r MutationResult) Applied() bool {
	return r == ResultApplied
}

func (r MutationResult) String() string {
	switch r {
	case ResultApplied:
		return "applied"
	case ResultNotFound:
		return "not_found"
	case ResultForbidden:
		return "forbidden"
	default:
		return "noop"
	}
}

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError logs a failed statement with its operation and table, then
// returns it wrapped. Constraint failures come back as *db.ConstraintError.
func storeError(op, table string, err error) error {
	err = db.ClassifyError(err)
	log.Printf("[REPO] %s %s: %v", op, table, err)
	return fmt.Errorf("%s %s: %w", op, table, err)
}

// session waits for the handle and binds it to ctx
func session(ctx context.Context, c Connector) (*gorm.DB, error) {
	conn, err := c.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return conn.WithContext(ctx), nil
}

type ownerRow struct {
	UserID *int64
}

// ownership tells a missing row apart from one the caller may not touch.
// Global rows (user_id NULL) are never owned.
func ownership(tx *gorm.DB, table string, id, userID int64) (MutationResult, error) {
	var rows []ownerRow
	if err := tx.Table(table).Select("user_id").Where("id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return ResultNoop, err
	}
	if len(rows) == 0 {
		return ResultNotFound, nil
	}
	if !models.OwnedBy(rows[0].UserID, userID) {
		return ResultForbidden, nil
	}
	return ResultApplied, nil
}

// mutateOwned runs apply inside a transaction once the caller's ownership of
// the row is confirmed
func mutateOwned(ctx context.Context, c Connector, op, table string, id, userID int64, apply func(tx *gorm.DB) error) (MutationResult, error) {
	conn, err := session(ctx, c)
	if err != nil {
		return ResultNoop, err
	}

	result := ResultNoop
	err = conn.Transaction(func(tx *gorm.DB) error {
		owner, err := ownership(tx, table, id, userID)
		if err != nil {
			return err
		}
		result = owner
		if owner != ResultApplied {
			return nil
		}
		return apply(tx)
	})
	if err != nil {
		return ResultNoop, storeError(op, table, err)
	}
	return result, nil
}

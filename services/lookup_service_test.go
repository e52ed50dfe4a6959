package services

import (
	"context"
	"errors"
	"testing"

	"advocate_diary_go/db"
	"advocate_diary_go/models"

	"github.com/stretchr/testify/assert"
)

func caseTypeNames(rows []models.CaseType) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names
}

func TestCaseTypeOwnershipScoping(t *testing.T) {
	m := setupEmptyManager(t)
	ctx := context.Background()
	svc := NewCaseTypeService(m)

	user1 := createTestUser(t, m, "asha")
	user2 := createTestUser(t, m, "vikram")
	assert.NoError(t, rawConn(t, m).Exec(`INSERT INTO CaseTypes (name) VALUES ('Civil Suit')`).Error)
	_, err := svc.Add(ctx, "Election Petition", user2)
	assert.NoError(t, err)

	rows, err := svc.List(ctx, user1)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Civil Suit"}, caseTypeNames(rows))

	rows, err = svc.List(ctx, user2)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Civil Suit", "Election Petition"}, caseTypeNames(rows))
}

func TestCaseTypeDuplicateScenario(t *testing.T) {
	m := setupEmptyManager(t)
	ctx := context.Background()
	svc := NewCaseTypeService(m)

	user1 := createTestUser(t, m, "asha")
	user2 := createTestUser(t, m, "vikram")

	_, err := svc.Add(ctx, "Civil", user1)
	assert.NoError(t, err)

	_, err = svc.Add(ctx, "Civil", user2)
	assert.NoError(t, err, "different owners may share a name")

	id, err := svc.Add(ctx, "Civil", user1)
	assert.Zero(t, id)
	assert.ErrorIs(t, err, db.ErrUniqueViolation)

	var ce *db.ConstraintError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, db.ConstraintUnique, ce.Kind)
	assert.Contains(t, ce.Detail, "CaseTypes.name")
}

func TestCaseTypeAddValidation(t *testing.T) {
	m := setupEmptyManager(t)
	user := createTestUser(t, m, "asha")

	_, err := NewCaseTypeService(m).Add(context.Background(), "   ", user)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCaseTypeUpdateOwnershipGuard(t *testing.T) {
	m := setupEmptyManager(t)
	ctx := context.Background()
	svc := NewCaseTypeService(m)

	user1 := createTestUser(t, m, "asha")
	user2 := createTestUser(t, m, "vikram")
	owned, err := svc.Add(ctx, "Rent Control", user2)
	assert.NoError(t, err)

	t.Run("Other user's row is forbidden and unchanged", func(t *testing.T) {
		result, err := svc.Update(ctx, owned, "X", user1)
		assert.NoError(t, err)
		assert.Equal(t, ResultForbidden, result)
		assert.False(t, result.Applied())

		rows, _ := svc.List(ctx, user2)
		assert.Equal(t, []string{"Rent Control"}, caseTypeNames(rows))
	})

	t.Run("Global row is forbidden", func(t *testing.T) {
		conn := rawConn(t, m)
		assert.NoError(t, conn.Exec(`INSERT INTO CaseTypes (name) VALUES ('Arbitration')`).Error)
		var globalID int64
		conn.Raw(`SELECT id FROM CaseTypes WHERE name = 'Arbitration'`).Scan(&globalID)

		result, err := svc.Update(ctx, globalID, "Renamed", user1)
		assert.NoError(t, err)
		assert.Equal(t, ResultForbidden, result)

		result, err = svc.Delete(ctx, globalID, user1)
		assert.NoError(t, err)
		assert.Equal(t, ResultForbidden, result)
	})

	t.Run("Missing row is not found", func(t *testing.T) {
		result, err := svc.Update(ctx, 9999, "X", user1)
		assert.NoError(t, err)
		assert.Equal(t, ResultNotFound, result)
	})

	t.Run("Owner can rename", func(t *testing.T) {
		result, err := svc.Update(ctx, owned, "Rent Control Appeal", user2)
		assert.NoError(t, err)
		assert.True(t, result.Applied())

		rows, _ := svc.List(ctx, user2)
		assert.Contains(t, caseTypeNames(rows), "Rent Control Appeal")
	})

	t.Run("Owner can delete", func(t *testing.T) {
		result, err := svc.Delete(ctx, owned, user1)
		assert.NoError(t, err)
		assert.Equal(t, ResultForbidden, result)

		result, err = svc.Delete(ctx, owned, user2)
		assert.NoError(t, err)
		assert.Equal(t, ResultApplied, result)

		result, err = svc.Delete(ctx, owned, user2)
		assert.NoError(t, err)
		assert.Equal(t, ResultNotFound, result)
	})
}

func TestCourtDeleteClearsCaseReference(t *testing.T) {
	m := setupEmptyManager(t)
	ctx := context.Background()
	courts := NewCourtService(m)
	cases := NewCaseService(m)

	user := createTestUser(t, m, "asha")
	courtID, err := courts.Add(ctx, "Small Causes Court", user)
	assert.NoError(t, err)

	caseID := createTestCase(t, m, &models.Case{
		UniqueID:  "case-court",
		UserID:    &user,
		CaseTitle: stringPtr("Mehta vs Rao"),
		CourtID:   &courtID,
	})

	result, err := courts.Delete(ctx, courtID, user)
	assert.NoError(t, err)
	assert.True(t, result.Applied())

	got, err := cases.GetCaseByID(ctx, caseID)
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Nil(t, got.CourtID)
		assert.Nil(t, got.CourtName)
		assert.Equal(t, "Mehta vs Rao", *got.CaseTitle)
	}
}

func TestDistrictAndPoliceStation(t *testing.T) {
	m := setupEmptyManager(t)
	ctx := context.Background()
	districts := NewDistrictService(m)
	stations := NewPoliceStationService(m)
	user := createTestUser(t, m, "asha")

	t.Run("Same district name in two states", func(t *testing.T) {
		_, err := districts.Add(ctx, "Aurangabad", stringPtr("Maharashtra"), user)
		assert.NoError(t, err)
		_, err = districts.Add(ctx, "Aurangabad", stringPtr("Bihar"), user)
		assert.NoError(t, err)
		_, err = districts.Add(ctx, "Aurangabad", stringPtr("Bihar"), user)
		assert.ErrorIs(t, err, db.ErrUniqueViolation)
	})

	t.Run("Same district without a state twice is a unique violation", func(t *testing.T) {
		_, err := districts.Add(ctx, "Pune", nil, user)
		assert.NoError(t, err)
		_, err = districts.Add(ctx, "Pune", nil, user)
		assert.ErrorIs(t, err, db.ErrUniqueViolation)

		// An empty state and a missing state name the same district
		_, err = districts.Add(ctx, "Pune", stringPtr(""), user)
		assert.ErrorIs(t, err, db.ErrUniqueViolation)

		_, err = districts.Add(ctx, "Pune", stringPtr("Maharashtra"), user)
		assert.NoError(t, err)

		other := createTestUser(t, m, "vikram")
		_, err = districts.Add(ctx, "Pune", nil, other)
		assert.NoError(t, err)

		assert.Equal(t, int64(1), countRows(t, m, "Districts", "name = ? AND state IS NULL AND user_id = ?", "Pune", user))
	})

	t.Run("Deleting a district unlinks its stations", func(t *testing.T) {
		districtID, err := districts.Add(ctx, "Thane", stringPtr("Maharashtra"), user)
		assert.NoError(t, err)
		stationID, err := stations.Add(ctx, "Naupada", &districtID, user)
		assert.NoError(t, err)

		result, err := districts.Delete(ctx, districtID, user)
		assert.NoError(t, err)
		assert.True(t, result.Applied())

		rows, err := stations.List(ctx, user)
		assert.NoError(t, err)
		var found bool
		for _, ps := range rows {
			if ps.ID == stationID {
				found = true
				assert.Nil(t, ps.DistrictID)
			}
		}
		assert.True(t, found)
	})

	t.Run("Unknown district is a foreign key violation", func(t *testing.T) {
		_, err := stations.Add(ctx, "Ghost", int64Ptr(4242), user)
		assert.ErrorIs(t, err, db.ErrForeignKeyViolation)
	})
}

func TestLookupListIncludesSeed(t *testing.T) {
	m := setupTestManager(t)
	user := createTestUser(t, m, "asha")

	courts, err := NewCourtService(m).List(context.Background(), user)
	assert.NoError(t, err)
	assert.NotEmpty(t, courts)
	for _, c := range courts {
		assert.True(t, models.IsGlobal(c.UserID))
	}
}

func TestLookupConnectionFailure(t *testing.T) {
	_, err := NewCaseTypeService(unavailableConnector{}).List(context.Background(), 1)
	assert.Error(t, err)
}

package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseFoldFunction(t *testing.T) {
	m := newTestManager(nil)
	defer m.Close()

	conn, err := m.Conn(context.Background())
	assert.NoError(t, err)

	var folded string
	assert.NoError(t, conn.Raw(`SELECT casefold(?)`, "ÉLODIE Ñúñez").Scan(&folded).Error)
	assert.Equal(t, "élodie ñúñez", folded)

	// SQLite's own lower() leaves non-ASCII letters alone
	var lowered string
	assert.NoError(t, conn.Raw(`SELECT lower(?)`, "ÉLODIE").Scan(&lowered).Error)
	assert.Equal(t, "Élodie", lowered)

	var matches int
	assert.NoError(t, conn.Raw(`SELECT casefold(COALESCE(NULL, '')) LIKE '%'`).Scan(&matches).Error)
	assert.Equal(t, 1, matches)
}

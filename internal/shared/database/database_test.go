package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBSQLite(t *testing.T) {
	db, err := NewDB("sqlite", "file::memory:", false)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.GORM.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
}

func TestNewDBRejectsBadInput(t *testing.T) {
	_, err := NewDB("sqlite", "", false)
	assert.Error(t, err)

	_, err = NewDB("mysql", "whatever", false)
	assert.Error(t, err)
}

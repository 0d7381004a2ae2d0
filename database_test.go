package main

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)

	assert.Equal(t, "", db.GetSetting("missing"))

	require.NoError(t, db.SetSetting("k", "one"))
	assert.Equal(t, "one", db.GetSetting("k"))

	require.NoError(t, db.SetSetting("k", "two"))
	assert.Equal(t, "two", db.GetSetting("k"))
}

func TestInstallIDIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	first, err := db.InstallID()
	require.NoError(t, err)
	_, err = uuid.Parse(first)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()
	second, err := db.InstallID()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

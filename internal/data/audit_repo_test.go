package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queryadmin/internal/core"
)

func setupTestDB(t *testing.T) *AuditRepo {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAuditRepo(db)
}

func TestAuditRepo_CreateAndRecent(t *testing.T) {
	repo := setupTestDB(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, action := range []string{"save_query", "create_user", "delete_user"} {
		e := &core.AuditEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Username:  "root",
			Action:    action,
			Target:    "t",
			Status:    core.AuditSuccess,
		}
		require.NoError(t, repo.Create(e))
		assert.NotZero(t, e.ID)
	}
	require.NoError(t, repo.Create(&core.AuditEntry{
		Timestamp: base.Add(time.Hour),
		Username:  "root",
		Action:    "reset_password",
		Status:    core.AuditError,
		Message:   "Request failed",
	}))

	entries, err := repo.GetRecent(3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "reset_password", entries[0].Action)
	assert.Equal(t, core.AuditError, entries[0].Status)
	assert.Equal(t, "Request failed", entries[0].Message)
	assert.Empty(t, entries[0].Target)
	assert.Equal(t, "delete_user", entries[1].Action)
	assert.True(t, base.Add(time.Hour).Equal(entries[0].Timestamp))
}

func TestInitDB_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := InitDB(path)
	require.NoError(t, err)
	db.Close()

	db, err = InitDB(path)
	require.NoError(t, err)
	db.Close()
}

package telegram

import (
	"luas-schedule/models/entities"
	"luas-schedule/utils/databases"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) *Impl {
	t.Helper()
	db := databases.New(filepath.Join(t.TempDir(), "telegram.db"))
	require.NoError(t, db.Run())
	t.Cleanup(db.Shutdown)
	require.NoError(t, db.Migrate(&entities.TelegramUser{}))

	return New(db)
}

func TestSaveOrUpdate(t *testing.T) {
	repo := newRepository(t)

	require.NoError(t, repo.SaveOrUpdate(entities.TelegramUser{ChatID: 12, Name: "commuter"}))
	require.NoError(t, repo.SaveOrUpdate(entities.TelegramUser{ChatID: 12, Name: "commuter"}))
	require.NoError(t, repo.SaveOrUpdate(entities.TelegramUser{ChatID: 12, Name: "renamed"}))

	users, err := repo.FetchAll()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(12), users[0].ChatID)
	assert.Equal(t, "renamed", users[0].Name)
}

func TestDelete(t *testing.T) {
	repo := newRepository(t)
	require.NoError(t, repo.SaveOrUpdate(entities.TelegramUser{ChatID: 12}))
	require.NoError(t, repo.SaveOrUpdate(entities.TelegramUser{ChatID: 34}))

	require.NoError(t, repo.Delete(12))
	require.NoError(t, repo.Delete(99))

	users, err := repo.FetchAll()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(34), users[0].ChatID)
}

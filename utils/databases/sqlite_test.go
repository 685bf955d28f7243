package databases

import (
	"luas-schedule/models/entities"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRequiresConnection(t *testing.T) {
	db := New(filepath.Join(t.TempDir(), "luas.db"))

	assert.False(t, db.IsConnected())
	assert.ErrorIs(t, db.Migrate(&entities.StopEntry{}), ErrNotConnected)
	db.Shutdown()
}

func TestRunAndMigrate(t *testing.T) {
	db := New(filepath.Join(t.TempDir(), "luas.db"))
	require.NoError(t, db.Run())
	t.Cleanup(db.Shutdown)

	require.NoError(t, db.Migrate(&entities.StopEntry{}, &entities.TelegramUser{}))
	assert.True(t, db.IsConnected())
	assert.True(t, db.GetDB().Migrator().HasTable(&entities.StopEntry{}))
	assert.True(t, db.GetDB().Migrator().HasTable(&entities.TelegramUser{}))
}

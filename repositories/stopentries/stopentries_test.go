package stopentries

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
	db := databases.New(filepath.Join(t.TempDir(), "entries.db"))
	require.NoError(t, db.Run())
	t.Cleanup(db.Shutdown)
	require.NoError(t, db.Migrate(&entities.StopEntry{}))
	require.True(t, db.IsConnected())

	return New(db)
}

func TestCreateAndGet(t *testing.T) {
	repo := newRepository(t)

	require.NoError(t, repo.Create(entities.StopEntry{StopCode: "CON", StopName: "Connolly", Line: "Luas Red Line"}))

	entry, err := repo.Get("CON")
	require.NoError(t, err)
	assert.Equal(t, "Connolly", entry.StopName)
	assert.Equal(t, "Luas Red Line", entry.Line)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, int64(1), repo.Count())
}

func TestCreateDuplicate(t *testing.T) {
	repo := newRepository(t)

	require.NoError(t, repo.Create(entities.StopEntry{StopCode: "STS", StopName: "St. Stephen's Green"}))
	err := repo.Create(entities.StopEntry{StopCode: "STS", StopName: "Other"})

	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, int64(1), repo.Count())
}

func TestGetMissing(t *testing.T) {
	repo := newRepository(t)

	_, err := repo.Get("XXX")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newRepository(t)
	require.NoError(t, repo.Create(entities.StopEntry{StopCode: "CON", StopName: "Connolly"}))
	require.NoError(t, repo.Create(entities.StopEntry{StopCode: "ABB", StopName: "Abbey Street"}))

	require.NoError(t, repo.Delete("CON"))
	assert.ErrorIs(t, repo.Delete("CON"), ErrNotFound)

	entries, err := repo.FetchAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ABB", entries[0].StopCode)
}

package assets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardPath(configDir string) string {
	return filepath.Join(configDir, "www", "community", CommunityDirName, CardFileName)
}

func resourcesPath(configDir string) string {
	return filepath.Join(configDir, ".storage", resourcesKey)
}

func readItems(t *testing.T, configDir string) []map[string]any {
	t.Helper()
	content, err := os.ReadFile(resourcesPath(configDir))
	require.NoError(t, err)

	var doc struct {
		Data struct {
			Items []map[string]any `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(content, &doc))
	return doc.Data.Items
}

func TestInstallCopiesCard(t *testing.T) {
	configDir := t.TempDir()
	service := New(configDir, false)

	assert.False(t, service.Installed())
	require.NoError(t, service.Install())
	assert.True(t, service.Installed())

	content, err := os.ReadFile(cardPath(configDir))
	require.NoError(t, err)
	assert.Equal(t, cardSource, content)

	_, err = os.Stat(resourcesPath(configDir))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallRunsOnce(t *testing.T) {
	configDir := t.TempDir()
	service := New(configDir, false)
	require.NoError(t, service.Install())

	require.NoError(t, os.Remove(cardPath(configDir)))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, service.Install())
		}()
	}
	wg.Wait()

	_, err := os.Stat(cardPath(configDir))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallReplacesOutdatedCard(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Dir(cardPath(configDir)), 0o755))
	require.NoError(t, os.WriteFile(cardPath(configDir), []byte("old"), 0o644))

	require.NoError(t, New(configDir, false).Install())

	content, err := os.ReadFile(cardPath(configDir))
	require.NoError(t, err)
	assert.Equal(t, cardSource, content)
}

func TestInstallRegistersResource(t *testing.T) {
	configDir := t.TempDir()

	require.NoError(t, New(configDir, true).Install())

	items := readItems(t, configDir)
	require.Len(t, items, 1)
	assert.Equal(t, CardURL, items[0]["url"])
	assert.Equal(t, "module", items[0]["type"])
	assert.NotEmpty(t, items[0]["id"])
}

func TestRegisterResourceKeepsOtherResources(t *testing.T) {
	configDir := t.TempDir()
	existing := `{"version":1,"minor_version":1,"key":"lovelace_resources","data":{"items":[` +
		`{"id":"abc","type":"module","url":"/hacsfiles/other/other.js","custom":true}]}}`
	require.NoError(t, os.MkdirAll(filepath.Dir(resourcesPath(configDir)), 0o755))
	require.NoError(t, os.WriteFile(resourcesPath(configDir), []byte(existing), 0o644))

	require.NoError(t, New(configDir, true).Install())
	require.NoError(t, New(configDir, true).Install())

	items := readItems(t, configDir)
	require.Len(t, items, 2)
	assert.Equal(t, "abc", items[0]["id"])
	assert.Equal(t, "/hacsfiles/other/other.js", items[0]["url"])
	assert.Equal(t, true, items[0]["custom"])
	assert.Equal(t, CardURL, items[1]["url"])

	content, err := os.ReadFile(resourcesPath(configDir))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.EqualValues(t, 1, doc["minor_version"])
}

func TestRegisterResourceRefusesMalformedFile(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Dir(resourcesPath(configDir)), 0o755))
	require.NoError(t, os.WriteFile(resourcesPath(configDir), []byte("{not json"), 0o644))

	service := New(configDir, true)
	err := service.Install()

	assert.ErrorIs(t, err, ErrMalformedResources)
	assert.False(t, service.Installed())
	content, errRead := os.ReadFile(resourcesPath(configDir))
	require.NoError(t, errRead)
	assert.Equal(t, "{not json", string(content))
}

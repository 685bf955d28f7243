package assets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"luas-schedule/models/constants"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func New(configDir string, register bool) *Impl {
	return &Impl{configDir: configDir, register: register}
}

// Install copies the card into the community folder and, when enabled,
// registers it as a dashboard resource. Only the first call does any work,
// later calls return the first outcome.
func (service *Impl) Install() error {
	service.once.Do(func() {
		service.err = service.install()
		service.installed.Store(service.err == nil)
	})
	return service.err
}

func (service *Impl) Installed() bool {
	return service.installed.Load()
}

func (service *Impl) install() error {
	destDir := filepath.Join(service.configDir, "www", "community", CommunityDirName)
	destFile := filepath.Join(destDir, CardFileName)

	if err := copyIfChanged(destDir, destFile); err != nil {
		return fmt.Errorf("failed to copy card to %s: %w", destDir, err)
	}
	log.Info().Str(constants.LogFileName, destFile).Msgf("Copied %s", CardFileName)

	if !service.register {
		return nil
	}

	added, err := registerResource(filepath.Join(service.configDir, ".storage", resourcesKey), CardURL)
	if err != nil {
		return fmt.Errorf("failed to register card: %w", err)
	}
	if added {
		log.Info().Str(constants.LogURL, CardURL).Msg("Registered Luas Schedule card")
	} else {
		log.Debug().Str(constants.LogURL, CardURL).Msg("Luas Schedule card already registered")
	}
	return nil
}

func copyIfChanged(destDir string, destFile string) error {
	existing, err := os.ReadFile(destFile)
	if err == nil && bytes.Equal(existing, cardSource) {
		return nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	return writeFileAtomic(destFile, cardSource)
}

// registerResource appends url to the resources storage file unless an item
// already points to it. Other items and unknown fields are left untouched.
func registerResource(path string, url string) (bool, error) {
	doc := map[string]any{
		"version": resourcesVersion,
		"key":     resourcesKey,
		"data":    map[string]any{"items": []any{}},
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if errUnmarshal := json.Unmarshal(content, &doc); errUnmarshal != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedResources, errUnmarshal)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, err
	}

	data, ok := doc["data"].(map[string]any)
	if !ok {
		return false, fmt.Errorf("%w: missing data object", ErrMalformedResources)
	}
	items, ok := data["items"].([]any)
	if !ok && data["items"] != nil {
		return false, fmt.Errorf("%w: items is not a list", ErrMalformedResources)
	}

	for _, item := range items {
		if resource, isObject := item.(map[string]any); isObject && resource["url"] == url {
			return false, nil
		}
	}

	data["items"] = append(items, map[string]any{
		"id":   uuid.NewString(),
		"type": resourceType,
		"url":  url,
	})

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	return true, writeFileAtomic(path, out)
}

func writeFileAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

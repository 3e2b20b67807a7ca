package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewConfigStore_MissingFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, FileName), store.Path())
	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
	assert.NoFileExists(t, store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDirName, FileName), store.Path())
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "this is not valid TOML {{{[[")

	store, err := NewConfigStore(tmpDir)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), FileName+":1:")
	assert.Nil(t, store)
}

func TestNewConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "")

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}

func TestOpenConfigFile_Missing(t *testing.T) {
	store, err := OpenConfigFile(filepath.Join(t.TempDir(), "nope.toml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, store)
}

func TestOpenConfigFile_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[run]
namespace = "EPTIC"
wokers = 4
`)

	store, err := OpenConfigFile(path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "wokers")
	assert.Nil(t, store)
}

func TestOpenConfigFile_RejectsUnknownSection(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[llm]
model = "gpt"
`)

	_, err := OpenConfigFile(path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "llm")
}

func TestOpenConfigFile_RejectsWrongType(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[run]
workers = "four"
`)

	_, err := OpenConfigFile(path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), path)
}

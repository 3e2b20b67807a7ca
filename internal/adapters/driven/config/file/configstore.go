package file

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// DefaultDirName is the config directory under the user's home.
const DefaultDirName = ".eptalign"

// FileName is the config file inside the config directory.
const FileName = "config.toml"

// ConfigStore reads eptalign settings from a TOML file.
// The file is decoded once, strictly: unknown sections or keys and values
// of the wrong TOML type are errors, so a typo never silently falls back
// to a default.
type ConfigStore struct {
	path string
	cfg  fileConfig
}

// NewConfigStore reads {configDir}/config.toml.
// If configDir is empty, defaults to ~/.eptalign. A missing file yields
// the built-in defaults.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, DefaultDirName)
	}

	s := &ConfigStore{path: filepath.Join(configDir, FileName)}
	if err := s.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return s, nil
}

// OpenConfigFile reads settings from an explicit file, which must exist.
func OpenConfigFile(path string) (*ConfigStore, error) {
	s := &ConfigStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ConfigStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s.cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s: unknown keys:\n%s", domain.ErrInvalidInput, s.path, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("%w: %s:%d:%d: %w", domain.ErrInvalidInput, s.path, row, col, err)
		}
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, s.path, err)
	}
	return nil
}

// Settings returns the file's settings over the defaults.
func (s *ConfigStore) Settings() (domain.AppSettings, error) {
	return s.cfg.apply(domain.DefaultAppSettings())
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.path
}

package memory

import (
	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore serves the built-in defaults.
// It backs runs where no config file can be located.
type ConfigStore struct{}

// NewConfigStore creates a defaults-only config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

// Settings returns domain.DefaultAppSettings.
func (s *ConfigStore) Settings() (domain.AppSettings, error) {
	return domain.DefaultAppSettings(), nil
}

// Path returns a marker instead of a file path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}

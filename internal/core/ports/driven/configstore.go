package driven

import "github.com/custodia-labs/eptalign/internal/core/domain"

// ConfigStore provides the application settings.
type ConfigStore interface {
	// Settings returns the stored settings laid over domain.DefaultAppSettings.
	// A value that is present but unusable is reported as domain.ErrInvalidInput
	// or domain.ErrUnsupportedType, never replaced by its default.
	Settings() (domain.AppSettings, error)

	// Path returns where the settings come from.
	Path() string
}

package file

import (
	"fmt"
	"time"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// Config keys, as written in the TOML file.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyRunNamespace          = "run.namespace"
	KeyRunWorkers            = "run.workers"
	KeyRunReportFormat       = "run.report_format"
	KeyAlignerProvider       = "aligner.provider"
	KeyAlignerTimeoutSeconds = "aligner.timeout_seconds"
	KeyAlignerMaxFaults      = "aligner.max_consecutive_faults"
	KeyEmbedProvider         = "embedding.provider"
	KeyEmbedModel            = "embedding.model"
	KeyEmbedBaseURL          = "embedding.base_url"
	KeyEmbedAPIKey           = "embedding.api_key"
	KeyEmbedRPS              = "embedding.requests_per_second"
	KeyFilterProcessors      = "filter.processors"
	KeyFilterRetain          = "filter.retain"
)

// fileConfig mirrors the TOML layout. Pointers distinguish an absent key
// from an explicit zero.
type fileConfig struct {
	Run       runSection       `toml:"run"`
	Aligner   alignerSection   `toml:"aligner"`
	Embedding embeddingSection `toml:"embedding"`
	Filter    filterSection    `toml:"filter"`
}

type runSection struct {
	Namespace    *string `toml:"namespace"`
	Workers      *int    `toml:"workers"`
	ReportFormat *string `toml:"report_format"`
}

type alignerSection struct {
	Provider             *string `toml:"provider"`
	TimeoutSeconds       *int    `toml:"timeout_seconds"`
	MaxConsecutiveFaults *int    `toml:"max_consecutive_faults"`
}

type embeddingSection struct {
	Provider *string `toml:"provider"`
	Model    string  `toml:"model"`
	BaseURL  string  `toml:"base_url"` // empty is valid for cloud providers
	APIKey   string  `toml:"api_key"`
	// RequestsPerSecond accepts a TOML integer or float.
	RequestsPerSecond any `toml:"requests_per_second"`
}

type filterSection struct {
	Processors []string `toml:"processors"`
	Retain     []string `toml:"retain"`
}

func (c fileConfig) apply(settings domain.AppSettings) (domain.AppSettings, error) {
	if err := c.Run.apply(&settings.Run); err != nil {
		return settings, err
	}
	if err := c.Aligner.apply(&settings.Aligner); err != nil {
		return settings, err
	}
	if err := c.Embedding.apply(&settings.Embedding); err != nil {
		return settings, err
	}
	settings.Filter.Processors = c.Filter.Processors
	settings.Filter.Retain = c.Filter.Retain
	return settings, nil
}

func (r runSection) apply(s *domain.RunSettings) error {
	if r.Namespace != nil && *r.Namespace != "" {
		s.Namespace = *r.Namespace
	}
	if r.Workers != nil {
		if *r.Workers < 1 {
			return fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidInput, KeyRunWorkers)
		}
		s.Workers = *r.Workers
	}
	if r.ReportFormat != nil {
		format := domain.ReportFormat(*r.ReportFormat)
		if !format.IsValid() {
			return fmt.Errorf("%w: %s %q", domain.ErrUnsupportedType, KeyRunReportFormat, *r.ReportFormat)
		}
		s.ReportFormat = format
	}
	return nil
}

func (a alignerSection) apply(s *domain.AlignerSettings) error {
	if a.Provider != nil {
		provider := domain.AlignerProvider(*a.Provider)
		if !provider.IsValid() {
			return fmt.Errorf("%w: %s %q", domain.ErrUnsupportedType, KeyAlignerProvider, *a.Provider)
		}
		s.Provider = provider
	}
	if a.TimeoutSeconds != nil {
		if *a.TimeoutSeconds < 0 {
			return fmt.Errorf("%w: %s is negative", domain.ErrInvalidInput, KeyAlignerTimeoutSeconds)
		}
		s.Timeout = time.Duration(*a.TimeoutSeconds) * time.Second
	}
	if a.MaxConsecutiveFaults != nil {
		if *a.MaxConsecutiveFaults < 0 {
			return fmt.Errorf("%w: %s is negative", domain.ErrInvalidInput, KeyAlignerMaxFaults)
		}
		s.MaxConsecutiveFaults = *a.MaxConsecutiveFaults
	}
	return nil
}

func (e embeddingSection) apply(s *domain.EmbeddingSettings) error {
	if e.Provider != nil {
		provider := domain.AIProvider(*e.Provider)
		if !provider.IsValid() {
			return fmt.Errorf("%w: %s %q", domain.ErrUnsupportedType, KeyEmbedProvider, *e.Provider)
		}
		s.Provider = provider
	}
	s.Model = e.Model
	s.BaseURL = e.BaseURL
	s.APIKey = e.APIKey

	if e.RequestsPerSecond != nil {
		var rps float64
		switch v := e.RequestsPerSecond.(type) {
		case int64:
			rps = float64(v)
		case float64:
			rps = v
		default:
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, KeyEmbedRPS)
		}
		if rps < 0 {
			return fmt.Errorf("%w: %s is negative", domain.ErrInvalidInput, KeyEmbedRPS)
		}
		s.RequestsPerSecond = rps
	}
	return nil
}

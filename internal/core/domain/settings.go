package domain

import "time"

const unknownDescription = "Unknown"

// AlignerProvider selects the sentence aligner implementation.
type AlignerProvider string

// Available aligner providers.
const (
	// AlignerLength aligns by sentence length ratios (Gale-Church). Needs no services.
	AlignerLength AlignerProvider = "length"

	// AlignerEmbedding aligns by sentence embedding similarity.
	AlignerEmbedding AlignerProvider = "embedding"
)

// IsValid returns true if the aligner provider is recognised.
func (p AlignerProvider) IsValid() bool {
	switch p {
	case AlignerLength, AlignerEmbedding:
		return true
	default:
		return false
	}
}

// RequiresEmbedding returns true if this aligner needs an embedding provider.
func (p AlignerProvider) RequiresEmbedding() bool {
	return p == AlignerEmbedding
}

// String returns the string representation.
func (p AlignerProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the aligner.
func (p AlignerProvider) Description() string {
	switch p {
	case AlignerLength:
		return "Length (Gale-Church, offline)"
	case AlignerEmbedding:
		return "Embedding (sentence similarity)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// ReportFormat selects the final report encoding.
type ReportFormat string

// Available report formats.
const (
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatCSV  ReportFormat = "csv"
)

// IsValid returns true if the report format is recognised.
func (f ReportFormat) IsValid() bool {
	return f == ReportFormatXLSX || f == ReportFormatCSV
}

// FileName returns the report file name for this format.
func (f ReportFormat) FileName() string {
	return "alignments." + string(f)
}

// RunSettings holds orchestration behaviour.
type RunSettings struct {
	// Namespace prefixes pair names.
	Namespace string

	// Workers bounds how many group pairs are processed concurrently.
	Workers int

	// ReportFormat is the encoding of the final report.
	ReportFormat ReportFormat
}

// AlignerSettings holds aligner configuration.
type AlignerSettings struct {
	// Provider selects the aligner implementation.
	Provider AlignerProvider

	// Timeout bounds a single alignment call. Zero disables the timeout.
	Timeout time.Duration

	// MaxConsecutiveFaults aborts the run after this many aligner faults in a row.
	// Zero never aborts.
	MaxConsecutiveFaults int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RequestsPerSecond throttles embedding calls. Zero is unlimited.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// FilterSettings configures the link post-processing pipeline.
type FilterSettings struct {
	// Processors are applied in order before a pair is serialized.
	Processors []string

	// Retain lists the references kept by the "retain" processor.
	// "643:0" keeps links touching sentence 0 of document 643;
	// "641" keeps links touching any sentence of document 641.
	Retain []string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Run       RunSettings
	Aligner   AlignerSettings
	Embedding EmbeddingSettings
	Filter    FilterSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The embedding provider is left unconfigured and no links are filtered.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Run: RunSettings{
			Namespace:    DefaultNamespace,
			Workers:      1,
			ReportFormat: ReportFormatXLSX,
		},
		Aligner: AlignerSettings{
			Provider: AlignerLength,
			Timeout:  2 * time.Minute,
		},
	}
}

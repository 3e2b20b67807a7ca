package postprocessors

import (
	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
	"github.com/custodia-labs/eptalign/internal/postprocessors/dedupe"
	"github.com/custodia-labs/eptalign/internal/postprocessors/retain"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("retain", buildRetain)
	r.Register("dedupe", buildDedupe)
}

// NewDefaultRegistry returns a registry with the built-in processors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// FromSettings builds the pipeline described by filter settings.
func FromSettings(settings domain.FilterSettings) (*Pipeline, error) {
	cfg := map[string]any{"refs": settings.Retain}
	return NewDefaultRegistry().BuildPipeline(settings.Processors, cfg)
}

// buildRetain creates a retention filter from generic config.
// Supported config keys:
//   - refs ([]string or []any): references to keep, "doc:idx" or "doc"
func buildRetain(cfg map[string]any) (driven.LinkProcessor, error) {
	return retain.New(getStringsFromConfig(cfg, "refs"))
}

func buildDedupe(_ map[string]any) (driven.LinkProcessor, error) {
	return dedupe.New(), nil
}

// getStringsFromConfig safely extracts a string list from generic config map.
// Handles []string and the []any produced by TOML/JSON parsing.
func getStringsFromConfig(cfg map[string]any, key string) []string {
	val, ok := cfg[key]
	if !ok {
		return nil
	}

	switch v := val.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Package ai provides factory functions for the sentence aligner and the
// embedding services it may depend on.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/eptalign/internal/adapters/driven/aligner/length"
	"github.com/custodia-labs/eptalign/internal/adapters/driven/aligner/similarity"
	"github.com/custodia-labs/eptalign/internal/adapters/driven/embedding"
	ollamaembed "github.com/custodia-labs/eptalign/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/eptalign/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
	"github.com/custodia-labs/eptalign/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAligner builds the configured sentence aligner. The embedding aligner
// pings its service first so a misconfiguration fails before any pair runs.
// The caller owns the returned aligner and must Close it.
func CreateAligner(ctx context.Context, settings domain.AppSettings) (driven.SentenceAligner, error) {
	switch settings.Aligner.Provider {
	case domain.AlignerLength, "":
		return length.New(), nil

	case domain.AlignerEmbedding:
		svc, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
		if err != nil {
			return nil, err
		}
		logger.Info("Using embedding aligner with %s/%s", settings.Embedding.Provider, svc.ModelName())
		return similarity.New(svc, similarity.Options{}), nil

	default:
		return nil, fmt.Errorf("%w: aligner %q", domain.ErrUnsupportedType, settings.Aligner.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(
	ctx context.Context, settings *domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: set embedding.provider (and embedding.api_key for openai) in the config file",
			domain.ErrEmbeddingUnavailable)
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	// Validate connectivity.
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service named by settings,
// throttled to settings.RequestsPerSecond.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrEmbeddingUnavailable
	}

	var svc driven.EmbeddingService
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		openai, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		svc = openai

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}

	return embedding.NewLimited(svc, settings.RequestsPerSecond), nil
}

package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// It is only required by the embedding aligner; the length aligner runs without it.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm, LaBSE ports)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup, before the first pair is aligned.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

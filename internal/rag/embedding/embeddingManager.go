package embedding

import "context"

// Embedder turns text into fixed-dimension vectors. One embedder serves one
// index generation; vectors from different embedders must never share an index.
type Embedder interface {
	// ProviderName identifies the capability ("openai", "google", "ollama").
	ProviderName() string
	// Dimension is the vector size this embedder produces.
	Dimension() int32
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}

package vectorDB

import (
	"context"

	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
)

// DataProcessor is the vector store capability. Nearest-neighbor ranking is
// fully delegated; callers only see ranked passages.
type DataProcessor interface {
	// EnsureCollection creates the collection if missing. Dimension is fixed
	// for the lifetime of the collection.
	EnsureCollection(ctx context.Context, collectionName string, dimension uint64) error
	// Count returns the number of stored vectors; 0 for a missing collection.
	Count(ctx context.Context, collectionName string) (uint64, error)
	UpsertBatch(ctx context.Context, collectionName string, records []ragModel.EmbeddingRecord) error
	// Search returns up to topK passages ranked by similarity. An empty
	// collection yields an empty slice, not an error.
	Search(ctx context.Context, collectionName string, vector []float32, topK uint64) ([]ragModel.Passage, error)
	// Drop removes the collection entirely (full rebuild path).
	Drop(ctx context.Context, collectionName string) error
}

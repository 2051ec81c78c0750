package driven

import "context"

// IndexEntry is one (vector, text, metadata) tuple added to the index.
type IndexEntry struct {
	// ChunkID is the stable chunk identifier.
	ChunkID string

	// Content is the chunk text, stored alongside the vector so that
	// search hits can be scored by the reranker without a second lookup.
	Content string

	// Source is the originating file path.
	Source string

	// Vector is the embedding. Its length must match the index dimensions.
	Vector []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Content is the stored chunk text.
	Content string

	// Similarity is the cosine similarity score.
	Similarity float64
}

// VectorIndex provides persistent nearest-neighbour search over
// embeddings. An index is bound to one embedding model and one
// dimensionality for its whole lifetime. The design assumes a single
// writer; readers reload to observe new data.
type VectorIndex interface {
	// AddBatch inserts a batch of entries atomically. If the batch
	// fails, the index state before the batch remains intact and
	// loadable.
	AddBatch(ctx context.Context, entries []IndexEntry) error

	// Search finds the k nearest neighbours to the query vector,
	// nearest first. An index holding fewer than k vectors returns all
	// of them without error. A query of the wrong dimensionality fails
	// with domain.ErrDimensionMismatch.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of stored vectors.
	Count(ctx context.Context) (int, error)

	// Dimensions returns the fixed vector size of this index.
	Dimensions() int

	// Close releases resources.
	Close() error
}

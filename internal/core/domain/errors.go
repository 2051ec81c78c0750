package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a broken deployment configuration.
	// Configuration errors fail fast and are never retried.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDimensionMismatch indicates an embedding's dimensionality does
	// not match the vector index. Mixing vectors from different embedding
	// models in one index is rejected, not silently tolerated.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrModelMismatch indicates the index was built with a different
	// embedding model than the one configured.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrScorerUnavailable indicates the reranking scorer is not
	// configured. Callers fall back to raw retrieval order.
	ErrScorerUnavailable = errors.New("reranking scorer unavailable")

	// ErrIndexUnavailable indicates the vector index is missing or
	// could not be opened.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrNoAnswer indicates retrieval failed and no answer can be
	// produced for the request.
	ErrNoAnswer = errors.New("no answer available")

	// ErrUnsupportedType indicates an unknown file format or option.
	ErrUnsupportedType = errors.New("unsupported type")
)

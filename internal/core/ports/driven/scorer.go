package driven

import "context"

// ScorePair is one (query, candidate text) pair for the cross-encoder.
type ScorePair struct {
	Query string
	Text  string
}

// Scorer computes pairwise relevance scores with a cross-encoder model:
// query and candidate are encoded jointly, unlike the retriever's
// independent encode-then-compare. Scores are real numbers with no fixed
// range guarantee; only relative order within one call is meaningful.
type Scorer interface {
	// Score returns one score per pair, in input order. A failure is
	// whole-batch: no partial results are returned.
	Score(ctx context.Context, pairs []ScorePair) ([]float64, error)

	// ModelName returns the reranking model identifier.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

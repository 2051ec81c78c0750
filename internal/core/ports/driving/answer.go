package driving

import (
	"context"

	"github.com/physica-labs/physica-cli/internal/core/domain"
)

// RetrievalService exposes the query-time retrieval pipeline.
type RetrievalService interface {
	// Search embeds the query and returns the k nearest chunks,
	// nearest first.
	Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)

	// Rerank re-scores candidates with the cross-encoder and returns
	// the top n by descending relevance, ties broken by original order.
	Rerank(ctx context.Context, query string, candidates []domain.ScoredChunk, topN int) ([]domain.ScoredChunk, error)

	// Retrieve runs the full search → rerank → assemble pipeline and
	// returns the bounded context string. Scorer failure degrades to
	// raw retrieval order.
	Retrieve(ctx context.Context, query string) (string, error)
}

// AnswerService answers a user question end to end: classification,
// retrieval, generation.
type AnswerService interface {
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}

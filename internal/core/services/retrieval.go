package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
	"github.com/physica-labs/physica-cli/internal/core/ports/driving"
	"github.com/physica-labs/physica-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// Default retrieval bounds.
const (
	DefaultInitialK = 15
	DefaultTopN     = 5
)

// RetrievalService runs the two-stage retrieval pipeline: similarity
// search over the vector index, cross-encoder reranking, and context
// assembly through the provenance table.
type RetrievalService struct {
	index      driven.VectorIndex
	embedder   driven.EmbeddingService
	scorer     driven.Scorer // optional; nil disables reranking
	provenance driven.ProvenanceStore
	initialK   int
	topN       int
}

// NewRetrievalService creates a retrieval service. The scorer is
// optional (nil falls back to raw retrieval order). A dimensionality
// mismatch between embedder and index is a fatal configuration error.
func NewRetrievalService(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	scorer driven.Scorer,
	provenance driven.ProvenanceStore,
	initialK, topN int,
) (*RetrievalService, error) {
	if embedder.Dimensions() != index.Dimensions() {
		return nil, fmt.Errorf("%w: embedding provider has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, embedder.Dimensions(), index.Dimensions())
	}
	if initialK < 1 {
		initialK = DefaultInitialK
	}
	if topN < 1 {
		topN = DefaultTopN
	}
	if topN > initialK {
		return nil, fmt.Errorf("%w: top_n (%d) must not exceed initial_k (%d)",
			domain.ErrInvalidConfig, topN, initialK)
	}

	return &RetrievalService{
		index:      index,
		embedder:   embedder,
		scorer:     scorer,
		provenance: provenance,
		initialK:   initialK,
		topN:       topN,
	}, nil
}

// Search embeds the query and returns the k nearest chunks, nearest
// first. An index holding fewer than k vectors returns all of them.
func (s *RetrievalService) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1", domain.ErrInvalidInput)
	}

	logger.Debug("Search: query=%q, k=%d", query, k)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	logger.Debug("Search: %d hits", len(hits))

	results := make([]domain.ScoredChunk, len(hits))
	for i, hit := range hits {
		results[i] = domain.ScoredChunk{
			ChunkID: hit.ChunkID,
			Content: hit.Content,
			Score:   hit.Similarity,
		}
	}

	return results, nil
}

// Rerank re-scores candidates with the cross-encoder and returns the
// top n by descending relevance. The sort is stable: ties keep the
// original retrieval order. Output is always a reordering and truncation
// of the input. A scorer failure is whole-batch and propagates.
func (s *RetrievalService) Rerank(
	ctx context.Context, query string, candidates []domain.ScoredChunk, topN int,
) ([]domain.ScoredChunk, error) {
	if topN <= 0 || len(candidates) == 0 {
		return []domain.ScoredChunk{}, nil
	}
	if s.scorer == nil {
		return nil, domain.ErrScorerUnavailable
	}

	pairs := make([]driven.ScorePair, len(candidates))
	for i, c := range candidates {
		pairs[i] = driven.ScorePair{Query: query, Text: c.Content}
	}

	scores, err := s.scorer.Score(ctx, pairs)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}
	if len(scores) != len(candidates) {
		return nil, fmt.Errorf("score candidates: got %d scores for %d pairs", len(scores), len(candidates))
	}

	reranked := make([]domain.ScoredChunk, len(candidates))
	for i, c := range candidates {
		reranked[i] = domain.ScoredChunk{ChunkID: c.ChunkID, Content: c.Content, Score: scores[i]}
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})

	if len(reranked) > topN {
		reranked = reranked[:topN]
	}

	return reranked, nil
}

// AssembleContext maps chunks back to their full stored content and
// concatenates it in rank order with newline separators. A chunk missing
// from the provenance table is skipped with a warning; an empty result
// is valid degraded output, not an error.
func (s *RetrievalService) AssembleContext(chunks []domain.ScoredChunk) string {
	var parts []string
	for _, c := range chunks {
		content, ok := s.provenance.Get(c.ChunkID)
		if !ok {
			logger.Warn("Chunk %s missing from provenance table, skipping", c.ChunkID)
			continue
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n")
}

// Retrieve runs the full pipeline with the configured bounds. When the
// scorer fails, the raw retrieval order is used as a degraded mode.
func (s *RetrievalService) Retrieve(ctx context.Context, query string) (string, error) {
	logger.Section("Retrieval")

	candidates, err := s.Search(ctx, query, s.initialK)
	if err != nil {
		return "", err
	}

	reranked, err := s.Rerank(ctx, query, candidates, s.topN)
	if err != nil {
		logger.Warn("Reranking failed, falling back to retrieval order: %v", err)
		reranked = candidates
		if len(reranked) > s.topN {
			reranked = reranked[:s.topN]
		}
	}

	return s.AssembleContext(reranked), nil
}

// Package tei provides a cross-encoder scorer adapter for a Text
// Embeddings Inference server exposing the /rerank endpoint.
package tei

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
)

// Ensure Scorer implements the interface.
var _ driven.Scorer = (*Scorer)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultModel   = "BAAI/bge-reranker-v2-m3"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the TEI scorer.
type Config struct {
	// BaseURL is the TEI server base URL (default: http://localhost:8080).
	BaseURL string

	// Model is the reranking model the server is expected to run. Used
	// for reporting only; the server decides the actual model.
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Scorer scores query/text pairs against a TEI reranking server.
type Scorer struct {
	client  *http.Client
	baseURL string
	model   string
}

// rerankRequest is the TEI /rerank request format.
type rerankRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

// rerankResult is one entry of the TEI /rerank response. Results come
// back sorted by score; Index maps each one back to its input text.
type rerankResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// NewScorer creates a TEI-backed scorer.
func NewScorer(cfg Config) *Scorer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Scorer{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// Score returns a relevance score per pair, in input order. Pairs are
// grouped by query so each distinct query costs one request.
func (s *Scorer) Score(ctx context.Context, pairs []driven.ScorePair) ([]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	type group struct {
		texts     []string
		positions []int
	}

	// Preserve first-seen query order for deterministic request order.
	groups := make(map[string]*group)
	var queries []string
	for i, p := range pairs {
		g, ok := groups[p.Query]
		if !ok {
			g = &group{}
			groups[p.Query] = g
			queries = append(queries, p.Query)
		}
		g.texts = append(g.texts, p.Text)
		g.positions = append(g.positions, i)
	}

	scores := make([]float64, len(pairs))
	for _, q := range queries {
		g := groups[q]
		results, err := s.rerank(ctx, q, g.texts)
		if err != nil {
			return nil, err
		}
		if len(results) != len(g.texts) {
			return nil, fmt.Errorf("tei returned %d scores for %d texts", len(results), len(g.texts))
		}
		for _, r := range results {
			if r.Index < 0 || r.Index >= len(g.texts) {
				return nil, fmt.Errorf("tei returned index %d out of range", r.Index)
			}
			scores[g.positions[r.Index]] = r.Score
		}
	}
	return scores, nil
}

// rerank posts one query with its candidate texts to /rerank.
func (s *Scorer) rerank(ctx context.Context, query string, texts []string) ([]rerankResult, error) {
	jsonBody, err := json.Marshal(rerankRequest{
		Query: query,
		Texts: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/rerank",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("tei error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("tei error (status %d): %s", resp.StatusCode, string(body))
	}

	var results []rerankResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return results, nil
}

// ModelName returns the name of the reranking model.
func (s *Scorer) ModelName() string {
	return s.model
}

// Ping validates the server is reachable via its /health endpoint.
func (s *Scorer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("tei: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("tei: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tei: health check returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (s *Scorer) Close() error {
	return nil
}

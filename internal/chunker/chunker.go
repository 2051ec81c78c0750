// Package chunker provides a semantic text chunking implementation.
// Chunk boundaries are drawn where the embedding distance between
// adjacent sentences exceeds a statistical threshold, so chunks follow
// topic shifts rather than fixed character counts.
package chunker

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
)

// Ensure Semantic implements the interface.
var _ driven.Chunker = (*Semantic)(nil)

// Default breakpoint configuration.
const (
	DefaultThresholdType   = domain.BreakpointPercentile
	DefaultThresholdAmount = 95.0
)

// sentenceEnd matches a sentence terminator followed by whitespace.
// The split point is placed after the terminator.
var sentenceEnd = regexp.MustCompile(`[.?!]\s+`)

// Semantic splits documents into chunks at semantic breakpoints.
type Semantic struct {
	embedder        driven.EmbeddingService
	thresholdType   domain.BreakpointThresholdType
	thresholdAmount float64
}

// Option configures the semantic chunker.
type Option func(*Semantic)

// WithThreshold sets the breakpoint threshold type and amount.
func WithThreshold(t domain.BreakpointThresholdType, amount float64) Option {
	return func(c *Semantic) {
		if t.Valid() {
			c.thresholdType = t
		}
		if amount > 0 {
			c.thresholdAmount = amount
		}
	}
}

// New creates a semantic chunker backed by the given embedding service.
func New(embedder driven.EmbeddingService, opts ...Option) *Semantic {
	c := &Semantic{
		embedder:        embedder,
		thresholdType:   DefaultThresholdType,
		thresholdAmount: DefaultThresholdAmount,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Chunk splits the document into semantically coherent chunks.
// An empty document yields no chunks and no error. A failure in the
// embedding call for any sentence fails the whole call for this
// document; callers log and continue with remaining documents.
func (c *Semantic) Chunk(ctx context.Context, doc domain.Document) ([]domain.Chunk, error) {
	sentences := SplitSentences(doc.Content)
	if len(sentences) == 0 {
		return nil, nil
	}

	// A single sentence is a single chunk; nothing to compare.
	if len(sentences) == 1 {
		return []domain.Chunk{newChunk(doc.ID, 0, sentences[0])}, nil
	}

	vectors, err := c.embedder.EmbedBatch(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("embed sentences: got %d vectors for %d sentences", len(vectors), len(sentences))
	}

	distances := adjacentDistances(vectors)
	threshold := c.breakpointThreshold(distances)

	var chunks []domain.Chunk
	start := 0
	for i, d := range distances {
		if d > threshold {
			chunks = append(chunks, newChunk(doc.ID, len(chunks), joinSentences(sentences[start:i+1])))
			start = i + 1
		}
	}
	chunks = append(chunks, newChunk(doc.ID, len(chunks), joinSentences(sentences[start:])))

	return chunks, nil
}

// SplitSentences splits text into sentences after '.', '?' or '!'
// followed by whitespace. Results are whitespace-trimmed and non-empty.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		// Cut after the terminator, before the whitespace.
		end := loc[0] + 1
		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// breakpointThreshold computes the distance above which a chunk boundary
// is drawn, according to the configured threshold type.
func (c *Semantic) breakpointThreshold(distances []float64) float64 {
	switch c.thresholdType {
	case domain.BreakpointStandardDeviation:
		m, sd := meanStddev(distances)
		return m + c.thresholdAmount*sd
	case domain.BreakpointInterquartile:
		m, _ := meanStddev(distances)
		iqr := percentile(distances, 75) - percentile(distances, 25)
		return m + c.thresholdAmount*iqr
	default:
		return percentile(distances, c.thresholdAmount)
	}
}

// adjacentDistances returns the cosine distance between each pair of
// adjacent sentence embeddings.
func adjacentDistances(vectors [][]float32) []float64 {
	distances := make([]float64, len(vectors)-1)
	for i := 0; i < len(vectors)-1; i++ {
		distances[i] = 1 - cosineSimilarity(vectors[i], vectors[i+1])
	}
	return distances
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched or zero vectors yield 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// percentile returns the p-th percentile of values using linear
// interpolation between closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// meanStddev returns the mean and population standard deviation.
func meanStddev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}

	return mean, math.Sqrt(sq / float64(len(values)))
}

func joinSentences(sentences []string) string {
	return strings.Join(sentences, " ")
}

// newChunk builds a chunk with the stable "<docID>:<position>" id carried
// through the index and provenance table.
func newChunk(docID string, position int, content string) domain.Chunk {
	return domain.Chunk{
		ID:         docID + ":" + strconv.Itoa(position),
		DocumentID: docID,
		Content:    content,
		Position:   position,
	}
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
)

// fakeEmbedder embeds text deterministically: a fixed vector per known
// text, or a derived one for anything else. Can be told to fail on
// specific texts to exercise batch-failure paths.
type fakeEmbedder struct {
	dims    int
	vectors map[string][]float32
	failOn  map[string]bool
	calls   int
}

func newFakeEmbedder(dims int) *fakeEmbedder {
	return &fakeEmbedder{dims: dims, vectors: map[string][]float32{}, failOn: map[string]bool{}}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failOn[text] {
		return nil, fmt.Errorf("forced embed failure for %q", text)
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	v := make([]float32, f.dims)
	v[0] = float32(len(text) % 7)
	v[f.dims-1] = 1
	return v, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int              { return f.dims }
func (f *fakeEmbedder) ModelName() string            { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

// fakeIndex is an in-memory vector index recording every added entry.
type fakeIndex struct {
	dims    int
	entries []driven.IndexEntry
	hits    []driven.VectorHit // returned by Search when set
	addErr  error
	findErr error
}

func (f *fakeIndex) AddBatch(_ context.Context, entries []driven.IndexEntry) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if len(query) != f.dims {
		return nil, domain.ErrDimensionMismatch
	}
	hits := f.hits
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (f *fakeIndex) Count(_ context.Context) (int, error) { return len(f.entries), nil }
func (f *fakeIndex) Dimensions() int                      { return f.dims }
func (f *fakeIndex) Close() error                         { return nil }

func (f *fakeIndex) ids() []string {
	ids := make([]string, len(f.entries))
	for i, e := range f.entries {
		ids[i] = e.ChunkID
	}
	return ids
}

// fakeScorer returns configured scores, or an error for the whole batch.
type fakeScorer struct {
	scores map[string]float64 // keyed by candidate text
	err    error
	calls  int
}

func (f *fakeScorer) Score(_ context.Context, pairs []driven.ScorePair) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]float64, len(pairs))
	for i, p := range pairs {
		out[i] = f.scores[p.Text]
	}
	return out, nil
}

func (f *fakeScorer) ModelName() string            { return "fake-scorer" }
func (f *fakeScorer) Ping(_ context.Context) error { return nil }
func (f *fakeScorer) Close() error                 { return nil }

// fakeProvenance is an in-memory provenance table.
type fakeProvenance struct {
	entries map[string]string
	saves   int
}

func newFakeProvenance() *fakeProvenance {
	return &fakeProvenance{entries: map[string]string{}}
}

func (f *fakeProvenance) Get(chunkID string) (string, bool) {
	v, ok := f.entries[chunkID]
	return v, ok
}

func (f *fakeProvenance) Set(chunkID, content string) { f.entries[chunkID] = content }
func (f *fakeProvenance) Save() error                 { f.saves++; return nil }
func (f *fakeProvenance) Len() int                    { return len(f.entries) }

// fakeLoader returns a fixed document list.
type fakeLoader struct {
	documents []domain.Document
	err       error
}

func (f *fakeLoader) Load(_ context.Context, _ string) ([]domain.Document, error) {
	return f.documents, f.err
}

// sentenceChunker splits on ". " without embeddings, for ingest tests.
type sentenceChunker struct {
	failFor map[string]bool // by document ID
}

func (c *sentenceChunker) Chunk(_ context.Context, doc domain.Document) ([]domain.Chunk, error) {
	if c.failFor[doc.ID] {
		return nil, fmt.Errorf("forced chunk failure for %s", doc.ID)
	}
	var chunks []domain.Chunk
	for i, s := range strings.Split(doc.Content, ". ") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("%s:%d", doc.ID, i),
			DocumentID: doc.ID,
			Content:    s,
			Position:   i,
		})
	}
	return chunks, nil
}

// fakeGenerator echoes its inputs.
type fakeGenerator struct {
	err      error
	question string
	context  string
}

func (f *fakeGenerator) Generate(_ context.Context, question, supportingContext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.question = question
	f.context = supportingContext
	return "answer to: " + question, nil
}

func (f *fakeGenerator) Close() error { return nil }

// fakeMCQ answers multiple-choice questions.
type fakeMCQ struct {
	err   error
	calls int
}

func (f *fakeMCQ) Answer(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "Option B", nil
}

// fakeRetrieval implements driving.RetrievalService for answer tests.
type fakeRetrieval struct {
	context string
	err     error
}

func (f *fakeRetrieval) Search(_ context.Context, _ string, _ int) ([]domain.ScoredChunk, error) {
	return nil, nil
}

func (f *fakeRetrieval) Rerank(_ context.Context, _ string, c []domain.ScoredChunk, _ int) ([]domain.ScoredChunk, error) {
	return c, nil
}

func (f *fakeRetrieval) Retrieve(_ context.Context, _ string) (string, error) {
	return f.context, f.err
}

// staticClassifier always returns the same type.
type staticClassifier struct {
	qtype domain.QuestionType
}

func (c *staticClassifier) Classify(_ string) domain.QuestionType { return c.qtype }

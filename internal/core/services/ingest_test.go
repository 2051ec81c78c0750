package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physica-labs/physica-cli/internal/core/domain"
)

func TestIngestIndexesAllChunks(t *testing.T) {
	loader := &fakeLoader{documents: []domain.Document{
		{ID: "d1", SourcePath: "a.pdf", Content: "One. Two. Three"},
		{ID: "d2", SourcePath: "b.docx", Content: "Four. Five"},
	}}
	embedder := newFakeEmbedder(3)
	index := &fakeIndex{dims: 3}
	provenance := newFakeProvenance()

	svc := NewIngestService(loader, &sentenceChunker{}, embedder, index, provenance, 2)

	report, err := svc.Ingest(context.Background(), "corpus")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 5, report.Chunks)
	assert.Equal(t, 5, report.Indexed)
	assert.Zero(t, report.FailedBatches)
	assert.Zero(t, report.SkippedDocuments)

	assert.Equal(t, []string{"d1:0", "d1:1", "d1:2", "d2:0", "d2:1"}, index.ids())
	assert.Equal(t, 5, provenance.Len())
	assert.Equal(t, 1, provenance.saves)
}

func TestIngestBatchFailureIsolation(t *testing.T) {
	// Six chunks in batches of two; the middle batch fails to embed.
	loader := &fakeLoader{documents: []domain.Document{
		{ID: "d1", Content: "c0. c1. bad. c3. c4. c5"},
	}}
	embedder := newFakeEmbedder(3)
	embedder.failOn["bad"] = true
	index := &fakeIndex{dims: 3}
	provenance := newFakeProvenance()

	svc := NewIngestService(loader, &sentenceChunker{}, embedder, index, provenance, 2)

	report, err := svc.Ingest(context.Background(), "corpus")
	require.NoError(t, err)

	assert.Equal(t, 6, report.Chunks)
	assert.Equal(t, 4, report.Indexed)
	assert.Equal(t, 1, report.FailedBatches)

	// Chunks from the failed batch (positions 2 and 3) are absent; all
	// others are present.
	assert.Equal(t, []string{"d1:0", "d1:1", "d1:4", "d1:5"}, index.ids())

	_, ok := provenance.Get("d1:2")
	assert.False(t, ok, "failed-batch chunk must not be in the provenance table")
	_, ok = provenance.Get("d1:4")
	assert.True(t, ok)
}

func TestIngestSkipsFailingDocuments(t *testing.T) {
	loader := &fakeLoader{documents: []domain.Document{
		{ID: "good", Content: "One. Two"},
		{ID: "broken", Content: "irrelevant"},
	}}
	chunker := &sentenceChunker{failFor: map[string]bool{"broken": true}}
	index := &fakeIndex{dims: 3}

	svc := NewIngestService(loader, chunker, newFakeEmbedder(3), index, newFakeProvenance(), 10)

	report, err := svc.Ingest(context.Background(), "corpus")
	require.NoError(t, err)

	assert.Equal(t, 1, report.SkippedDocuments)
	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, []string{"good:0", "good:1"}, index.ids())
}

func TestIngestDimensionMismatchFailsFast(t *testing.T) {
	svc := NewIngestService(
		&fakeLoader{}, &sentenceChunker{}, newFakeEmbedder(3), &fakeIndex{dims: 4},
		newFakeProvenance(), 10)

	_, err := svc.Ingest(context.Background(), "corpus")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIngestLoaderErrorPropagates(t *testing.T) {
	svc := NewIngestService(
		&fakeLoader{err: fmt.Errorf("no such folder")}, &sentenceChunker{},
		newFakeEmbedder(3), &fakeIndex{dims: 3}, newFakeProvenance(), 10)

	_, err := svc.Ingest(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load corpus")
}

func TestIngestDeterministicBatchOrder(t *testing.T) {
	loader := &fakeLoader{documents: []domain.Document{
		{ID: "d1", Content: "a. b. c. d. e"},
	}}

	run := func() []string {
		index := &fakeIndex{dims: 3}
		svc := NewIngestService(loader, &sentenceChunker{}, newFakeEmbedder(3), index, newFakeProvenance(), 2)
		_, err := svc.Ingest(context.Background(), "corpus")
		require.NoError(t, err)
		return index.ids()
	}

	first := run()
	assert.Equal(t, first, run())
}

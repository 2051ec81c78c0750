package services

import (
	"context"
	"fmt"

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
	"github.com/physica-labs/physica-cli/internal/core/ports/driving"
	"github.com/physica-labs/physica-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultBatchSize is the number of chunks embedded and indexed per batch.
const DefaultBatchSize = 100

// IngestService builds or updates the vector index and provenance table
// from a corpus folder. All collaborators are constructor-injected; the
// service owns none of their lifecycles.
type IngestService struct {
	loader     driven.CorpusLoader
	chunker    driven.Chunker
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	provenance driven.ProvenanceStore
	batchSize  int
}

// NewIngestService creates an ingest service. A batchSize below 1 falls
// back to the default.
func NewIngestService(
	loader driven.CorpusLoader,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	provenance driven.ProvenanceStore,
	batchSize int,
) *IngestService {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &IngestService{
		loader:     loader,
		chunker:    chunker,
		embedder:   embedder,
		index:      index,
		provenance: provenance,
		batchSize:  batchSize,
	}
}

// Ingest loads, chunks, embeds and indexes every supported file under
// folder. A failed batch is logged and skipped; its chunks are absent
// from the index until a later run re-ingests them. Chunks are processed
// in the order batches are formed, so the run is deterministic for a
// fixed chunk sequence and batch size.
func (s *IngestService) Ingest(ctx context.Context, folder string) (*driving.IngestReport, error) {
	logger.Section("Ingestion")

	if s.embedder.Dimensions() != s.index.Dimensions() {
		return nil, fmt.Errorf("%w: embedding provider has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, s.embedder.Dimensions(), s.index.Dimensions())
	}

	documents, err := s.loader.Load(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	logger.Info("Loaded %d documents from %s", len(documents), folder)

	report := &driving.IngestReport{Documents: len(documents)}

	chunks := s.chunkDocuments(ctx, documents, report)
	report.Chunks = len(chunks)
	logger.Info("Chunked into %d chunks", len(chunks))

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if err := s.indexBatch(ctx, batch); err != nil {
			logger.Warn("Skipping batch %d-%d: %v", start, end, err)
			report.FailedBatches++
			continue
		}
		report.Indexed += len(batch)
		logger.Debug("Indexed batch %d-%d", start, end)
	}

	if err := s.provenance.Save(); err != nil {
		return nil, fmt.Errorf("save provenance table: %w", err)
	}

	logger.Info("Ingestion done: %d/%d chunks indexed, %d failed batches",
		report.Indexed, report.Chunks, report.FailedBatches)
	return report, nil
}

// chunkDocuments runs the chunker over every document, reporting
// per-document progress. A chunking failure skips that document only.
func (s *IngestService) chunkDocuments(
	ctx context.Context, documents []domain.Document, report *driving.IngestReport,
) []domain.Chunk {
	var chunks []domain.Chunk
	for i, doc := range documents {
		docChunks, err := s.chunker.Chunk(ctx, doc)
		if err != nil {
			logger.Warn("Skipping document %s: %v", doc.SourcePath, err)
			report.SkippedDocuments++
			continue
		}
		chunks = append(chunks, docChunks...)
		logger.Debug("Chunking progress: %d/%d documents", i+1, len(documents))
	}
	return chunks
}

// indexBatch embeds one batch of chunks and adds it to the index and the
// provenance table. Failure leaves the index at its pre-batch state.
func (s *IngestService) indexBatch(ctx context.Context, batch []domain.Chunk) error {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embed batch: got %d vectors for %d chunks", len(vectors), len(batch))
	}

	entries := make([]driven.IndexEntry, len(batch))
	for i, c := range batch {
		entries[i] = driven.IndexEntry{
			ChunkID: c.ID,
			Content: c.Content,
			Source:  c.DocumentID,
			Vector:  vectors[i],
		}
	}

	if err := s.index.AddBatch(ctx, entries); err != nil {
		return fmt.Errorf("add batch to index: %w", err)
	}

	// Provenance entries only exist for chunks that made it into the
	// index, keeping the two stores aligned.
	for _, c := range batch {
		s.provenance.Set(c.ID, c.Content)
	}

	return nil
}

package driving

import "context"

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// Documents is the number of documents loaded from the corpus.
	Documents int

	// Chunks is the number of chunks produced by the chunker.
	Chunks int

	// Indexed is the number of chunks successfully embedded and added
	// to the vector index.
	Indexed int

	// FailedBatches is the number of batches skipped after an
	// embedding or index failure. Their chunks are absent from the
	// index until a later run re-ingests them.
	FailedBatches int

	// SkippedDocuments is the number of documents dropped because
	// chunking failed or the file could not be read.
	SkippedDocuments int
}

// IngestService builds or updates the vector index and provenance table
// from a corpus folder.
type IngestService interface {
	// Ingest loads, chunks, embeds and indexes every supported file
	// under folder. Batch and file failures are logged and skipped;
	// only configuration errors abort the run.
	Ingest(ctx context.Context, folder string) (*IngestReport, error)
}

package domain

import "time"

// Document represents a unit of ingested source text.
// It is the canonical representation after file extraction and is
// immutable once created by the corpus loader.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourcePath is the original file location.
	SourcePath string

	// Content is the full extracted text.
	Content string

	// Page is the page number within the source file, when the format
	// carries one (PDF). Zero for whole-file documents.
	Page int

	// Metadata contains arbitrary key-value pairs (format, title, ...).
	Metadata map[string]any

	// LoadedAt is when the document was read from disk.
	LoadedAt time.Time
}

// Chunk is a bounded, semantically coherent span of a document.
// It is the unit of indexing and retrieval. Chunks are created once per
// ingestion run and never updated in place.
type Chunk struct {
	// ID is the stable chunk identifier, carried end-to-end through the
	// vector index and the provenance table. Form: "<documentID>:<position>".
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk. Never empty.
	Content string

	// Position is the ordinal position within the document.
	Position int
}

package driven

import (
	"context"

	"github.com/physica-labs/physica-cli/internal/core/domain"
)

// DocumentSource extracts documents from one file format. Sources are
// independent variants selected by file extension, not an inheritance
// chain.
type DocumentSource interface {
	// Extensions returns the lowercase file extensions this source
	// handles, including the leading dot.
	Extensions() []string

	// Read extracts documents from the file at path. A single file may
	// yield multiple documents (one per PDF page).
	Read(ctx context.Context, path string) ([]domain.Document, error)
}

// CorpusLoader reads all supported files under a folder into documents.
// Unsupported file types are ignored; corrupt files are logged and
// skipped, never fatal to the run.
type CorpusLoader interface {
	Load(ctx context.Context, folder string) ([]domain.Document, error)
}

// Chunker splits a document into semantically coherent chunks. An empty
// document yields no chunks and no error; an embedding failure for any
// sentence fails the whole call for that document.
type Chunker interface {
	Chunk(ctx context.Context, doc domain.Document) ([]domain.Chunk, error)
}

// Package readers loads the document corpus from a folder. Each file
// format is handled by an independent DocumentSource selected by
// extension; unsupported types are ignored and corrupt files are logged
// and skipped.
package readers

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
	"github.com/physica-labs/physica-cli/internal/logger"
)

// documentID derives a stable id from the source path and page number.
// Re-reading the same file yields the same ids, so re-ingesting an
// unchanged corpus replaces index rows instead of duplicating them.
func documentID(path string, page int) string {
	name := fmt.Sprintf("%s#page=%d", filepath.ToSlash(path), page)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// Ensure Loader implements the interface.
var _ driven.CorpusLoader = (*Loader)(nil)

// Loader walks a corpus folder and dispatches files to sources by
// extension.
type Loader struct {
	sources map[string]driven.DocumentSource
}

// NewLoader creates a loader over the given sources. Later sources win
// on extension conflicts.
func NewLoader(sources ...driven.DocumentSource) *Loader {
	byExt := make(map[string]driven.DocumentSource)
	for _, src := range sources {
		for _, ext := range src.Extensions() {
			byExt[strings.ToLower(ext)] = src
		}
	}
	return &Loader{sources: byExt}
}

// DefaultLoader creates a loader for the supported corpus formats:
// PDF (via pdftotext) and Word documents.
func DefaultLoader() *Loader {
	return NewLoader(NewPDFSource(nil), NewWordSource())
}

// Load reads every supported file under folder, in deterministic
// (sorted path) order. A file that fails to parse is logged and
// skipped; the run continues with the remaining files.
func (l *Loader) Load(ctx context.Context, folder string) ([]domain.Document, error) {
	var paths []string
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := l.sources[strings.ToLower(filepath.Ext(path))]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus folder %s: %w", folder, err)
	}
	sort.Strings(paths)

	var documents []domain.Document
	for _, path := range paths {
		source := l.sources[strings.ToLower(filepath.Ext(path))]

		docs, err := source.Read(ctx, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}
		documents = append(documents, docs...)
		logger.Debug("Loaded %s: %d documents", path, len(docs))
	}

	return documents, nil
}

package readers

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
)

// Ensure WordSource implements the interface.
var _ driven.DocumentSource = (*WordSource)(nil)

// WordSource extracts text from Word documents. DOCX files are ZIP
// archives holding word/document.xml; legacy .doc files that happen to
// be DOCX in disguise parse the same way, anything else is reported as
// corrupt and skipped by the loader.
type WordSource struct{}

// NewWordSource creates a Word document source.
func NewWordSource() *WordSource {
	return &WordSource{}
}

// Extensions returns the file extensions this source handles.
func (s *WordSource) Extensions() []string {
	return []string{".docx", ".doc"}
}

// Read extracts the document text. A Word file yields one document.
func (s *WordSource) Read(_ context.Context, path string) ([]domain.Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s as docx archive: %w", path, err)
	}
	defer reader.Close()

	content, err := extractDocumentText(&reader.Reader)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", path, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	return []domain.Document{{
		ID:         documentID(path, 1),
		SourcePath: path,
		Content:    content,
		Metadata:   map[string]any{"format": "docx"},
		LoadedAt:   time.Now(),
	}}, nil
}

// documentXML mirrors the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// extractDocumentText reads the text runs of word/document.xml,
// one line per paragraph.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("opening document.xml: %w", err)
		}

		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("reading document.xml: %w", err)
		}

		var doc documentXML
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return "", fmt.Errorf("parsing document.xml: %w", err)
		}

		var b []byte
		for i, para := range doc.Body.Paragraphs {
			if i > 0 {
				b = append(b, '\n')
			}
			for _, r := range para.Runs {
				for _, t := range r.Text {
					b = append(b, t.Content...)
				}
			}
		}
		return string(b), nil
	}

	return "", fmt.Errorf("%w: no word/document.xml entry", domain.ErrInvalidInput)
}

package readers

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
)

// Ensure PDFSource implements the interface.
var _ driven.DocumentSource = (*PDFSource)(nil)

// CommandRunner executes an external command and returns its stdout.
// Abstracted for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands through os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDFSource extracts text from PDF files using the pdftotext tool
// (poppler-utils). Pages are split on form feeds, one document per page.
type PDFSource struct {
	runner CommandRunner
}

// NewPDFSource creates a PDF source. A nil runner uses os/exec.
func NewPDFSource(runner CommandRunner) *PDFSource {
	if runner == nil {
		runner = execRunner{}
	}
	return &PDFSource{runner: runner}
}

// Extensions returns the file extensions this source handles.
func (s *PDFSource) Extensions() []string {
	return []string{".pdf"}
}

// Read extracts one document per non-empty page.
func (s *PDFSource) Read(ctx context.Context, path string) ([]domain.Document, error) {
	out, err := s.runner.Run(ctx, "pdftotext", "-layout", "-q", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext %s: %w (%s)", path, err, InstallInstructions())
	}

	var documents []domain.Document
	// pdftotext separates pages with form feeds.
	for i, page := range strings.Split(string(out), "\f") {
		content := strings.TrimSpace(page)
		if content == "" {
			continue
		}
		documents = append(documents, domain.Document{
			ID:         documentID(path, i+1),
			SourcePath: path,
			Content:    content,
			Page:       i + 1,
			Metadata:   map[string]any{"format": "pdf"},
			LoadedAt:   time.Now(),
		})
	}

	return documents, nil
}

// InstallInstructions describes how to install the pdftotext dependency.
func InstallInstructions() string {
	return "pdftotext not found: install poppler (macOS: brew install poppler, Debian/Ubuntu: apt install poppler-utils)"
}

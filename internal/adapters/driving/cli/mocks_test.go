package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driving"
)

type mockIngestService struct {
	report *driving.IngestReport
	err    error
	folder string
}

func (m *mockIngestService) Ingest(_ context.Context, folder string) (*driving.IngestReport, error) {
	m.folder = folder
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

type mockRetrievalService struct {
	results []domain.ScoredChunk
	err     error
	lastK   int
}

func (m *mockRetrievalService) Search(_ context.Context, _ string, k int) ([]domain.ScoredChunk, error) {
	m.lastK = k
	return m.results, m.err
}

func (m *mockRetrievalService) Rerank(_ context.Context, _ string, candidates []domain.ScoredChunk, topN int) ([]domain.ScoredChunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if topN > len(candidates) {
		topN = len(candidates)
	}
	return candidates[:topN], nil
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string) (string, error) {
	return "context", m.err
}

type mockAnswerService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAnswerService) Ask(_ context.Context, _ string) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

var errMockService = errors.New("mock service failure")

// setupTestServices swaps the package-level services for fakes and
// points the config flag at an isolated temp path. The returned cleanup
// restores everything.
func setupTestServices(tempDir string) func() {
	oldIngest := ingestService
	oldRetrieval := retrievalService
	oldAnswer := answerService
	oldConfig := flagConfig

	ingestService = &mockIngestService{
		report: &driving.IngestReport{Documents: 2, Chunks: 10, Indexed: 10},
	}
	retrievalService = &mockRetrievalService{
		results: []domain.ScoredChunk{
			{ChunkID: "doc-1:0", Content: "Inertia resists changes in motion.", Score: 0.95},
			{ChunkID: "doc-1:1", Content: "Force equals mass times acceleration.", Score: 0.75},
		},
	}
	answerService = &mockAnswerService{
		answer: &domain.Answer{Text: "Inertia is resistance to change in motion.", Type: domain.QuestionTheory},
	}
	flagConfig = filepath.Join(tempDir, "config.toml")

	return func() {
		ingestService = oldIngest
		retrievalService = oldRetrieval
		answerService = oldAnswer
		flagConfig = oldConfig
	}
}

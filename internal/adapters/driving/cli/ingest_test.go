package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physica-labs/physica-cli/internal/core/ports/driving"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [folder]", ingestCmd.Use)
}

func TestIngestCmd_UsesArgumentFolder(t *testing.T) {
	cleanup := setupTestServices(t.TempDir())
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "/data/lectures"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "/data/lectures", ingestService.(*mockIngestService).folder)
	assert.Contains(t, buf.String(), "Documents: 2")
	assert.Contains(t, buf.String(), "Indexed:   10")
}

func TestIngestCmd_DefaultsToConfiguredCorpus(t *testing.T) {
	cleanup := setupTestServices(t.TempDir())
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "corpus", ingestService.(*mockIngestService).folder)
}

func TestIngestCmd_ReportsFailedBatches(t *testing.T) {
	cleanup := setupTestServices(t.TempDir())
	defer cleanup()
	ingestService = &mockIngestService{
		report: &driving.IngestReport{Documents: 3, Chunks: 20, Indexed: 15, FailedBatches: 1, SkippedDocuments: 1},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "corpus"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(1 skipped)")
	assert.Contains(t, buf.String(), "Failed batches: 1")
}

func TestIngestCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices(t.TempDir())
	defer cleanup()
	ingestService = &mockIngestService{err: errMockService}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "corpus"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest failed")
}

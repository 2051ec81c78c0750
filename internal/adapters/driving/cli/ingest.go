package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [folder]",
	Short: "Index a corpus folder into the vector database",
	Long: `Loads every supported file (PDF, Word) under the folder, splits the
text into semantically coherent chunks, embeds them and stores the
vectors in the local index. Without an argument the configured corpus
path is used.

Re-running ingest on the same corpus replaces existing chunks in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := setupIngest()
	if err != nil {
		return err
	}

	folder := cfg.CorpusPath
	if len(args) > 0 {
		folder = args[0]
	}

	report, err := ingestService.Ingest(cmd.Context(), folder)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s\n", folder)
	cmd.Printf("  Documents: %d", report.Documents)
	if report.SkippedDocuments > 0 {
		cmd.Printf(" (%d skipped)", report.SkippedDocuments)
	}
	cmd.Println()
	cmd.Printf("  Chunks:    %d\n", report.Chunks)
	cmd.Printf("  Indexed:   %d\n", report.Indexed)
	if report.FailedBatches > 0 {
		cmd.Printf("  Failed batches: %d (re-run ingest to retry)\n", report.FailedBatches)
	}
	return nil
}

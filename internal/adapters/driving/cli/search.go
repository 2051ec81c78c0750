package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/physica-labs/physica-cli/internal/core/domain"
)

var (
	searchLimit  int
	searchJSON   bool
	searchRerank bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the vector index",
	Long: `Embeds the query and prints the nearest chunks from the index. With
--rerank the candidates are re-scored by the cross-encoder first, which
is what the ask command does internally.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchRerank, "rerank", false, "re-score candidates with the cross-encoder")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	cfg, err := setupRetrieval()
	if err != nil {
		return err
	}

	limit := searchLimit
	if limit < 1 {
		limit = cfg.InitialK
	}

	results, err := retrievalService.Search(cmd.Context(), query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchRerank {
		topN := cfg.TopN
		if topN > limit {
			topN = limit
		}
		results, err = retrievalService.Rerank(cmd.Context(), query, results, topN)
		if err != nil {
			return fmt.Errorf("rerank failed: %w", err)
		}
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		snippet := r.Content
		if len(snippet) > 160 {
			snippet = snippet[:160] + "..."
		}
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, r.ChunkID, r.Score)
		cmd.Printf("      %s\n", snippet)
		cmd.Println()
	}
	return nil
}

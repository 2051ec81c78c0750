package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/physica-labs/physica-cli/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long:  `View the effective configuration or write a default config file to edit.`,
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  `Writes the default configuration to the config path so it can be edited.`,
	RunE:  runSettingsInit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}

func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return config.DefaultPath()
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s", path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cmd.Printf(" (not present, using defaults)")
	}
	cmd.Println()
	cmd.Println()

	cmd.Println("[Models]")
	cmd.Printf("  Embedding: %s (%s, %d dimensions)\n", cfg.ModelEmbedding, cfg.EmbeddingProvider, cfg.EmbeddingDimensions)
	cmd.Printf("  Reranking: %s\n", cfg.ModelReranking)
	cmd.Printf("  Generator: %s (%s)\n", cfg.ModelGenerator, cfg.GeneratorProvider)
	cmd.Printf("  MCQ:       %s\n", cfg.ModelMCQ)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Vector index: %s\n", cfg.VectorDBPath)
	cmd.Printf("  Provenance:   %s\n", cfg.ProvenancePath)
	cmd.Printf("  Corpus:       %s\n", cfg.CorpusPath)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Chunking:  %s (%.1f)\n", cfg.BreakpointThresholdType, cfg.BreakpointThresholdAmount)
	cmd.Printf("  Batch size: %d\n", cfg.BatchSize)
	cmd.Printf("  Initial k:  %d\n", cfg.InitialK)
	cmd.Printf("  Top n:      %d\n", cfg.TopN)

	if config.OpenAIKey() == "" {
		cmd.Println()
		cmd.Println("OPENAI_API_KEY is not set; OpenAI providers are unavailable.")
	}
	return nil
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	cmd.Printf("Wrote default config to %s\n", path)
	return nil
}

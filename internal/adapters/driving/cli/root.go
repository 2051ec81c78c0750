// Package cli implements the physica command-line interface. Commands
// hold no business logic; they parse flags, wire adapters into the core
// services and print results.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/physica-labs/physica-cli/internal/core/ports/driving"
	"github.com/physica-labs/physica-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Commands construct them lazily through wire.go;
// tests replace them with fakes.
var (
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	answerService    driving.AnswerService
)

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "physica",
	Short: "Question answering over a physics course corpus",
	Long: `physica ingests lecture material into a local vector index and answers
questions against it with two-stage retrieval: nearest-neighbour search
followed by cross-encoder reranking.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.physica/config.toml)")
}

// Execute runs the CLI.
func Execute() error {
	defer closeResources()
	return rootCmd.Execute()
}

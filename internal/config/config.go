// Package config loads the pipeline configuration from a TOML file in
// the physica config directory, applying defaults and validating the
// retrieval parameters before any service is constructed.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/physica-labs/physica-cli/internal/core/domain"
)

// Config holds every tunable of the pipeline. TOML keys follow the
// dataset conventions so existing config files keep working.
type Config struct {
	ModelEmbedding string `toml:"model_embedding"`
	ModelReranking string `toml:"model_reranking"`
	ModelGenerator string `toml:"model_generator"`
	ModelMCQ       string `toml:"model_mcq"`

	EmbeddingBaseURL string `toml:"embedding_base_url"`
	RerankerBaseURL  string `toml:"reranker_base_url"`
	GeneratorBaseURL string `toml:"generator_base_url"`

	// EmbeddingProvider selects the embedding adapter: "ollama" or
	// "openai".
	EmbeddingProvider string `toml:"embedding_provider"`
	// GeneratorProvider selects the answer generator: "ollama" or
	// "openai".
	GeneratorProvider string `toml:"generator_provider"`

	// EmbeddingDimensions is the vector size of the embedding model.
	// It must match the model actually served; the index guards it.
	EmbeddingDimensions int `toml:"embedding_dimensions"`

	VectorDBPath   string `toml:"path_save_vectordb"`
	ProvenancePath string `toml:"path_dataset_file_json"`
	CorpusPath     string `toml:"path_corpus"`

	BreakpointThresholdType   string  `toml:"breakpoint_threshold_type"`
	BreakpointThresholdAmount float64 `toml:"breakpoint_threshold_amount"`

	BatchSize int `toml:"batch_size"`
	InitialK  int `toml:"initial_k"`
	TopN      int `toml:"top_n"`
}

// Default returns a Config with the standard pipeline parameters.
func Default() Config {
	return Config{
		ModelEmbedding:            "nomic-embed-text",
		ModelReranking:            "BAAI/bge-reranker-v2-m3",
		ModelGenerator:            "gpt-4o-mini",
		ModelMCQ:                  "gpt-4o-mini",
		EmbeddingBaseURL:          "http://localhost:11434",
		RerankerBaseURL:           "http://localhost:8080",
		EmbeddingProvider:         "ollama",
		GeneratorProvider:         "openai",
		EmbeddingDimensions:       768,
		VectorDBPath:              "vectordb/index.db",
		ProvenancePath:            "vectordb/chunks.json",
		CorpusPath:                "corpus",
		BreakpointThresholdType:   string(domain.BreakpointPercentile),
		BreakpointThresholdAmount: 95,
		BatchSize:                 100,
		InitialK:                  15,
		TopN:                      5,
	}
}

// DefaultPath returns ~/.physica/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".physica", "config.toml"), nil
}

// Load reads the TOML file at path on top of the defaults. A missing
// file is not an error; the defaults are returned as-is so a fresh
// install works without a config file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating the directory if
// needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the retrieval parameters.
func (c Config) Validate() error {
	if !domain.BreakpointThresholdType(c.BreakpointThresholdType).Valid() {
		return fmt.Errorf("%w: unknown breakpoint_threshold_type %q", domain.ErrInvalidConfig, c.BreakpointThresholdType)
	}
	if c.EmbeddingDimensions < 1 {
		return fmt.Errorf("%w: embedding_dimensions must be at least 1, got %d", domain.ErrInvalidConfig, c.EmbeddingDimensions)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be at least 1, got %d", domain.ErrInvalidConfig, c.BatchSize)
	}
	if c.InitialK < 1 {
		return fmt.Errorf("%w: initial_k must be at least 1, got %d", domain.ErrInvalidConfig, c.InitialK)
	}
	if c.TopN < 1 || c.TopN > c.InitialK {
		return fmt.Errorf("%w: top_n must be between 1 and initial_k (%d), got %d", domain.ErrInvalidConfig, c.InitialK, c.TopN)
	}
	switch c.EmbeddingProvider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("%w: unknown embedding_provider %q", domain.ErrInvalidConfig, c.EmbeddingProvider)
	}
	switch c.GeneratorProvider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("%w: unknown generator_provider %q", domain.ErrInvalidConfig, c.GeneratorProvider)
	}
	return nil
}

// OpenAIKey reads the OpenAI API key from the environment. Key material
// never lives in the config file.
func OpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

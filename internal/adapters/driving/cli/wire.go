package cli

import (
	"fmt"
	"io"

	"github.com/physica-labs/physica-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/physica-labs/physica-cli/internal/adapters/driven/embedding/openai"
	ollamagen "github.com/physica-labs/physica-cli/internal/adapters/driven/generator/ollama"
	openaigen "github.com/physica-labs/physica-cli/internal/adapters/driven/generator/openai"
	"github.com/physica-labs/physica-cli/internal/adapters/driven/provenance/jsonfile"
	"github.com/physica-labs/physica-cli/internal/adapters/driven/reranker/tei"
	"github.com/physica-labs/physica-cli/internal/adapters/driven/vectorindex/sqlite"
	"github.com/physica-labs/physica-cli/internal/chunker"
	"github.com/physica-labs/physica-cli/internal/classifier"
	"github.com/physica-labs/physica-cli/internal/config"
	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
	"github.com/physica-labs/physica-cli/internal/core/services"
	"github.com/physica-labs/physica-cli/internal/latex"
	"github.com/physica-labs/physica-cli/internal/readers"
)

// closers collects adapters that hold resources so Execute can release
// them on exit.
var closers []io.Closer

func closeResources() {
	for _, c := range closers {
		c.Close()
	}
	closers = nil
}

// loadConfig resolves the --config flag or the default path.
func loadConfig() (config.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

// newEmbedder builds the embedding adapter named by the config.
func newEmbedder(cfg config.Config) (driven.EmbeddingService, error) {
	switch cfg.EmbeddingProvider {
	case "ollama":
		svc := ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.EmbeddingBaseURL,
			Model:      cfg.ModelEmbedding,
			Dimensions: cfg.EmbeddingDimensions,
		})
		closers = append(closers, svc)
		return svc, nil
	case "openai":
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     config.OpenAIKey(),
			Model:      cfg.ModelEmbedding,
			Dimensions: cfg.EmbeddingDimensions,
		})
		if err != nil {
			return nil, err
		}
		closers = append(closers, svc)
		return svc, nil
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidConfig, cfg.EmbeddingProvider)
	}
}

// newGenerator builds the answer generator named by the config.
func newGenerator(cfg config.Config) (driven.AnswerGenerator, error) {
	switch cfg.GeneratorProvider {
	case "ollama":
		gen := ollamagen.NewGenerator(ollamagen.Config{
			BaseURL: cfg.GeneratorBaseURL,
			Model:   cfg.ModelGenerator,
		})
		closers = append(closers, gen)
		return gen, nil
	case "openai":
		gen, err := openaigen.NewGenerator(openaigen.Config{
			APIKey:  config.OpenAIKey(),
			BaseURL: cfg.GeneratorBaseURL,
			Model:   cfg.ModelGenerator,
		})
		if err != nil {
			return nil, err
		}
		closers = append(closers, gen)
		return gen, nil
	default:
		return nil, fmt.Errorf("%w: unknown generator provider %q", domain.ErrInvalidConfig, cfg.GeneratorProvider)
	}
}

// newMCQAgent builds the multiple-choice agent, or nil when no key is
// available so multiple-choice questions fall back to the theory path.
func newMCQAgent(cfg config.Config) driven.MCQAgent {
	key := config.OpenAIKey()
	if key == "" {
		return nil
	}
	agent, err := openaigen.NewMCQAgent(openaigen.Config{
		APIKey:  key,
		BaseURL: cfg.GeneratorBaseURL,
		Model:   cfg.ModelMCQ,
	})
	if err != nil {
		return nil
	}
	return agent
}

// openIngestStores opens the vector index and provenance table from the
// configured paths, creating them when missing.
func openIngestStores(cfg config.Config, dimensions int) (driven.VectorIndex, driven.ProvenanceStore, error) {
	index, err := sqlite.Open(cfg.VectorDBPath, dimensions, cfg.ModelEmbedding)
	if err != nil {
		return nil, nil, fmt.Errorf("open vector index: %w", err)
	}
	closers = append(closers, index)

	table, err := jsonfile.Open(cfg.ProvenancePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open provenance table: %w", err)
	}
	return index, table, nil
}

// openQueryStores loads existing stores. Query serving cannot start
// against a missing index or provenance file; both fail fast instead of
// materialising empty replacements.
func openQueryStores(cfg config.Config, dimensions int) (driven.VectorIndex, driven.ProvenanceStore, error) {
	index, err := sqlite.OpenExisting(cfg.VectorDBPath, dimensions, cfg.ModelEmbedding)
	if err != nil {
		return nil, nil, fmt.Errorf("open vector index: %w", err)
	}
	closers = append(closers, index)

	table, err := jsonfile.Load(cfg.ProvenancePath)
	if err != nil {
		return nil, nil, fmt.Errorf("load provenance table: %w", err)
	}
	return index, table, nil
}

// setupIngest wires the ingestion pipeline, reusing an injected service
// when present.
func setupIngest() (config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	if ingestService != nil {
		return cfg, nil
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return cfg, err
	}
	index, table, err := openIngestStores(cfg, embedder.Dimensions())
	if err != nil {
		return cfg, err
	}

	sem := chunker.New(embedder, chunker.WithThreshold(
		domain.BreakpointThresholdType(cfg.BreakpointThresholdType),
		cfg.BreakpointThresholdAmount,
	))

	ingestService = services.NewIngestService(
		readers.DefaultLoader(), sem, embedder, index, table, cfg.BatchSize)
	return cfg, nil
}

// setupRetrieval wires the query-time pipeline, reusing an injected
// service when present.
func setupRetrieval() (config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	if retrievalService != nil {
		return cfg, nil
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return cfg, err
	}
	index, table, err := openQueryStores(cfg, embedder.Dimensions())
	if err != nil {
		return cfg, err
	}

	scorer := tei.NewScorer(tei.Config{
		BaseURL: cfg.RerankerBaseURL,
		Model:   cfg.ModelReranking,
	})
	closers = append(closers, scorer)

	svc, err := services.NewRetrievalService(
		index, embedder, scorer, table, cfg.InitialK, cfg.TopN)
	if err != nil {
		return cfg, err
	}
	retrievalService = svc
	return cfg, nil
}

// setupAnswer wires the full ask pipeline on top of retrieval.
func setupAnswer() (config.Config, error) {
	if answerService != nil {
		return loadConfig()
	}

	cfg, err := setupRetrieval()
	if err != nil {
		return cfg, err
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		return cfg, err
	}

	answerService = services.NewAnswerService(
		retrievalService,
		generator,
		newMCQAgent(cfg),
		classifier.New(),
		latex.New(),
	)
	return cfg, nil
}

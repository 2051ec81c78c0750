// Package services implements the application core: ingestion of the
// corpus into the vector index, two-stage retrieval with reranking, and
// the end-to-end question-answering pipeline. Services depend only on
// ports; adapters are injected at the composition root.
package services

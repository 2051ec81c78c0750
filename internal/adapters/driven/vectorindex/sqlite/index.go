// Package sqlite provides a persistent vector index backed by SQLite.
// Vectors are stored as little-endian float32 blobs and searched by
// exact cosine similarity over an in-process scan. Batched additions are
// transactional, so a failed batch never leaves the index unloadable.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS index_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS vectors (
	chunk_id  TEXT PRIMARY KEY,
	content   TEXT NOT NULL,
	source    TEXT NOT NULL DEFAULT '',
	embedding BLOB NOT NULL
);
`

// Index is a SQLite-backed vector index. It is bound to one embedding
// model and dimensionality for its whole lifetime; opening an existing
// index with a different model or dimensionality fails.
type Index struct {
	db         *sql.DB
	path       string
	dimensions int
	model      string
}

// Open creates a new index at path or loads an existing one.
// The dimensions and model of an existing index must match; a mismatch
// is a configuration error, not a silent degradation.
func Open(path string, dimensions int, model string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: index path is empty", domain.ErrInvalidConfig)
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidConfig)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}

	idx := &Index{
		db:         db,
		path:       path,
		dimensions: dimensions,
		model:      model,
	}

	if err := idx.checkMeta(); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// OpenExisting loads the index at path, failing when none has been
// built there. Used at query time, where a missing index is a broken
// deployment rather than a fresh start.
func OpenExisting(path string, dimensions int, model string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: index path is empty", domain.ErrInvalidConfig)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: vector index %s does not exist, run ingest first", domain.ErrInvalidConfig, path)
		}
		return nil, fmt.Errorf("checking index file: %w", err)
	}
	return Open(path, dimensions, model)
}

// checkMeta verifies the stored dimensions and model against the
// configured ones, writing them on first open.
func (idx *Index) checkMeta() error {
	stored, err := idx.metaValue("dimensions")
	if err != nil {
		return err
	}

	if stored == "" {
		if err := idx.setMeta("dimensions", strconv.Itoa(idx.dimensions)); err != nil {
			return err
		}
		return idx.setMeta("model", idx.model)
	}

	dims, err := strconv.Atoi(stored)
	if err != nil || dims != idx.dimensions {
		return fmt.Errorf("%w: index has %s dimensions, embedding provider has %d",
			domain.ErrDimensionMismatch, stored, idx.dimensions)
	}

	storedModel, err := idx.metaValue("model")
	if err != nil {
		return err
	}
	if storedModel != "" && idx.model != "" && storedModel != idx.model {
		return fmt.Errorf("%w: index built with %q, configured model is %q",
			domain.ErrModelMismatch, storedModel, idx.model)
	}

	return nil
}

func (idx *Index) metaValue(key string) (string, error) {
	var value string
	err := idx.db.QueryRow("SELECT value FROM index_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading index metadata: %w", err)
	}
	return value, nil
}

func (idx *Index) setMeta(key, value string) error {
	_, err := idx.db.Exec(
		"INSERT INTO index_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("writing index metadata: %w", err)
	}
	return nil
}

// AddBatch inserts a batch of entries in one transaction. On failure the
// whole batch is rolled back and the previous index state remains intact.
func (idx *Index) AddBatch(ctx context.Context, entries []driven.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	for _, e := range entries {
		if len(e.Vector) != idx.dimensions {
			return fmt.Errorf("%w: chunk %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, e.ChunkID, len(e.Vector), idx.dimensions)
		}
		if e.Content == "" {
			return fmt.Errorf("%w: chunk %s has empty content", domain.ErrInvalidInput, e.ChunkID)
		}
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting batch transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO vectors (chunk_id, content, source, embedding) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.ChunkID, e.Content, e.Source, encodeVector(e.Vector)); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", e.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}

	return nil
}

// Search returns the k nearest neighbours by cosine similarity, nearest
// first. Ties are broken by chunk id so repeated calls return the same
// ordered list.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dimensions)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be >= 1", domain.ErrInvalidInput)
	}

	rows, err := idx.db.QueryContext(ctx, "SELECT chunk_id, content, embedding FROM vectors")
	if err != nil {
		return nil, fmt.Errorf("scanning vectors: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var chunkID, content string
		var blob []byte
		if err := rows.Scan(&chunkID, &content, &blob); err != nil {
			return nil, fmt.Errorf("reading vector row: %w", err)
		}

		vector, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding vector for chunk %s: %w", chunkID, err)
		}

		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			Content:    content,
			Similarity: cosineSimilarity(query, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning vectors: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	return hits, nil
}

// Count returns the number of stored vectors.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var count int
	if err := idx.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return count, nil
}

// Dimensions returns the fixed vector size of this index.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// Path returns the index database path.
func (idx *Index) Path() string {
	return idx.path
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// encodeVector serialises a vector as little-endian float32 bytes.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector deserialises little-endian float32 bytes.
func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// cosineSimilarity computes the cosine similarity between two vectors of
// equal length.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

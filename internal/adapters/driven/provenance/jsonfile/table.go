// Package jsonfile provides a provenance table backed by a JSON file.
// The table maps chunk ids to their full stored content and is loaded
// entirely into memory: written during ingestion, read-only at query
// time.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
)

// Ensure Table implements the interface.
var _ driven.ProvenanceStore = (*Table)(nil)

// Table is a JSON-file-backed provenance store.
type Table struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
}

// Open loads the table at path, creating an empty one if the file does
// not exist. Used at ingestion time.
func Open(path string) (*Table, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: provenance path is empty", domain.ErrInvalidConfig)
	}

	t := &Table{path: path, entries: make(map[string]string)}

	if err := t.load(); err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, err
	}

	return t, nil
}

// Load loads an existing table at path. A missing file is a fatal
// configuration error: query serving cannot start without provenance.
func Load(path string) (*Table, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: provenance path is empty", domain.ErrInvalidConfig)
	}

	t := &Table{path: path, entries: make(map[string]string)}

	if err := t.load(); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: provenance file %s does not exist", domain.ErrInvalidConfig, path)
		}
		return nil, err
	}

	return t, nil
}

func (t *Table) load() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &t.entries); err != nil {
		return fmt.Errorf("parsing provenance file %s: %w", t.path, err)
	}

	return nil
}

// Get returns the stored content for a chunk id.
func (t *Table) Get(chunkID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	content, ok := t.entries[chunkID]
	return content, ok
}

// Set records the content for a chunk id.
func (t *Table) Set(chunkID, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[chunkID] = content
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries)
}

// Save writes the table to disk via a temp file and rename, so a crash
// mid-write never corrupts the existing table.
func (t *Table) Save() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return fmt.Errorf("creating provenance directory: %w", err)
	}

	data, err := json.MarshalIndent(t.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding provenance table: %w", err)
	}

	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing provenance table: %w", err)
	}

	if err := os.Rename(tmp, t.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing provenance table: %w", err)
	}

	return nil
}

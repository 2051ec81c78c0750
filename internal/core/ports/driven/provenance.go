package driven

// ProvenanceStore maps chunk identifiers to the full stored content used
// for context assembly. It is written during ingestion and read-only at
// query time, loaded fully into memory.
type ProvenanceStore interface {
	// Get returns the stored content for a chunk id.
	Get(chunkID string) (string, bool)

	// Set records the content for a chunk id.
	Set(chunkID, content string)

	// Save persists the table to its backing file.
	Save() error

	// Len returns the number of entries.
	Len() int
}

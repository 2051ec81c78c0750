package domain

// BreakpointThresholdType selects the statistic used to decide where one
// chunk ends and the next begins during semantic chunking.
type BreakpointThresholdType string

const (
	// BreakpointPercentile breaks where the adjacent-sentence distance
	// exceeds the given percentile of all distances in the document.
	BreakpointPercentile BreakpointThresholdType = "percentile"

	// BreakpointStandardDeviation breaks where the distance exceeds
	// mean + amount * stddev.
	BreakpointStandardDeviation BreakpointThresholdType = "standard_deviation"

	// BreakpointInterquartile breaks where the distance exceeds
	// mean + amount * IQR.
	BreakpointInterquartile BreakpointThresholdType = "interquartile"
)

// Valid reports whether t is a recognised threshold type.
func (t BreakpointThresholdType) Valid() bool {
	switch t {
	case BreakpointPercentile, BreakpointStandardDeviation, BreakpointInterquartile:
		return true
	}
	return false
}

// ScoredChunk is a chunk reference paired with a score. The meaning of
// the score depends on the stage: cosine similarity after retrieval,
// cross-encoder relevance after reranking. Scores carry no fixed range;
// only relative order within one result list is meaningful.
type ScoredChunk struct {
	// ChunkID identifies the chunk in the index and provenance table.
	ChunkID string

	// Content is the chunk text as stored in the index.
	Content string

	// Score is the similarity or relevance score for this chunk.
	Score float64
}

// Answer is the user-visible result of the question-answering pipeline.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Type is the classified question type that selected the path.
	Type QuestionType

	// Context is the assembled supporting context handed to the
	// generator. Empty when retrieval found nothing usable.
	Context string
}

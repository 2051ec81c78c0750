package driven

import "context"

// AnswerGenerator produces a natural-language answer from a question and
// its assembled supporting context. It is a black box to the retrieval
// core: an empty context is passed through and the generator decides how
// to respond to it.
type AnswerGenerator interface {
	// Generate returns the answer text for the question given the
	// supporting context.
	Generate(ctx context.Context, question, supportingContext string) (string, error)

	// Close releases resources.
	Close() error
}

// MCQAgent answers multiple-choice questions with a fine-tuned model.
// The inference call is external; the core only sees this boundary.
type MCQAgent interface {
	// Answer returns the selected option and explanation for a
	// multiple-choice question.
	Answer(ctx context.Context, question string) (string, error)
}

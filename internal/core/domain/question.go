package domain

// QuestionType is the classification of an incoming question, used to
// route it to the appropriate answering path.
type QuestionType string

const (
	// QuestionTheory is a conceptual question answered through
	// retrieval-augmented generation.
	QuestionTheory QuestionType = "theory"

	// QuestionMultipleChoice is a question with enumerated options,
	// answered by the fine-tuned multiple-choice model.
	QuestionMultipleChoice QuestionType = "multiple_choice"

	// QuestionComputation is a numeric problem. It is answered through
	// the theory path; the classification exists for routing and
	// prompt selection.
	QuestionComputation QuestionType = "computation"
)

// String returns the type identifier.
func (t QuestionType) String() string {
	return string(t)
}

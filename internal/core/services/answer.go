package services

import (
	"context"
	"fmt"

	"github.com/physica-labs/physica-cli/internal/core/domain"
	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
	"github.com/physica-labs/physica-cli/internal/core/ports/driving"
	"github.com/physica-labs/physica-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Classifier assigns a question type to a user question.
type Classifier interface {
	Classify(question string) domain.QuestionType
}

// Formatter normalises a question before classification and retrieval
// (LaTeX to plain text).
type Formatter interface {
	Format(text string) string
}

// AnswerService answers user questions end to end: normalise, classify,
// retrieve supporting context, generate. Multiple-choice questions are
// routed to the fine-tuned model instead of the retrieval path.
type AnswerService struct {
	retrieval  driving.RetrievalService
	generator  driven.AnswerGenerator
	mcq        driven.MCQAgent // optional
	classifier Classifier
	formatter  Formatter // optional
}

// NewAnswerService creates an answer service. The MCQ agent and the
// formatter are optional; without an MCQ agent multiple-choice questions
// go through the theory path.
func NewAnswerService(
	retrieval driving.RetrievalService,
	generator driven.AnswerGenerator,
	mcq driven.MCQAgent,
	classifier Classifier,
	formatter Formatter,
) *AnswerService {
	return &AnswerService{
		retrieval:  retrieval,
		generator:  generator,
		mcq:        mcq,
		classifier: classifier,
		formatter:  formatter,
	}
}

// Ask answers one question. A retriever failure yields domain.ErrNoAnswer;
// an empty assembled context is still handed to the generator, which
// decides how to respond to it.
func (s *AnswerService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	logger.Section("Question")

	if s.formatter != nil {
		question = s.formatter.Format(question)
	}

	qtype := s.classifier.Classify(question)
	logger.Info("Question classified as %s", qtype)

	if qtype == domain.QuestionMultipleChoice && s.mcq != nil {
		text, err := s.mcq.Answer(ctx, question)
		if err != nil {
			return nil, fmt.Errorf("multiple-choice agent: %w", err)
		}
		return &domain.Answer{Text: text, Type: qtype}, nil
	}

	supportingContext, err := s.retrieval.Retrieve(ctx, question)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrNoAnswer, err)
	}
	if supportingContext == "" {
		logger.Info("Empty context assembled, generating without support")
	}

	text, err := s.generator.Generate(ctx, question, supportingContext)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{Text: text, Type: qtype, Context: supportingContext}, nil
}

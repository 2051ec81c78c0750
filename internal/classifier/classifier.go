// Package classifier assigns a question type to incoming physics
// questions with rule-based string heuristics. It is a pure function of
// the question text; no model call is involved.
package classifier

import (
	"regexp"
	"strings"

	"github.com/physica-labs/physica-cli/internal/core/domain"
)

var (
	// optionMarker matches enumerated answer options such as "A.", "B)"
	// or "(C)" at the start of a line or after whitespace.
	optionMarker = regexp.MustCompile(`(?m)(?:^|\s|\()([A-D])[.)]\s`)

	// numberWithUnit matches a magnitude followed by a unit symbol,
	// the strongest signal for a computation question.
	numberWithUnit = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:(?:m/s2|m/s|km/h|kg|km|cm|mm|ms|N|J|W|V|A|Hz|Pa|K|mol|rad|eV|Ω|°C|°F)\b|%)`)

	// arithmeticExpr matches explicit arithmetic between numbers.
	arithmeticExpr = regexp.MustCompile(`\d+\s*[+\-×*/÷]\s*\d+`)
)

// theoryKeywords signal conceptual questions answered from the corpus.
var theoryKeywords = []string{
	"what is", "what are", "define", "definition", "explain", "describe",
	"state the law", "state the principle", "why does", "why do",
	"difference between", "meaning of", "concept of",
}

// computationKeywords signal numeric problems.
var computationKeywords = []string{
	"calculate", "compute", "how much", "how many", "how far", "how fast",
	"find the value", "determine the", "evaluate",
}

// Rules is the rule-based question classifier.
type Rules struct{}

// New creates the rule-based classifier.
func New() *Rules {
	return &Rules{}
}

// Classify returns the question type. Multiple-choice detection takes
// priority: a question with enumerated options is multiple-choice even
// when it also contains theory or computation vocabulary.
func (r *Rules) Classify(question string) domain.QuestionType {
	q := strings.TrimSpace(question)
	if q == "" {
		return domain.QuestionTheory
	}

	if isMultipleChoice(q) {
		return domain.QuestionMultipleChoice
	}

	lower := strings.ToLower(q)

	if containsAny(lower, theoryKeywords) {
		return domain.QuestionTheory
	}

	if containsAny(lower, computationKeywords) ||
		numberWithUnit.MatchString(q) ||
		arithmeticExpr.MatchString(q) {
		return domain.QuestionComputation
	}

	return domain.QuestionTheory
}

// isMultipleChoice requires at least two distinct option markers so a
// stray "A." in prose does not misclassify.
func isMultipleChoice(question string) bool {
	seen := map[string]bool{}
	for _, m := range optionMarker.FindAllStringSubmatch(question, -1) {
		seen[m[1]] = true
	}
	return len(seen) >= 2
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

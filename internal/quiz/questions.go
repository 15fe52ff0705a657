package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Unanswered marks a question the user never answered.
const Unanswered = -1

// Question is one quiz item in the authoring format: either true/false
// (2 choices) or multiple choice (4 choices).
type Question struct {
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

// Definition is an ordered, non-empty question set.
type Definition struct {
	Questions []Question `json:"questions"`
}

// ValidationError reports the first malformed question by its 1-based position.
type ValidationError struct {
	Position int
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: %s", e.Position, e.Reason)
}

var ErrEmptyDefinition = errors.New("quiz must contain at least one question")

// ParseQuestions parses the authoring JSON contract: an array of objects with
// question, choices (exactly 2 or 4 strings), answer (index into choices) and
// an optional explanation.
func ParseQuestions(raw string) ([]Question, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyDefinition
	}

	var questions []Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("quiz JSON must be an array of questions: %w", err)
	}

	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// ParseDefinition is ParseQuestions wrapped into a Definition.
func ParseDefinition(raw string) (Definition, error) {
	questions, err := ParseQuestions(raw)
	if err != nil {
		return Definition{}, err
	}
	return Definition{Questions: questions}, nil
}

// ValidateQuestions checks every question against the authoring contract and
// reports the first offender with its 1-based position.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return ErrEmptyDefinition
	}

	for idx, question := range questions {
		position := idx + 1
		if strings.TrimSpace(question.Question) == "" {
			return &ValidationError{Position: position, Reason: "question text is empty"}
		}
		if len(question.Choices) != 2 && len(question.Choices) != 4 {
			return &ValidationError{
				Position: position,
				Reason:   fmt.Sprintf("must have 2 choices (true/false) or 4 choices (multiple choice), got %d", len(question.Choices)),
			}
		}
		if question.Answer < 0 || question.Answer >= len(question.Choices) {
			return &ValidationError{
				Position: position,
				Reason:   fmt.Sprintf("answer index %d is out of range for %d choices", question.Answer, len(question.Choices)),
			}
		}
	}
	return nil
}

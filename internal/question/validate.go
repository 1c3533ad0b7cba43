package question

import (
	"fmt"
	"strings"
)

// MinAnswers is the minimum number of answer choices per question.
const MinAnswers = 2

// ValidationError describes why an authored question was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Normalize trims text fields and lowercases the difficulty, defaulting it
// to medium. The input is not modified.
func Normalize(q Question) Question {
	out := Question{
		ID:                   strings.TrimSpace(q.ID),
		Category:             strings.TrimSpace(q.Category),
		Subcategory:          strings.TrimSpace(q.Subcategory),
		Difficulty:           strings.ToLower(strings.TrimSpace(q.Difficulty)),
		Text:                 strings.TrimSpace(q.Text),
		Image:                strings.TrimSpace(q.Image),
		ImageAlt:             strings.TrimSpace(q.ImageAlt),
		Didactic:             strings.TrimSpace(q.Didactic),
		EducationalObjective: strings.TrimSpace(q.EducationalObjective),
	}
	if out.Difficulty == "" {
		out.Difficulty = DifficultyMedium
	}
	if q.Answers != nil {
		out.Answers = make([]AnswerChoice, len(q.Answers))
		for i, a := range q.Answers {
			out.Answers[i] = AnswerChoice{
				Text:        strings.TrimSpace(a.Text),
				IsCorrect:   a.IsCorrect,
				Explanation: strings.TrimSpace(a.Explanation),
			}
		}
	}
	return out
}

// Validate checks the structural invariants of a question: prompt text is
// present, there are at least MinAnswers non-empty choices, and exactly one
// choice is correct. The ID is not checked; callers assign it.
func Validate(q Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Field: "questionText", Message: "question text is required"}
	}
	if len(q.Answers) < MinAnswers {
		return &ValidationError{
			Field:   "answers",
			Message: fmt.Sprintf("provide at least %d answer choices", MinAnswers),
		}
	}
	correct := 0
	for i, a := range q.Answers {
		if strings.TrimSpace(a.Text) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("answers[%d].text", i),
				Message: "fill in text for every answer choice",
			}
		}
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return &ValidationError{
			Field:   "answers",
			Message: fmt.Sprintf("select exactly one correct answer (found %d)", correct),
		}
	}
	return nil
}

package question

import "strings"

// Difficulty levels recognised by the catalog. Questions may carry other
// values; they are kept as-is and sort after these.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DifficultyOrder is the display order for known difficulties.
var DifficultyOrder = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// AnswerChoice is a single selectable answer.
type AnswerChoice struct {
	Text        string `json:"text" yaml:"text"`
	IsCorrect   bool   `json:"isCorrect" yaml:"isCorrect"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Question is a multiple-choice item from the catalog or authored by the user.
type Question struct {
	ID                   string         `json:"id" yaml:"id"`
	Category             string         `json:"category" yaml:"category"`
	Subcategory          string         `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Difficulty           string         `json:"difficulty" yaml:"difficulty"`
	Text                 string         `json:"questionText" yaml:"questionText"`
	Answers              []AnswerChoice `json:"answers" yaml:"answers"`
	Image                string         `json:"image,omitempty" yaml:"image,omitempty"`
	ImageAlt             string         `json:"imageAlt,omitempty" yaml:"imageAlt,omitempty"`
	Didactic             string         `json:"didactic,omitempty" yaml:"didactic,omitempty"`
	EducationalObjective string         `json:"educationalObjective,omitempty" yaml:"educationalObjective,omitempty"`
}

// NormalizedDifficulty returns the lowercased difficulty.
func (q Question) NormalizedDifficulty() string {
	return strings.ToLower(strings.TrimSpace(q.Difficulty))
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	c := q
	if q.Answers != nil {
		c.Answers = make([]AnswerChoice, len(q.Answers))
		copy(c.Answers, q.Answers)
	}
	return c
}

// CloneAll copies a slice of questions.
func CloneAll(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

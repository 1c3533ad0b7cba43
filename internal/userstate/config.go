package userstate

import "encoding/json"

// Mode selects the pedagogical policy of a session.
type Mode string

const (
	ModeTutor Mode = "Tutor"
	ModeExam  Mode = "Exam"
)

// StatusFilter restricts the pool by most recent attempt outcome.
type StatusFilter string

const (
	StatusFilterAll        StatusFilter = "all"
	StatusFilterUnanswered StatusFilter = "unanswered"
	StatusFilterIncorrect  StatusFilter = "incorrect"
)

// FlagFilter restricts the pool by flag membership.
type FlagFilter string

const (
	FlagFilterAny      FlagFilter = "any"
	FlagFilterFlagged  FlagFilter = "flagged"
	FlagFilterExcluded FlagFilter = "excludeFlagged"
)

// DifficultyAll disables difficulty filtering.
const DifficultyAll = "all"

// Question count bounds for a session.
const (
	MinQuestionCount     = 1
	MaxQuestionCount     = 100
	DefaultQuestionCount = 10
)

// SessionConfig describes how a session pool is built.
type SessionConfig struct {
	Mode               Mode         `json:"mode"`
	NumQuestions       int          `json:"numQuestions"`
	Randomize          bool         `json:"randomize"`
	SelectedCategories []string     `json:"selectedCategories"`
	Difficulty         string       `json:"difficulty"`
	StatusFilter       StatusFilter `json:"statusFilter"`
	IncludeCustom      bool         `json:"includeCustom"`
	OnlyCustom         bool         `json:"onlyCustom"`
	FlagFilter         FlagFilter   `json:"flagFilter"`
}

// DefaultSessionConfig returns the factory session configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Mode:               ModeTutor,
		NumQuestions:       DefaultQuestionCount,
		Randomize:          true,
		SelectedCategories: []string{},
		Difficulty:         DifficultyAll,
		StatusFilter:       StatusFilterUnanswered,
		IncludeCustom:      true,
		OnlyCustom:         false,
		FlagFilter:         FlagFilterAny,
	}
}

// UnmarshalJSON decodes on top of the defaults so absent fields keep their
// factory values.
func (c *SessionConfig) UnmarshalJSON(data []byte) error {
	type plain SessionConfig
	p := plain(DefaultSessionConfig())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = SessionConfig(p).Normalize()
	return nil
}

// ClampQuestionCount bounds n to [MinQuestionCount, MaxQuestionCount].
func ClampQuestionCount(n int) int {
	if n < MinQuestionCount {
		return MinQuestionCount
	}
	if n > MaxQuestionCount {
		return MaxQuestionCount
	}
	return n
}

// Normalize clamps the question count and replaces unknown or empty enum
// values with defaults.
func (c SessionConfig) Normalize() SessionConfig {
	def := DefaultSessionConfig()
	out := c
	out.NumQuestions = ClampQuestionCount(c.NumQuestions)
	switch c.Mode {
	case ModeTutor, ModeExam:
	default:
		out.Mode = def.Mode
	}
	switch c.StatusFilter {
	case StatusFilterAll, StatusFilterUnanswered, StatusFilterIncorrect:
	default:
		out.StatusFilter = def.StatusFilter
	}
	switch c.FlagFilter {
	case FlagFilterAny, FlagFilterFlagged, FlagFilterExcluded:
	default:
		out.FlagFilter = def.FlagFilter
	}
	if out.Difficulty == "" {
		out.Difficulty = DifficultyAll
	}
	if c.SelectedCategories == nil {
		out.SelectedCategories = []string{}
	} else {
		out.SelectedCategories = append([]string{}, c.SelectedCategories...)
	}
	return out
}

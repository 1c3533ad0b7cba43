package userstate

import "time"

// SessionStatus is the lifecycle state of a session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// HistoryCap is the number of completed sessions retained.
const HistoryCap = 50

// Answer is the recorded response for one question of a session.
type Answer struct {
	ChoiceIndex  int  `json:"choiceIndex"`
	IsCorrect    bool `json:"isCorrect"`
	CorrectIndex int  `json:"correctIndex"`
}

// Answered reports whether a choice was made.
func (a Answer) Answered() bool {
	return a.ChoiceIndex >= 0
}

// Session is a materialized study session.
type Session struct {
	ID           string            `json:"id"`
	CreatedAt    time.Time         `json:"createdAt"`
	CompletedAt  *time.Time        `json:"completedAt,omitempty"`
	QuestionIDs  []string          `json:"questionIds"`
	CurrentIndex int               `json:"currentIndex"`
	Answers      map[string]Answer `json:"userAnswers"`
	Mode         Mode              `json:"mode"`
	Status       SessionStatus     `json:"status"`
	Config       SessionConfig     `json:"config"`
}

// CurrentID returns the question ID at the current position, or "".
func (s *Session) CurrentID() string {
	if s == nil || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.QuestionIDs) {
		return ""
	}
	return s.QuestionIDs[s.CurrentIndex]
}

// Completed reports whether the session has been finished.
func (s *Session) Completed() bool {
	return s != nil && s.Status == SessionCompleted
}

// AnsweredCount counts questions with a recorded choice.
func (s *Session) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.Answered() {
			n++
		}
	}
	return n
}

// HistoryEntry is the immutable summary of a completed session.
type HistoryEntry struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"createdAt"`
	CompletedAt time.Time         `json:"completedAt"`
	Mode        Mode              `json:"mode"`
	QuestionIDs []string          `json:"questionIds"`
	Answers     map[string]Answer `json:"userAnswers"`
	Total       int               `json:"total"`
	Correct     int               `json:"correct"`
	Answered    int               `json:"answered"`
	Config      SessionConfig     `json:"config"`
	Status      SessionStatus     `json:"status"`
}

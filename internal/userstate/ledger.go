package userstate

import "time"

// Status is the derived per-question outcome of the most recent attempt.
type Status string

const (
	StatusUnanswered Status = "unanswered"
	StatusCorrect    Status = "correct"
	StatusIncorrect  Status = "incorrect"
)

// ResultStatus maps a correctness flag to a Status.
func ResultStatus(correct bool) Status {
	if correct {
		return StatusCorrect
	}
	return StatusIncorrect
}

// LedgerCap is the maximum number of attempts retained per question.
const LedgerCap = 250

// Attempt is one entry of a question's attempt ledger.
type Attempt struct {
	Timestamp   time.Time `json:"timestamp"`
	Result      Status    `json:"result"`
	AnswerIndex int       `json:"answerIndex"`
}

// QuestionStat is the per-question status and capped attempt ledger.
type QuestionStat struct {
	Status   Status    `json:"status"`
	Attempts []Attempt `json:"attempts"`
}

// StatusOf returns the derived status of a question.
func (s *State) StatusOf(id string) Status {
	st, ok := s.QuestionStats[id]
	if !ok || st.Status == "" {
		return StatusUnanswered
	}
	return st.Status
}

// RecordAttempt appends an attempt to the ledger of id, creating it on first
// use, sets the status to result and drops the oldest entries beyond
// LedgerCap.
func (s *State) RecordAttempt(id string, result Status, answerIndex int, at time.Time) {
	if s.QuestionStats == nil {
		s.QuestionStats = make(map[string]QuestionStat)
	}
	st := s.QuestionStats[id]
	st.Attempts = append(st.Attempts, Attempt{
		Timestamp:   at,
		Result:      result,
		AnswerIndex: answerIndex,
	})
	if n := len(st.Attempts); n > LedgerCap {
		trimmed := make([]Attempt, LedgerCap)
		copy(trimmed, st.Attempts[n-LedgerCap:])
		st.Attempts = trimmed
	}
	st.Status = result
	s.QuestionStats[id] = st
}

// ResetHistory removes the stats of the given questions and returns how
// many had stored history.
func (s *State) ResetHistory(ids []string) int {
	cleared := 0
	for _, id := range ids {
		if _, ok := s.QuestionStats[id]; ok {
			delete(s.QuestionStats, id)
			cleared++
		}
	}
	return cleared
}

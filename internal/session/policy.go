package session

import (
	"time"

	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/userstate"
)

// Policy is the mode-specific part of the state machine.
type Policy interface {
	// AllowResubmit reports whether a recorded choice may be replaced while
	// the session is active.
	AllowResubmit() bool
	// OnSubmit runs after a choice is stored and returns the amount added to
	// the since-backup counter.
	OnSubmit(st *userstate.State, id string, ans userstate.Answer, at time.Time) int
	// OnFinish records the final outcome of every question and returns the
	// amount added to the since-backup counter.
	OnFinish(st *userstate.State, s *userstate.Session, bank *question.Bank, at time.Time) int
}

// PolicyFor returns the policy of mode. Unknown modes get Tutor.
func PolicyFor(mode userstate.Mode) Policy {
	if mode == userstate.ModeExam {
		return Exam{}
	}
	return Tutor{}
}

// Tutor commits the first answer and records it immediately.
type Tutor struct{}

func (Tutor) AllowResubmit() bool { return false }

func (Tutor) OnSubmit(st *userstate.State, id string, ans userstate.Answer, at time.Time) int {
	st.RecordAttempt(id, userstate.ResultStatus(ans.IsCorrect), ans.ChoiceIndex, at)
	return 1
}

func (Tutor) OnFinish(st *userstate.State, s *userstate.Session, bank *question.Bank, at time.Time) int {
	return recordAll(st, s, bank, at)
}

// Exam lets answers change until the session finishes and records them
// only then.
type Exam struct{}

func (Exam) AllowResubmit() bool { return true }

func (Exam) OnSubmit(*userstate.State, string, userstate.Answer, time.Time) int { return 0 }

func (Exam) OnFinish(st *userstate.State, s *userstate.Session, bank *question.Bank, at time.Time) int {
	return recordAll(st, s, bank, at)
}

// recordAll scores every question of s, writes one ledger entry each and
// returns the number of questions that had a choice.
func recordAll(st *userstate.State, s *userstate.Session, bank *question.Bank, at time.Time) int {
	answered := 0
	for _, id := range s.QuestionIDs {
		ans, ok := s.Answers[id]
		choice := question.NoChoice
		if ok && ans.Answered() {
			choice = ans.ChoiceIndex
			answered++
		}
		if q, found := bank.Get(id); found {
			res := question.Score(q, choice)
			if choice != question.NoChoice {
				s.Answers[id] = userstate.Answer{
					ChoiceIndex:  choice,
					IsCorrect:    res.IsCorrect,
					CorrectIndex: res.CorrectIndex,
				}
			}
			st.RecordAttempt(id, userstate.ResultStatus(res.IsCorrect), choice, at)
			continue
		}
		st.RecordAttempt(id, userstate.ResultStatus(ok && ans.IsCorrect), choice, at)
	}
	return answered
}

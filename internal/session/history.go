package session

import (
	"slices"

	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/userstate"
)

// Review reopens a history entry as a read-only completed session.
func (m *Machine) Review(st *userstate.State, historyID string) (*userstate.Session, error) {
	i := slices.IndexFunc(st.SessionHistory, func(h userstate.HistoryEntry) bool { return h.ID == historyID })
	if i < 0 {
		return nil, ErrHistoryNotFound
	}
	h := st.SessionHistory[i]
	completed := h.CompletedAt
	s := &userstate.Session{
		ID:          h.ID,
		CreatedAt:   h.CreatedAt,
		CompletedAt: &completed,
		QuestionIDs: append([]string(nil), h.QuestionIDs...),
		Answers:     make(map[string]userstate.Answer, len(h.Answers)),
		Mode:        h.Mode,
		Status:      userstate.SessionCompleted,
		Config:      h.Config.Normalize(),
	}
	for id, a := range h.Answers {
		s.Answers[id] = a
	}
	if len(s.QuestionIDs) == 0 {
		return nil, ErrEmptyPool
	}
	st.ActiveSession = s
	return s, nil
}

// DeleteHistory removes a history entry. If the entry is the active session
// the session is cleared too.
func (m *Machine) DeleteHistory(st *userstate.State, historyID string) error {
	i := slices.IndexFunc(st.SessionHistory, func(h userstate.HistoryEntry) bool { return h.ID == historyID })
	if i < 0 {
		return ErrHistoryNotFound
	}
	st.SessionHistory = slices.Delete(st.SessionHistory, i, i+1)
	if st.ActiveSession != nil && st.ActiveSession.ID == historyID {
		st.ActiveSession = nil
	}
	return nil
}

// IncorrectIDs returns known questions whose last attempt was incorrect, in
// bank order.
func IncorrectIDs(bank *question.Bank, st *userstate.State) []string {
	var ids []string
	for _, q := range bank.All() {
		if st.StatusOf(q.ID) == userstate.StatusIncorrect {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// FlaggedIDs returns flagged questions that still exist, in flag order.
func FlaggedIDs(bank *question.Bank, st *userstate.State) []string {
	var ids []string
	for _, id := range st.FlaggedIDs {
		if bank.Has(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// ReviewIncorrectConfig derives the configuration of the review-incorrect
// shortcut from the user's defaults.
func ReviewIncorrectConfig(defaults userstate.SessionConfig, n int) userstate.SessionConfig {
	cfg := defaults.Normalize()
	cfg.StatusFilter = userstate.StatusFilterIncorrect
	cfg.NumQuestions = userstate.ClampQuestionCount(n)
	return cfg
}

// ReviewFlaggedConfig derives the configuration of the review-flagged
// shortcut from the user's defaults.
func ReviewFlaggedConfig(defaults userstate.SessionConfig, n int) userstate.SessionConfig {
	cfg := defaults.Normalize()
	cfg.StatusFilter = userstate.StatusFilterAll
	cfg.FlagFilter = userstate.FlagFilterFlagged
	cfg.NumQuestions = userstate.ClampQuestionCount(n)
	return cfg
}

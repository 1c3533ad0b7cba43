// Package session drives the lifecycle of a study session: launch,
// answering, navigation, finishing and archival.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/gasbank/internal/pool"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/userstate"
)

var (
	// ErrEmptyPool is returned when no question matches a launch.
	ErrEmptyPool = errors.New("no questions match the selected filters")
	// ErrNoSession is returned when an operation needs an active session.
	ErrNoSession = errors.New("no active session")
	// ErrAnswerLocked is returned when a choice cannot be changed. Callers
	// treat it as a no-op.
	ErrAnswerLocked = errors.New("answer is locked")
	// ErrHistoryNotFound is returned for an unknown history entry.
	ErrHistoryNotFound = errors.New("session history entry not found")
)

// Machine applies session transitions to a user state document. It never
// touches persistence; callers hand it a draft.
type Machine struct {
	now   func() time.Time
	rng   *rand.Rand
	newID func() string
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithRand sets the random source used to shuffle pools.
func WithRand(r *rand.Rand) Option {
	return func(m *Machine) { m.rng = r }
}

// WithIDs sets the session ID generator.
func WithIDs(newID func() string) Option {
	return func(m *Machine) { m.newID = newID }
}

// New creates a Machine.
func New(opts ...Option) *Machine {
	m := &Machine{
		now:   time.Now,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID: func() string { return "session-" + uuid.NewString() },
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Launch builds a new active session from cfg, replacing any existing one.
// When preselected is non-nil it is used as the pool instead of running the
// selector; unknown IDs are dropped.
func (m *Machine) Launch(st *userstate.State, bank *question.Bank, cfg userstate.SessionConfig, preselected []string) (*userstate.Session, error) {
	cfg = cfg.Normalize()

	var ids []string
	if preselected != nil {
		for _, id := range preselected {
			if bank.Has(id) {
				ids = append(ids, id)
			}
		}
	} else {
		ids = pool.SelectEligible(pool.FromState(cfg, bank, st))
	}
	if len(ids) == 0 {
		return nil, ErrEmptyPool
	}

	if cfg.Randomize {
		m.shuffle(ids)
	}
	if len(ids) > cfg.NumQuestions {
		ids = ids[:cfg.NumQuestions]
	}

	s := &userstate.Session{
		ID:          m.newID(),
		CreatedAt:   m.now(),
		QuestionIDs: ids,
		Answers:     map[string]userstate.Answer{},
		Mode:        cfg.Mode,
		Status:      userstate.SessionActive,
		Config:      cfg,
	}
	st.ActiveSession = s
	return s, nil
}

// shuffle is an in-place Fisher-Yates shuffle.
func (m *Machine) shuffle(ids []string) {
	for i := len(ids) - 1; i > 0; i-- {
		j := m.rng.IntN(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

// Submit records choice for the current question of the active session.
func (m *Machine) Submit(st *userstate.State, bank *question.Bank, choice int) (userstate.Answer, error) {
	s := st.ActiveSession
	if s == nil {
		return userstate.Answer{}, ErrNoSession
	}
	if s.Completed() {
		return userstate.Answer{}, ErrAnswerLocked
	}
	id := s.CurrentID()
	q, ok := bank.Get(id)
	if !ok {
		return userstate.Answer{}, fmt.Errorf("question %q not found", id)
	}
	if choice < 0 || choice >= len(q.Answers) {
		return userstate.Answer{}, fmt.Errorf("choice %d out of range for question %q", choice, id)
	}

	policy := PolicyFor(s.Mode)
	if prev, had := s.Answers[id]; had && prev.Answered() && !policy.AllowResubmit() {
		return prev, ErrAnswerLocked
	}

	res := question.Score(q, choice)
	ans := userstate.Answer{
		ChoiceIndex:  choice,
		IsCorrect:    res.IsCorrect,
		CorrectIndex: res.CorrectIndex,
	}
	s.Answers[id] = ans
	st.Storage.AttemptsSinceBackup += policy.OnSubmit(st, id, ans, m.now())
	return ans, nil
}

// Navigate moves the active session to index, clamped into range.
func (m *Machine) Navigate(st *userstate.State, index int) error {
	s := st.ActiveSession
	if s == nil {
		return ErrNoSession
	}
	s.CurrentIndex = min(max(index, 0), len(s.QuestionIDs)-1)
	return nil
}

// Finish completes the active session. Finishing a session that is already
// completed archives it instead.
func (m *Machine) Finish(st *userstate.State, bank *question.Bank) (*userstate.HistoryEntry, error) {
	s := st.ActiveSession
	if s == nil {
		return nil, ErrNoSession
	}
	if s.Completed() {
		st.ActiveSession = nil
		return nil, nil
	}

	at := m.now()
	answered := PolicyFor(s.Mode).OnFinish(st, s, bank, at)
	s.Status = userstate.SessionCompleted
	s.CompletedAt = &at

	entry := userstate.HistoryEntry{
		ID:          s.ID,
		CreatedAt:   s.CreatedAt,
		CompletedAt: at,
		Mode:        s.Mode,
		QuestionIDs: append([]string(nil), s.QuestionIDs...),
		Answers:     make(map[string]userstate.Answer, len(s.Answers)),
		Total:       len(s.QuestionIDs),
		Answered:    answered,
		Config:      s.Config,
		Status:      userstate.SessionCompleted,
	}
	entry.Config.SelectedCategories = append([]string{}, s.Config.SelectedCategories...)
	for id, a := range s.Answers {
		entry.Answers[id] = a
		if a.Answered() && a.IsCorrect {
			entry.Correct++
		}
	}

	st.SessionHistory = append([]userstate.HistoryEntry{entry}, st.SessionHistory...)
	if len(st.SessionHistory) > userstate.HistoryCap {
		st.SessionHistory = st.SessionHistory[:userstate.HistoryCap]
	}
	st.Storage.AttemptsSinceBackup += answered
	return &entry, nil
}

// Archive clears the active session pointer.
func (m *Machine) Archive(st *userstate.State) {
	st.ActiveSession = nil
}

// RemoveQuestions drops ids from the active session. An emptied session is
// cleared. Returns true if the session changed.
func (m *Machine) RemoveQuestions(st *userstate.State, ids []string) bool {
	s := st.ActiveSession
	if s == nil {
		return false
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]string, 0, len(s.QuestionIDs))
	for _, id := range s.QuestionIDs {
		if drop[id] {
			delete(s.Answers, id)
			continue
		}
		kept = append(kept, id)
	}
	if len(kept) == len(s.QuestionIDs) {
		return false
	}
	if len(kept) == 0 {
		st.ActiveSession = nil
		return true
	}
	s.QuestionIDs = kept
	s.CurrentIndex = min(max(s.CurrentIndex, 0), len(kept)-1)
	return true
}

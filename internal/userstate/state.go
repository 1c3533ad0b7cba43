// Package userstate holds the persisted user document: settings, custom
// questions, per-question attempt ledgers, flags, the active session and
// session history.
package userstate

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/abhisek/gasbank/internal/question"
)

// State is the single user document. All mutation goes through a clone
// owned by the persistence coordinator.
type State struct {
	// Revision increases with every committed mutation. Stored snapshots
	// are ordered by it.
	Revision        int64                   `json:"revision"`
	Settings        Settings                `json:"userSettings"`
	Storage         BackupState             `json:"storage"`
	CustomQuestions []question.Question     `json:"customQuestions"`
	QuestionStats   map[string]QuestionStat `json:"questionStats"`
	FlaggedIDs      []string                `json:"flaggedQuestionIds"`
	ActiveSession   *Session                `json:"activeSession"`
	SessionHistory  []HistoryEntry          `json:"sessionHistory"`
}

// Default returns an empty document with factory settings.
func Default() *State {
	return &State{
		Settings: Settings{
			Theme:                ThemeSystem,
			DefaultSessionConfig: DefaultSessionConfig(),
			BackupPreferences:    DefaultBackupPreferences(),
		},
		CustomQuestions: []question.Question{},
		QuestionStats:   map[string]QuestionStat{},
		FlaggedIDs:      []string{},
		SessionHistory:  []HistoryEntry{},
	}
}

// Decode parses a stored document and fills in anything missing.
func Decode(data []byte) (*State, error) {
	st := Default()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("decoding user state: %w", err)
	}
	st.Normalize()
	return st, nil
}

// Encode serializes the document.
func (s *State) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Normalize repairs a loaded document in place: nil collections become
// empty, enums fall back to defaults, flags are deduplicated, history is
// capped and an active session with no questions is dropped.
func (s *State) Normalize() {
	s.Settings.Theme = ParseTheme(string(s.Settings.Theme))
	s.Settings.DefaultSessionConfig = s.Settings.DefaultSessionConfig.Normalize()
	if s.Settings.BackupPreferences.Interval < 1 {
		s.Settings.BackupPreferences.Interval = DefaultBackupInterval
	}
	if s.Storage.AttemptsSinceBackup < 0 {
		s.Storage.AttemptsSinceBackup = 0
	}
	if s.CustomQuestions == nil {
		s.CustomQuestions = []question.Question{}
	}
	if s.QuestionStats == nil {
		s.QuestionStats = map[string]QuestionStat{}
	}
	for id, st := range s.QuestionStats {
		if st.Status == "" {
			st.Status = StatusUnanswered
		}
		if n := len(st.Attempts); n > LedgerCap {
			st.Attempts = append([]Attempt(nil), st.Attempts[n-LedgerCap:]...)
		}
		s.QuestionStats[id] = st
	}
	if s.FlaggedIDs == nil {
		s.FlaggedIDs = []string{}
	}
	s.DedupeFlags()
	if s.SessionHistory == nil {
		s.SessionHistory = []HistoryEntry{}
	}
	if len(s.SessionHistory) > HistoryCap {
		s.SessionHistory = s.SessionHistory[:HistoryCap]
	}
	if a := s.ActiveSession; a != nil {
		if len(a.QuestionIDs) == 0 {
			s.ActiveSession = nil
		} else {
			if a.Answers == nil {
				a.Answers = map[string]Answer{}
			}
			a.CurrentIndex = min(max(a.CurrentIndex, 0), len(a.QuestionIDs)-1)
			if a.Status == "" {
				a.Status = SessionActive
			}
			a.Config = a.Config.Normalize()
		}
	}
}

// Clone returns a deep copy of the document.
func (s *State) Clone() *State {
	out := *s
	out.Settings.DefaultSessionConfig.SelectedCategories = append([]string{}, s.Settings.DefaultSessionConfig.SelectedCategories...)
	out.Storage.LastBackupAt = cloneTime(s.Storage.LastBackupAt)
	out.CustomQuestions = question.CloneAll(s.CustomQuestions)
	out.QuestionStats = make(map[string]QuestionStat, len(s.QuestionStats))
	for id, st := range s.QuestionStats {
		st.Attempts = append([]Attempt(nil), st.Attempts...)
		out.QuestionStats[id] = st
	}
	out.FlaggedIDs = append([]string{}, s.FlaggedIDs...)
	out.ActiveSession = s.ActiveSession.Clone()
	out.SessionHistory = make([]HistoryEntry, len(s.SessionHistory))
	for i, h := range s.SessionHistory {
		h.QuestionIDs = append([]string(nil), h.QuestionIDs...)
		h.Answers = maps.Clone(h.Answers)
		h.Config.SelectedCategories = append([]string{}, h.Config.SelectedCategories...)
		out.SessionHistory[i] = h
	}
	return &out
}

// Clone returns a deep copy of the session, or nil.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.CompletedAt = cloneTime(s.CompletedAt)
	out.QuestionIDs = append([]string(nil), s.QuestionIDs...)
	out.Answers = maps.Clone(s.Answers)
	if out.Answers == nil {
		out.Answers = map[string]Answer{}
	}
	out.Config.SelectedCategories = append([]string{}, s.Config.SelectedCategories...)
	return &out
}

// CustomIndex returns the position of a custom question, or -1.
func (s *State) CustomIndex(id string) int {
	for i, q := range s.CustomQuestions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

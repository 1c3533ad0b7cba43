// Package pool selects the questions eligible for a session.
package pool

import (
	"slices"
	"strings"

	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/userstate"
)

// StatusLookup returns the derived status of a question.
type StatusLookup func(id string) userstate.Status

// Criteria is the input to SelectEligible.
type Criteria struct {
	Config    userstate.SessionConfig
	Questions []question.Question
	Status    StatusLookup
	Flagged   map[string]bool
	Custom    map[string]bool
}

// SelectEligible returns, in question order, the IDs passing every filter
// of cfg. It has no side effects.
func SelectEligible(c Criteria) []string {
	status := c.Status
	if status == nil {
		status = func(string) userstate.Status { return userstate.StatusUnanswered }
	}
	ids := make([]string, 0, len(c.Questions))
	for _, q := range c.Questions {
		if keep(c.Config, q, status, c.Flagged, c.Custom) {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

func keep(cfg userstate.SessionConfig, q question.Question, status StatusLookup, flagged, custom map[string]bool) bool {
	isCustom := custom[q.ID]
	switch {
	case cfg.OnlyCustom:
		if !isCustom {
			return false
		}
	case !cfg.IncludeCustom:
		if isCustom {
			return false
		}
	}

	if d := cfg.Difficulty; d != "" && !strings.EqualFold(d, userstate.DifficultyAll) {
		if !strings.EqualFold(strings.TrimSpace(q.Difficulty), d) {
			return false
		}
	}

	if len(cfg.SelectedCategories) > 0 && !slices.Contains(cfg.SelectedCategories, q.Category) {
		return false
	}

	switch cfg.StatusFilter {
	case userstate.StatusFilterUnanswered:
		if status(q.ID) != userstate.StatusUnanswered {
			return false
		}
	case userstate.StatusFilterIncorrect:
		if status(q.ID) != userstate.StatusIncorrect {
			return false
		}
	}

	switch cfg.FlagFilter {
	case userstate.FlagFilterFlagged:
		return flagged[q.ID]
	case userstate.FlagFilterExcluded:
		return !flagged[q.ID]
	}
	return true
}

// FromState builds Criteria for cfg against the given bank and user state.
func FromState(cfg userstate.SessionConfig, bank *question.Bank, st *userstate.State) Criteria {
	return Criteria{
		Config:    cfg,
		Questions: bank.All(),
		Status:    st.StatusOf,
		Flagged:   st.FlagSet(),
		Custom:    bank.CustomIDs(),
	}
}

package coordinator

import (
	"github.com/abhisek/gasbank/internal/pool"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/stats"
	"github.com/abhisek/gasbank/internal/userstate"
)

// MatchingCount returns the size of the pool cfg would select from.
func (c *Coordinator) MatchingCount(cfg userstate.SessionConfig) int {
	return len(pool.SelectEligible(pool.FromState(cfg.Normalize(), c.Bank(), c.State())))
}

// Facets returns the categories and difficulties of the question union.
func (c *Coordinator) Facets() question.Facets {
	return question.CollectFacets(c.Bank().All())
}

// Summary returns overall status counts.
func (c *Coordinator) Summary() stats.Summary {
	return stats.Summarize(c.Bank().All(), c.State())
}

// Breakdown returns per-category results in first-seen order.
func (c *Coordinator) Breakdown() []stats.CategoryStat {
	return stats.Breakdown(c.Bank().All(), c.State())
}

// Question looks up a question by ID.
func (c *Coordinator) Question(id string) (question.Question, bool) {
	return c.Bank().Get(id)
}

// CurrentQuestion returns the question at the active session's position.
func (c *Coordinator) CurrentQuestion() (question.Question, *userstate.Session, bool) {
	s := c.State().ActiveSession
	if s == nil {
		return question.Question{}, nil, false
	}
	q, ok := c.Bank().Get(s.CurrentID())
	return q, s, ok
}

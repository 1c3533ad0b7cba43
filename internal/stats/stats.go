// Package stats aggregates attempt ledgers into dashboard figures.
package stats

import (
	"math"

	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/userstate"
)

// Summary counts questions by derived status.
type Summary struct {
	Total      int `json:"total"`
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Unanswered int `json:"unanswered"`
}

// CategoryStat is one row of the category breakdown.
type CategoryStat struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Ratio    int    `json:"ratio"`
}

// Summarize counts the questions by their derived status.
func Summarize(questions []question.Question, st *userstate.State) Summary {
	s := Summary{Total: len(questions)}
	for _, q := range questions {
		switch st.StatusOf(q.ID) {
		case userstate.StatusCorrect:
			s.Correct++
		case userstate.StatusIncorrect:
			s.Incorrect++
		}
	}
	s.Unanswered = max(s.Total-s.Correct-s.Incorrect, 0)
	return s
}

// Breakdown groups questions by category in first-seen order. Ratio is the
// rounded percentage of correct questions.
func Breakdown(questions []question.Question, st *userstate.State) []CategoryStat {
	index := make(map[string]int)
	var rows []CategoryStat
	for _, q := range questions {
		i, ok := index[q.Category]
		if !ok {
			i = len(rows)
			index[q.Category] = i
			rows = append(rows, CategoryStat{Category: q.Category})
		}
		rows[i].Total++
		if st.StatusOf(q.ID) == userstate.StatusCorrect {
			rows[i].Correct++
		}
	}
	for i := range rows {
		rows[i].Ratio = Ratio(rows[i].Correct, rows[i].Total)
	}
	return rows
}

// Ratio returns round(100*part/whole), or 0 when whole is 0.
func Ratio(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

package question

// NoChoice marks an answer slot with no selected choice.
const NoChoice = -1

// Result is the outcome of scoring a choice against a question.
type Result struct {
	IsCorrect    bool
	CorrectIndex int
}

// CorrectIndex returns the position of the correct answer, or NoChoice if
// the question has none.
func (q Question) CorrectIndex() int {
	for i, a := range q.Answers {
		if a.IsCorrect {
			return i
		}
	}
	return NoChoice
}

// Score grades choiceIndex against q. NoChoice (or any negative index)
// never matches.
func Score(q Question, choiceIndex int) Result {
	correct := q.CorrectIndex()
	return Result{
		IsCorrect:    choiceIndex >= 0 && correct >= 0 && choiceIndex == correct,
		CorrectIndex: correct,
	}
}

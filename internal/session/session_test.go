package session

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/userstate"
)

var t0 = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func mcq(id, category, difficulty string, correct int) question.Question {
	q := question.Question{ID: id, Category: category, Difficulty: difficulty, Text: "prompt " + id}
	for i := 0; i < 4; i++ {
		q.Answers = append(q.Answers, question.AnswerChoice{Text: fmt.Sprintf("choice %d", i), IsCorrect: i == correct})
	}
	return q
}

func airwayVascular() *question.Bank {
	return question.NewBank([]question.Question{
		mcq("A1", "Airway", "medium", 0),
		mcq("A2", "Airway", "medium", 1),
		mcq("A3", "Airway", "medium", 2),
		mcq("V1", "Vascular", "hard", 3),
		mcq("V2", "Vascular", "hard", 0),
	}, nil)
}

func newMachine() *Machine {
	n := 0
	return New(
		WithClock(func() time.Time { return t0 }),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithIDs(func() string { n++; return fmt.Sprintf("session-%d", n) }),
	)
}

func config(mode userstate.Mode, n int, randomize bool) userstate.SessionConfig {
	cfg := userstate.DefaultSessionConfig()
	cfg.Mode = mode
	cfg.NumQuestions = n
	cfg.Randomize = randomize
	cfg.StatusFilter = userstate.StatusFilterAll
	return cfg
}

func TestLaunch_AllInCatalogOrder(t *testing.T) {
	m := newMachine()
	st := userstate.Default()

	s, err := m.Launch(st, airwayVascular(), config(userstate.ModeTutor, 10, false), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A1", "A2", "A3", "V1", "V2"}, s.QuestionIDs)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Empty(t, s.Answers)
	assert.Equal(t, userstate.SessionActive, s.Status)
	assert.Same(t, s, st.ActiveSession)
}

func TestLaunch_TruncatesToRequestedCount(t *testing.T) {
	m := newMachine()
	st := userstate.Default()

	s, err := m.Launch(st, airwayVascular(), config(userstate.ModeExam, 3, true), nil)
	require.NoError(t, err)
	assert.Len(t, s.QuestionIDs, 3)
	assert.Equal(t, userstate.ModeExam, s.Mode)
}

func TestLaunch_ShuffleIsPermutation(t *testing.T) {
	m := newMachine()
	st := userstate.Default()

	s, err := m.Launch(st, airwayVascular(), config(userstate.ModeTutor, 100, true), nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1", "A2", "A3", "V1", "V2"}, s.QuestionIDs)
}

func TestLaunch_EmptyPoolLeavesStateAlone(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	prev, err := m.Launch(st, airwayVascular(), config(userstate.ModeTutor, 2, false), nil)
	require.NoError(t, err)

	cfg := config(userstate.ModeTutor, 10, false)
	cfg.SelectedCategories = []string{"Cardiac"}
	_, err = m.Launch(st, airwayVascular(), cfg, nil)

	assert.ErrorIs(t, err, ErrEmptyPool)
	assert.Same(t, prev, st.ActiveSession)
}

func TestLaunch_PreselectedBypassesFilters(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	cfg := config(userstate.ModeTutor, 10, false)
	cfg.StatusFilter = userstate.StatusFilterIncorrect

	s, err := m.Launch(st, airwayVascular(), cfg, []string{"V2", "gone", "A1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"V2", "A1"}, s.QuestionIDs)

	_, err = m.Launch(st, airwayVascular(), cfg, []string{})
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestSubmit_TutorCommitsFirstAnswer(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	bank := airwayVascular()
	_, err := m.Launch(st, bank, config(userstate.ModeTutor, 10, false), nil)
	require.NoError(t, err)

	ans, err := m.Submit(st, bank, 0)
	require.NoError(t, err)
	assert.True(t, ans.IsCorrect)
	assert.Equal(t, userstate.StatusCorrect, st.StatusOf("A1"))
	assert.Len(t, st.QuestionStats["A1"].Attempts, 1)
	assert.Equal(t, 1, st.Storage.AttemptsSinceBackup)

	_, err = m.Submit(st, bank, 2)
	assert.ErrorIs(t, err, ErrAnswerLocked)
	assert.Equal(t, userstate.StatusCorrect, st.StatusOf("A1"))
	assert.Len(t, st.QuestionStats["A1"].Attempts, 1)
	assert.Equal(t, 1, st.Storage.AttemptsSinceBackup)
	assert.Equal(t, 0, st.ActiveSession.Answers["A1"].ChoiceIndex)
}

func TestSubmit_ExamOverwritesWithoutLedger(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	bank := airwayVascular()
	_, err := m.Launch(st, bank, config(userstate.ModeExam, 10, false), nil)
	require.NoError(t, err)

	_, err = m.Submit(st, bank, 3)
	require.NoError(t, err)
	ans, err := m.Submit(st, bank, 0)
	require.NoError(t, err)

	assert.True(t, ans.IsCorrect)
	assert.Equal(t, 0, st.ActiveSession.Answers["A1"].ChoiceIndex)
	assert.Empty(t, st.QuestionStats)
	assert.Equal(t, 0, st.Storage.AttemptsSinceBackup)
}

func TestSubmit_Errors(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	bank := airwayVascular()

	_, err := m.Submit(st, bank, 0)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = m.Launch(st, bank, config(userstate.ModeExam, 10, false), nil)
	require.NoError(t, err)
	_, err = m.Submit(st, bank, 9)
	assert.Error(t, err)

	_, err = m.Finish(st, bank)
	require.NoError(t, err)
	_, err = m.Submit(st, bank, 1)
	assert.ErrorIs(t, err, ErrAnswerLocked)
}

func TestNavigate_Clamps(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	assert.ErrorIs(t, m.Navigate(st, 1), ErrNoSession)

	_, err := m.Launch(st, airwayVascular(), config(userstate.ModeTutor, 10, false), nil)
	require.NoError(t, err)

	require.NoError(t, m.Navigate(st, 3))
	assert.Equal(t, 3, st.ActiveSession.CurrentIndex)
	require.NoError(t, m.Navigate(st, 42))
	assert.Equal(t, 4, st.ActiveSession.CurrentIndex)
	require.NoError(t, m.Navigate(st, -1))
	assert.Equal(t, 0, st.ActiveSession.CurrentIndex)
}

func TestFinish_ExamRecordsEveryQuestion(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	bank := airwayVascular()
	_, err := m.Launch(st, bank, config(userstate.ModeExam, 4, false), nil)
	require.NoError(t, err)

	// A1 correct, A2 correct, A3 wrong, V1 blank
	for i, choice := range []int{0, 1, 0} {
		require.NoError(t, m.Navigate(st, i))
		_, err := m.Submit(st, bank, choice)
		require.NoError(t, err)
	}

	entry, err := m.Finish(st, bank)
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, 4, entry.Total)
	assert.Equal(t, 2, entry.Correct)
	assert.Equal(t, 3, entry.Answered)

	total := 0
	for _, stat := range st.QuestionStats {
		total += len(stat.Attempts)
	}
	assert.Equal(t, 4, total)
	blank := st.QuestionStats["V1"].Attempts[0]
	assert.Equal(t, userstate.StatusIncorrect, blank.Result)
	assert.Equal(t, question.NoChoice, blank.AnswerIndex)
	assert.Equal(t, userstate.StatusCorrect, st.StatusOf("A2"))
	assert.Equal(t, userstate.StatusIncorrect, st.StatusOf("A3"))

	assert.Equal(t, userstate.SessionCompleted, st.ActiveSession.Status)
	require.NotNil(t, st.ActiveSession.CompletedAt)
	require.Len(t, st.SessionHistory, 1)
	assert.Equal(t, 3, st.Storage.AttemptsSinceBackup)
}

func TestFinish_TutorAlsoRecordsAtFinish(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	bank := airwayVascular()
	_, err := m.Launch(st, bank, config(userstate.ModeTutor, 2, false), nil)
	require.NoError(t, err)
	_, err = m.Submit(st, bank, 0)
	require.NoError(t, err)

	_, err = m.Finish(st, bank)
	require.NoError(t, err)

	assert.Len(t, st.QuestionStats["A1"].Attempts, 2)
	assert.Len(t, st.QuestionStats["A2"].Attempts, 1)
	assert.Equal(t, 2, st.Storage.AttemptsSinceBackup)
}

func TestFinish_CompletedArchives(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	bank := airwayVascular()
	_, err := m.Launch(st, bank, config(userstate.ModeExam, 2, false), nil)
	require.NoError(t, err)
	_, err = m.Finish(st, bank)
	require.NoError(t, err)
	attempts := len(st.QuestionStats["A1"].Attempts)

	entry, err := m.Finish(st, bank)
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Nil(t, st.ActiveSession)
	assert.Len(t, st.SessionHistory, 1)
	assert.Len(t, st.QuestionStats["A1"].Attempts, attempts)

	_, err = m.Finish(st, bank)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFinish_HistoryCapped(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	bank := airwayVascular()
	for i := 0; i < userstate.HistoryCap+3; i++ {
		_, err := m.Launch(st, bank, config(userstate.ModeExam, 1, false), nil)
		require.NoError(t, err)
		_, err = m.Finish(st, bank)
		require.NoError(t, err)
	}
	require.Len(t, st.SessionHistory, userstate.HistoryCap)
	assert.Equal(t, fmt.Sprintf("session-%d", userstate.HistoryCap+3), st.SessionHistory[0].ID)
}

func TestRemoveQuestions(t *testing.T) {
	m := newMachine()
	st := userstate.Default()
	bank := airwayVascular()
	_, err := m.Launch(st, bank, config(userstate.ModeExam, 3, false), nil)
	require.NoError(t, err)
	require.NoError(t, m.Navigate(st, 2))
	_, err = m.Submit(st, bank, 2)
	require.NoError(t, err)

	assert.False(t, m.RemoveQuestions(st, []string{"V2"}))
	assert.True(t, m.RemoveQuestions(st, []string{"A3"}))
	assert.Equal(t, []string{"A1", "A2"}, st.ActiveSession.QuestionIDs)
	assert.Equal(t, 1, st.ActiveSession.CurrentIndex)
	assert.NotContains(t, st.ActiveSession.Answers, "A3")

	assert.True(t, m.RemoveQuestions(st, []string{"A1", "A2"}))
	assert.Nil(t, st.ActiveSession)
}

func TestPolicyFor(t *testing.T) {
	assert.IsType(t, Tutor{}, PolicyFor(userstate.ModeTutor))
	assert.IsType(t, Exam{}, PolicyFor(userstate.ModeExam))
	assert.False(t, PolicyFor(userstate.ModeTutor).AllowResubmit())
	assert.True(t, PolicyFor(userstate.ModeExam).AllowResubmit())
}

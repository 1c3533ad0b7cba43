package coordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/session"
	"github.com/abhisek/gasbank/internal/userstate"
)

func TestUpdate_PublishesAndSaves(t *testing.T) {
	svc := &fakeService{}
	c, _ := newTestCoordinator(t, svc)
	before := c.State()

	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		d.FlaggedIDs = append(d.FlaggedIDs, "A1", "A1", "V1")
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	c.Wait()

	after := c.State()
	if after == before {
		t.Fatal("expected state to be replaced")
	}
	if len(before.FlaggedIDs) != 0 {
		t.Errorf("previous snapshot was mutated: %v", before.FlaggedIDs)
	}
	if got := after.FlaggedIDs; len(got) != 2 || got[0] != "A1" || got[1] != "V1" {
		t.Errorf("flags = %v, want deduplicated [A1 V1]", got)
	}
	if after.Revision != before.Revision+1 {
		t.Errorf("revision = %d, want %d", after.Revision, before.Revision+1)
	}
	if svc.saveCount() != 1 {
		t.Errorf("saves = %d, want 1", svc.saveCount())
	}
}

func TestUpdate_ErrorLeavesStateUntouched(t *testing.T) {
	svc := &fakeService{}
	c, _ := newTestCoordinator(t, svc)
	before := c.State()
	boom := errors.New("boom")

	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		d.FlaggedIDs = append(d.FlaggedIDs, "A1")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	c.Wait()
	if c.State() != before {
		t.Error("state replaced after failed mutation")
	}
	if svc.saveCount() != 0 {
		t.Errorf("saves = %d, want 0", svc.saveCount())
	}
}

func TestUpdate_SaveFailureKeepsOptimisticState(t *testing.T) {
	svc := &fakeService{saveErr: errors.New("disk full")}
	c, notices := newTestCoordinator(t, svc)

	if _, err := c.ToggleFlag("A2"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	c.Wait()

	if !c.State().IsFlagged("A2") {
		t.Error("optimistic update was rolled back")
	}
	if !notices.contains("Failed to save changes locally.") {
		t.Errorf("missing save failure notice: %+v", notices.all)
	}
}

func TestScenarioA_LaunchAllInOrder(t *testing.T) {
	c, notices := newTestCoordinator(t, &fakeService{})

	s, err := c.StartSession(orderedConfig(userstate.ModeTutor, 10))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	want := []string{"A1", "A2", "A3", "V1", "V2"}
	if len(s.QuestionIDs) != len(want) {
		t.Fatalf("questions = %v, want %v", s.QuestionIDs, want)
	}
	for i := range want {
		if s.QuestionIDs[i] != want[i] {
			t.Errorf("questions[%d] = %s, want %s", i, s.QuestionIDs[i], want[i])
		}
	}
	if got := notices.last().Message; got != "Session launched with 5 questions." {
		t.Errorf("notice = %q", got)
	}
}

func TestStartSession_EmptyPool(t *testing.T) {
	svc := &fakeService{}
	c, notices := newTestCoordinator(t, svc)
	cfg := orderedConfig(userstate.ModeTutor, 10)
	cfg.SelectedCategories = []string{"Cardiac"}
	before := c.State()

	_, err := c.StartSession(cfg)
	if !errors.Is(err, session.ErrEmptyPool) {
		t.Fatalf("err = %v, want ErrEmptyPool", err)
	}
	c.Wait()
	if c.State() != before {
		t.Error("state changed on empty pool")
	}
	if svc.saveCount() != 0 {
		t.Error("empty pool should not persist")
	}
	if n := notices.last(); n.Kind != NoticeError || n.Message != "No questions match this configuration." {
		t.Errorf("notice = %+v", n)
	}
}

func TestScenarioB_TutorFirstAnswerCommits(t *testing.T) {
	c, notices := newTestCoordinator(t, &fakeService{})
	if _, err := c.StartSession(orderedConfig(userstate.ModeTutor, 10)); err != nil {
		t.Fatalf("start: %v", err)
	}

	ans, err := c.Answer(0)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !ans.IsCorrect {
		t.Error("expected correct answer")
	}
	st := c.State()
	if st.StatusOf("A1") != userstate.StatusCorrect {
		t.Errorf("status = %s, want correct", st.StatusOf("A1"))
	}
	if n := len(st.QuestionStats["A1"].Attempts); n != 1 {
		t.Errorf("ledger = %d, want 1", n)
	}
	if st.Storage.AttemptsSinceBackup != 1 {
		t.Errorf("counter = %d, want 1", st.Storage.AttemptsSinceBackup)
	}
	if notices.last().Message != "Correct!" {
		t.Errorf("notice = %q", notices.last().Message)
	}

	rev := st.Revision
	if _, err := c.Answer(2); err != nil {
		t.Fatalf("re-answer: %v", err)
	}
	st = c.State()
	if st.Revision != rev {
		t.Error("locked answer should not commit")
	}
	if st.StatusOf("A1") != userstate.StatusCorrect || len(st.QuestionStats["A1"].Attempts) != 1 || st.Storage.AttemptsSinceBackup != 1 {
		t.Error("re-selection changed ledger, status or counter")
	}
}

func TestScenarioC_ExamFinish(t *testing.T) {
	c, _ := newTestCoordinator(t, &fakeService{})
	if _, err := c.StartSession(orderedConfig(userstate.ModeExam, 4)); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i, choice := range []int{0, 1, 0} {
		if err := c.Navigate(i); err != nil {
			t.Fatalf("navigate: %v", err)
		}
		if _, err := c.Answer(choice); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	if len(c.State().QuestionStats) != 0 {
		t.Fatal("exam answers must not touch the ledger before finish")
	}

	entry, err := c.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if entry.Total != 4 || entry.Correct != 2 || entry.Answered != 3 {
		t.Errorf("entry = total %d correct %d answered %d, want 4/2/3", entry.Total, entry.Correct, entry.Answered)
	}
	st := c.State()
	total := 0
	for _, s := range st.QuestionStats {
		total += len(s.Attempts)
	}
	if total != 4 {
		t.Errorf("ledger entries = %d, want 4", total)
	}
	if st.StatusOf("V1") != userstate.StatusIncorrect {
		t.Errorf("blank question status = %s, want incorrect", st.StatusOf("V1"))
	}

	// Finishing again archives.
	if entry, err := c.Finish(); err != nil || entry != nil {
		t.Fatalf("archive: entry=%v err=%v", entry, err)
	}
	if c.State().ActiveSession != nil {
		t.Error("expected session to be archived")
	}
	if len(c.State().SessionHistory) != 1 {
		t.Error("archive must not touch history")
	}
}

func TestResumeAndReviewShortcuts(t *testing.T) {
	c, notices := newTestCoordinator(t, &fakeService{})

	if _, err := c.ResumeSession(); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("resume err = %v", err)
	}
	if _, err := c.ReviewIncorrect(); !errors.Is(err, session.ErrEmptyPool) {
		t.Errorf("review incorrect err = %v", err)
	}
	if notices.last().Message != "Fantastic! No incorrect questions remain." {
		t.Errorf("notice = %q", notices.last().Message)
	}
	if _, err := c.ReviewFlagged(); !errors.Is(err, session.ErrEmptyPool) {
		t.Errorf("review flagged err = %v", err)
	}

	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		d.RecordAttempt("V2", userstate.StatusIncorrect, 1, testNow)
		d.RecordAttempt("A1", userstate.StatusIncorrect, 1, testNow)
		d.FlaggedIDs = []string{"A3", "gone"}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	s, err := c.ReviewIncorrect()
	if err != nil {
		t.Fatalf("review incorrect: %v", err)
	}
	if len(s.QuestionIDs) != 2 || s.Config.StatusFilter != userstate.StatusFilterIncorrect {
		t.Errorf("session = %v %s", s.QuestionIDs, s.Config.StatusFilter)
	}

	s, err = c.ReviewFlagged()
	if err != nil {
		t.Fatalf("review flagged: %v", err)
	}
	if len(s.QuestionIDs) != 1 || s.QuestionIDs[0] != "A3" {
		t.Errorf("flagged session = %v, want [A3]", s.QuestionIDs)
	}

	resumed, err := c.ResumeSession()
	if err != nil || resumed.ID != s.ID {
		t.Errorf("resume = %v, %v", resumed, err)
	}
}

func TestLoad_Error(t *testing.T) {
	c := New(&failingLoader{})
	err := c.Load(context.Background())
	var perr *PersistenceError
	if !errors.As(err, &perr) || perr.Op != "load" {
		t.Fatalf("err = %v, want load PersistenceError", err)
	}
}

type failingLoader struct{ fakeService }

func (*failingLoader) Load(context.Context) ([]question.Question, *userstate.State, error) {
	return nil, nil, errors.New("corrupt")
}

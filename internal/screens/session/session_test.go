package session

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screen"
	"github.com/abhisek/gasbank/internal/screens/screentest"
	"github.com/abhisek/gasbank/internal/userstate"
)

func startSession(t *testing.T, mode userstate.Mode, n int) (*coordinator.Coordinator, *SessionScreen) {
	t.Helper()
	c := screentest.Coordinator(t)
	if _, err := c.StartSession(screentest.Ordered(mode, n)); err != nil {
		t.Fatalf("start: %v", err)
	}
	return c, New(c)
}

func update(t *testing.T, s screen.Screen, msg tea.Msg) (screen.Screen, []tea.Msg) {
	t.Helper()
	next, cmd := s.Update(msg)
	return next, screentest.Run(cmd)
}

func TestSessionScreen_Title(t *testing.T) {
	_, s := startSession(t, userstate.ModeExam, 3)
	if s.Title() != "Exam" {
		t.Errorf("Title = %q, want %q", s.Title(), "Exam")
	}
}

func TestSessionScreen_TutorAnswerReveals(t *testing.T) {
	c, s := startSession(t, userstate.ModeTutor, 3)

	// AIR-001's correct answer is the first choice.
	update(t, s, screentest.Key('1'))

	if !s.choices.Revealed() || !s.choices.Locked {
		t.Fatal("tutor answer should reveal and lock")
	}
	if got := c.State().StatusOf("AIR-001"); got != userstate.StatusCorrect {
		t.Errorf("status = %q, want correct", got)
	}

	// A second press is ignored.
	update(t, s, screentest.Key('2'))
	if got := c.State().ActiveSession.Answers["AIR-001"].ChoiceIndex; got != 0 {
		t.Errorf("choice = %d, want 0", got)
	}
	if !strings.Contains(s.View(100, 30), "Correct") {
		t.Error("expected feedback in view")
	}
}

func TestSessionScreen_ExamAllowsChange(t *testing.T) {
	c, s := startSession(t, userstate.ModeExam, 3)

	update(t, s, screentest.Key('2'))
	update(t, s, screentest.Key('3'))

	if s.choices.Revealed() {
		t.Error("exam answers must stay hidden")
	}
	if got := c.State().ActiveSession.Answers["AIR-001"].ChoiceIndex; got != 2 {
		t.Errorf("choice = %d, want 2", got)
	}
	if c.State().StatusOf("AIR-001") != userstate.StatusUnanswered {
		t.Error("exam answers are recorded only at finish")
	}
}

func TestSessionScreen_Navigation(t *testing.T) {
	c, s := startSession(t, userstate.ModeExam, 3)

	update(t, s, screentest.Special(tea.KeyRight))
	update(t, s, screentest.Special(tea.KeyRight))
	update(t, s, screentest.Special(tea.KeyRight))
	if got := c.State().ActiveSession.CurrentIndex; got != 2 {
		t.Errorf("index = %d, want 2 (clamped)", got)
	}

	update(t, s, screentest.Special(tea.KeyLeft))
	if s.boundID != "AIR-002" {
		t.Errorf("bound question = %q, want AIR-002", s.boundID)
	}
}

func TestSessionScreen_Flag(t *testing.T) {
	c, s := startSession(t, userstate.ModeTutor, 2)
	update(t, s, screentest.Key('f'))
	if !c.State().IsFlagged("AIR-001") {
		t.Error("expected AIR-001 flagged")
	}
	if !strings.Contains(s.View(100, 30), "flagged") {
		t.Error("expected flag marker in view")
	}
}

func TestSessionScreen_FinishFlow(t *testing.T) {
	c, s := startSession(t, userstate.ModeExam, 2)
	update(t, s, screentest.Key('1'))

	update(t, s, screentest.Key('x'))
	if !s.confirming {
		t.Fatal("expected finish confirmation")
	}
	if !strings.Contains(s.View(100, 30), "1 unanswered") {
		t.Error("confirmation should mention unanswered questions")
	}

	_, msgs := update(t, s, screentest.Key('y'))
	if len(msgs) != 1 {
		t.Fatalf("msgs = %v", msgs)
	}
	replace, ok := msgs[0].(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("msg = %T, want ReplaceScreenMsg", msgs[0])
	}
	sum, ok := replace.Screen.(*SummaryScreen)
	if !ok {
		t.Fatalf("screen = %T, want *SummaryScreen", replace.Screen)
	}
	if sum.entry.Total != 2 || sum.entry.Correct != 1 {
		t.Errorf("entry = %+v", sum.entry)
	}
	if !c.State().ActiveSession.Completed() {
		t.Error("session should be completed")
	}

	// Enter on the summary opens the read-only review.
	_, msgs = update(t, sum, screentest.Special(tea.KeyEnter))
	review := msgs[0].(router.ReplaceScreenMsg).Screen.(*SessionScreen)
	if review.Title() != "Review" || !review.choices.Locked {
		t.Error("expected locked review screen")
	}

	// Archiving from review leaves no active session.
	_, msgs = update(t, review, screentest.Key('x'))
	if _, ok := msgs[0].(router.PopToRootMsg); !ok {
		t.Errorf("msg = %T, want PopToRootMsg", msgs[0])
	}
	if c.State().ActiveSession != nil {
		t.Error("session not archived")
	}
}

func TestSessionScreen_ConfirmCancel(t *testing.T) {
	c, s := startSession(t, userstate.ModeExam, 2)
	update(t, s, screentest.Key('x'))
	update(t, s, screentest.Key('n'))
	if s.confirming || c.State().ActiveSession.Completed() {
		t.Error("cancel should keep the session active")
	}
}

func TestSessionScreen_EscPausesSession(t *testing.T) {
	c, s := startSession(t, userstate.ModeTutor, 2)
	_, msgs := update(t, s, screentest.Special(tea.KeyEscape))
	if _, ok := msgs[0].(router.PopToRootMsg); !ok {
		t.Errorf("msg = %T, want PopToRootMsg", msgs[0])
	}
	if c.State().ActiveSession == nil {
		t.Error("pausing must keep the session")
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	_, s := startSession(t, userstate.ModeTutor, 2)
	if len(s.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}
}

package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screens/screentest"
	"github.com/abhisek/gasbank/internal/userstate"
)

func selectLabel(t *testing.T, h *HomeScreen, label string) []tea.Msg {
	t.Helper()
	for i, item := range h.menu.Items {
		if item.Label == label {
			if item.Disabled {
				t.Fatalf("%q is disabled", label)
			}
			h.menu.Selected = i
			_, cmd := h.Update(screentest.Special(tea.KeyEnter))
			return screentest.Run(cmd)
		}
	}
	t.Fatalf("no menu item %q", label)
	return nil
}

func pushedTitle(t *testing.T, msgs []tea.Msg) string {
	t.Helper()
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	push, ok := msgs[0].(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msgs[0])
	}
	return push.Screen.Title()
}

func TestHome_ResumeDisabledWithoutSession(t *testing.T) {
	c := screentest.Coordinator(t)
	h := New(c)

	if !h.menu.Items[0].Disabled {
		t.Error("resume should be disabled without an active session")
	}
	if h.menu.Items[h.menu.Selected].Label != "New session" {
		t.Errorf("selected = %q, want New session", h.menu.Items[h.menu.Selected].Label)
	}
}

func TestHome_RefreshOnInit(t *testing.T) {
	c := screentest.Coordinator(t)
	h := New(c)

	if _, err := c.StartSession(screentest.Ordered(userstate.ModeTutor, 3)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := c.Answer(1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	h.Init()

	if h.menu.Items[0].Disabled {
		t.Error("resume should be enabled after a session starts")
	}
	if got := h.menu.Items[0].Detail; !strings.Contains(got, "1/3 answered") {
		t.Errorf("resume detail = %q", got)
	}
	if h.summary.Incorrect != 1 || h.incorrect != 1 {
		t.Errorf("incorrect = %d/%d, want 1", h.summary.Incorrect, h.incorrect)
	}
}

func TestHome_MenuNavigation(t *testing.T) {
	c := screentest.Coordinator(t)

	tests := []struct {
		label string
		title string
	}{
		{"New session", "New Session"},
		{"Question bank", "Question Bank"},
		{"History", "History"},
		{"Performance", "Performance"},
		{"Settings", "Settings"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			h := New(c)
			if got := pushedTitle(t, selectLabel(t, h, tt.label)); got != tt.title {
				t.Errorf("pushed %q, want %q", got, tt.title)
			}
		})
	}
}

func TestHome_ReviewFlaggedStartsSession(t *testing.T) {
	c := screentest.Coordinator(t)
	if _, err := c.ToggleFlag("VAS-001"); err != nil {
		t.Fatalf("flag: %v", err)
	}
	h := New(c)

	pushedTitle(t, selectLabel(t, h, "Review flagged"))
	s := c.State().ActiveSession
	if s == nil || len(s.QuestionIDs) != 1 || s.QuestionIDs[0] != "VAS-001" {
		t.Fatalf("active session = %+v, want one flagged question", s)
	}
}

func TestHome_ReviewWithNothingStaysPut(t *testing.T) {
	c := screentest.Coordinator(t)
	h := New(c)

	if msgs := selectLabel(t, h, "Review incorrect"); len(msgs) != 0 {
		t.Errorf("expected no navigation, got %v", msgs)
	}
	if c.State().ActiveSession != nil {
		t.Error("no session should start without incorrect questions")
	}
}

func TestHome_View(t *testing.T) {
	c := screentest.Coordinator(t)
	h := New(c)
	view := h.View(100, 40)
	for _, want := range []string{"Question Bank", "10 questions", "New session", "Settings"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

package session

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screen"
	"github.com/abhisek/gasbank/internal/ui/components"
	"github.com/abhisek/gasbank/internal/ui/layout"
	"github.com/abhisek/gasbank/internal/userstate"
)

// SessionScreen runs the active session: answering, navigation, flagging
// and finishing. A completed session is shown read-only for review.
type SessionScreen struct {
	coord      *coordinator.Coordinator
	choices    components.MultiChoice
	boundID    string
	boundIndex int
	confirming bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen for the coordinator's active session.
func New(c *coordinator.Coordinator) *SessionScreen {
	s := &SessionScreen{coord: c, boundIndex: -1}
	s.bind(true)
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	return nil
}

func (s *SessionScreen) Title() string {
	_, sess, _ := s.coord.CurrentQuestion()
	switch {
	case sess == nil:
		return "Session"
	case sess.Completed():
		return "Review"
	case sess.Mode == userstate.ModeExam:
		return "Exam"
	default:
		return "Tutor"
	}
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Finish"},
			{Key: "N", Description: "Keep going"},
		}
	}
	_, sess, _ := s.coord.CurrentQuestion()
	if sess.Completed() {
		return []layout.KeyHint{
			{Key: "←→", Description: "Move"},
			{Key: "F", Description: "Flag"},
			{Key: "X", Description: "Archive"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-9/Enter", Description: "Answer"},
		{Key: "←→", Description: "Move"},
		{Key: "F", Description: "Flag"},
		{Key: "X", Description: "Finish"},
		{Key: "Esc", Description: "Pause"},
	}
}

// bind rebuilds the choice selector when the current question changed.
func (s *SessionScreen) bind(force bool) {
	q, sess, ok := s.coord.CurrentQuestion()
	if !ok {
		s.boundID = ""
		return
	}
	if !force && q.ID == s.boundID && sess.CurrentIndex == s.boundIndex {
		return
	}
	s.boundID, s.boundIndex = q.ID, sess.CurrentIndex

	opts := make([]string, len(q.Answers))
	for i, a := range q.Answers {
		opts[i] = a.Text
	}
	s.choices = components.NewMultiChoice(opts)

	ans, has := sess.Answers[q.ID]
	if has && ans.Answered() {
		s.choices.Choose(ans.ChoiceIndex)
	}
	switch {
	case sess.Completed():
		s.choices.Reveal(q.CorrectIndex())
		s.choices.Locked = true
	case sess.Mode == userstate.ModeTutor && has && ans.Answered():
		s.choices.Reveal(ans.CorrectIndex)
		s.choices.Locked = true
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	_, sess, has := s.coord.CurrentQuestion()
	if sess == nil {
		return s, popToRoot
	}
	key := kmsg.String()

	if s.confirming {
		switch key {
		case "y", "Y":
			s.confirming = false
			return s.finish()
		case "n", "N", "esc":
			s.confirming = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		return s, popToRoot
	case "left", "h", "p":
		s.move(sess.CurrentIndex - 1)
		return s, nil
	case "right", "l", "n":
		s.move(sess.CurrentIndex + 1)
		return s, nil
	case "f":
		if has {
			_, _ = s.coord.ToggleFlag(sess.CurrentID())
		}
		return s, nil
	case "x":
		if sess.Completed() {
			return s.finish()
		}
		s.confirming = true
		return s, nil
	case "enter":
		return s.answer(s.choices.Cursor)
	}

	if i, ok := s.choices.KeyIndex(key); ok {
		return s.answer(i)
	}

	s.choices, _ = s.choices.Update(msg)
	return s, nil
}

func (s *SessionScreen) move(index int) {
	if err := s.coord.Navigate(index); err != nil {
		return
	}
	s.bind(false)
}

func (s *SessionScreen) answer(choice int) (screen.Screen, tea.Cmd) {
	if s.choices.Locked {
		return s, nil
	}
	if _, err := s.coord.Answer(choice); err != nil {
		return s, nil
	}
	s.bind(true)
	return s, nil
}

func (s *SessionScreen) finish() (screen.Screen, tea.Cmd) {
	entry, err := s.coord.Finish()
	if err != nil {
		return s, nil
	}
	if entry == nil {
		// Finishing an already completed session archives it.
		return s, popToRoot
	}
	sum := newSummaryScreen(s.coord, *entry)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
}

func popToRoot() tea.Msg {
	return router.PopToRootMsg{}
}

// answerState describes how the answer to q should be shown.
func answerState(sess *userstate.Session, q question.Question) (userstate.Answer, bool) {
	a, ok := sess.Answers[q.ID]
	return a, ok && a.Answered()
}

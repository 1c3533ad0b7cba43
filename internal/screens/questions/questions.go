package questions

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screen"
	"github.com/abhisek/gasbank/internal/ui/layout"
	"github.com/abhisek/gasbank/internal/ui/theme"
	"github.com/abhisek/gasbank/internal/userstate"
)

// QuestionsScreen browses the question bank. Questions can be marked with
// Space; flag, reset and delete act on the marked set or, when nothing is
// marked, on the question under the cursor.
type QuestionsScreen struct {
	coord    *coordinator.Coordinator
	all      []question.Question
	marked   map[string]bool
	cursor   int
	offset   int
	deleting bool
}

var _ screen.Screen = (*QuestionsScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionsScreen)(nil)

// New creates a QuestionsScreen.
func New(c *coordinator.Coordinator) *QuestionsScreen {
	s := &QuestionsScreen{coord: c, marked: make(map[string]bool)}
	s.reload()
	return s
}

func (s *QuestionsScreen) Init() tea.Cmd {
	s.reload()
	return nil
}

func (s *QuestionsScreen) reload() {
	s.all = s.coord.Bank().All()
	for id := range s.marked {
		if !s.coord.Bank().Has(id) {
			delete(s.marked, id)
		}
	}
	if s.cursor >= len(s.all) {
		s.cursor = max(len(s.all)-1, 0)
	}
}

func (s *QuestionsScreen) Title() string {
	return "Question Bank"
}

func (s *QuestionsScreen) KeyHints() []layout.KeyHint {
	if s.deleting {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Mark"},
		{Key: "F", Description: "Flag"},
		{Key: "R", Description: "Reset history"},
		{Key: "D", Description: "Delete custom"},
		{Key: "Esc", Description: "Back"},
	}
}

// targets returns the marked IDs in bank order, or the current question.
func (s *QuestionsScreen) targets() []string {
	var ids []string
	for _, q := range s.all {
		if s.marked[q.ID] {
			ids = append(ids, q.ID)
		}
	}
	if len(ids) == 0 && len(s.all) > 0 {
		ids = []string{s.all[s.cursor].ID}
	}
	return ids
}

func (s *QuestionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if s.deleting {
		s.deleting = false
		if key == "y" || key == "Y" {
			// Outcomes, failures included, reach the user as notices.
			_, _ = s.coord.DeleteCustomQuestions(s.targets())
			s.marked = make(map[string]bool)
			s.reload()
		}
		return s, nil
	}

	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.all)-1 {
			s.cursor++
		}
	case "space", " ":
		if len(s.all) > 0 {
			id := s.all[s.cursor].ID
			if s.marked[id] {
				delete(s.marked, id)
			} else {
				s.marked[id] = true
			}
		}
	case "f":
		// As with delete, results are reported through notices.
		for _, id := range s.targets() {
			_, _ = s.coord.ToggleFlag(id)
		}
	case "r":
		_, _ = s.coord.ResetHistory(s.targets())
	case "d":
		if len(s.all) > 0 {
			s.deleting = true
		}
	}
	return s, nil
}

func (s *QuestionsScreen) View(width, height int) string {
	if len(s.all) == 0 {
		return theme.Hint.Width(width).Align(lipgloss.Center).Render("\n\nThe question bank is empty.")
	}
	st, bank := s.coord.State(), s.coord.Bank()

	rows := max(height-4, 1)
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+rows {
		s.offset = s.cursor - rows + 1
	}
	end := min(s.offset+rows, len(s.all))

	cw := min(width-4, 110)
	var b strings.Builder
	for i := s.offset; i < end; i++ {
		q := s.all[i]
		mark := "  "
		if s.marked[q.ID] {
			mark = "● "
		}
		flag := " "
		if st.IsFlagged(q.ID) {
			flag = theme.Flagged.Render("⚑")
		}
		custom := " "
		if bank.IsCustom(q.ID) {
			custom = "c"
		}
		status := statusCell(st.StatusOf(q.ID))

		head := fmt.Sprintf("%s%-10s %s %s %s  %-14s ", mark, q.ID, flag, custom, status, truncate(q.Category, 14))
		text := truncate(q.Text, max(cw-lipgloss.Width(head), 10))

		style := theme.Unselected
		if i == s.cursor {
			style = theme.Selected
		}
		b.WriteString(style.Render(head + text))
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("%d questions · %d marked", len(s.all), len(s.marked))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(footer))
	if s.deleting {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render("Delete the selected custom questions? [y/N]"))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func statusCell(st userstate.Status) string {
	switch st {
	case userstate.StatusCorrect:
		return theme.Correct.Render("✓")
	case userstate.StatusIncorrect:
		return theme.Incorrect.Render("✗")
	default:
		return "·"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

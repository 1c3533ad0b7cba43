package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screen"
	sessionscreen "github.com/abhisek/gasbank/internal/screens/session"
	"github.com/abhisek/gasbank/internal/stats"
	"github.com/abhisek/gasbank/internal/ui/layout"
	"github.com/abhisek/gasbank/internal/ui/theme"
	"github.com/abhisek/gasbank/internal/userstate"
)

// HistoryScreen lists completed sessions, newest first.
type HistoryScreen struct {
	coord    *coordinator.Coordinator
	entries  []userstate.HistoryEntry
	selected int
	deleting bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen.
func New(c *coordinator.Coordinator) *HistoryScreen {
	s := &HistoryScreen{coord: c}
	s.reload()
	return s
}

// Init reloads the list; it also runs when the screen is returned to.
func (s *HistoryScreen) Init() tea.Cmd {
	s.reload()
	return nil
}

func (s *HistoryScreen) reload() {
	s.entries = s.coord.State().SessionHistory
	if s.selected >= len(s.entries) {
		s.selected = max(len(s.entries)-1, 0)
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.deleting {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Review"},
		{Key: "D", Description: "Delete"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if s.deleting {
		s.deleting = false
		if key == "y" || key == "Y" {
			_ = s.coord.DeleteHistory(s.entries[s.selected].ID)
			s.reload()
		}
		return s, nil
	}

	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "d":
		if len(s.entries) > 0 {
			s.deleting = true
		}
	case "enter":
		if len(s.entries) == 0 {
			return s, nil
		}
		if _, err := s.coord.ReviewHistory(s.entries[s.selected].ID); err != nil {
			return s, nil
		}
		review := sessionscreen.New(s.coord)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: review} }
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No completed sessions yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, e := range s.entries {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-5s  %3d questions  %3d%% correct  %d answered",
			prefix, e.CompletedAt.Local().Format("Jan 02, 2006 15:04"), e.Mode,
			e.Total, stats.Ratio(e.Correct, e.Total), e.Answered)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if s.deleting {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.Error).Bold(true).
			Render("Delete this session from history? [y/N]"))
	}
	return b.String()
}

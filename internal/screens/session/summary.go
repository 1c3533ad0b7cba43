package session

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screen"
	"github.com/abhisek/gasbank/internal/stats"
	"github.com/abhisek/gasbank/internal/ui/components"
	"github.com/abhisek/gasbank/internal/ui/layout"
	"github.com/abhisek/gasbank/internal/ui/theme"
	"github.com/abhisek/gasbank/internal/userstate"
)

// SummaryScreen shows the result of a session that was just finished.
type SummaryScreen struct {
	coord *coordinator.Coordinator
	entry userstate.HistoryEntry
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

func newSummaryScreen(c *coordinator.Coordinator, entry userstate.HistoryEntry) *SummaryScreen {
	return &SummaryScreen{coord: c, entry: entry}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Review answers"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter":
		if s.coord.State().ActiveSession == nil {
			return s, popToRoot
		}
		if err := s.coord.Navigate(0); err != nil {
			return s, popToRoot
		}
		review := New(s.coord)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: review} }
	case "esc":
		return s, popToRoot
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	e := s.entry
	cw := min(width-4, 70)
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw).Render("Session complete"))
	b.WriteString("\n\n")

	ratio := stats.Ratio(e.Correct, e.Total)
	score := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Width(cw).Align(lipgloss.Center).
		Render(fmt.Sprintf("%d / %d correct  (%d%%)", e.Correct, e.Total, ratio))
	b.WriteString(score)
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Score", ratio, cw)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	b.WriteString(dim.Render(fmt.Sprintf("Mode: %s   Answered: %d   Unanswered: %d",
		e.Mode, e.Answered, e.Total-e.Answered)))
	b.WriteString("\n")
	b.WriteString(dim.Render("Duration: " + e.CompletedAt.Sub(e.CreatedAt).Round(time.Second).String()))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

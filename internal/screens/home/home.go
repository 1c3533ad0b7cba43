package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screen"
	"github.com/abhisek/gasbank/internal/screens/configure"
	"github.com/abhisek/gasbank/internal/screens/history"
	"github.com/abhisek/gasbank/internal/screens/performance"
	"github.com/abhisek/gasbank/internal/screens/questions"
	sessionscreen "github.com/abhisek/gasbank/internal/screens/session"
	"github.com/abhisek/gasbank/internal/screens/settings"
	"github.com/abhisek/gasbank/internal/session"
	"github.com/abhisek/gasbank/internal/stats"
	"github.com/abhisek/gasbank/internal/ui/components"
	"github.com/abhisek/gasbank/internal/ui/layout"
	"github.com/abhisek/gasbank/internal/ui/theme"
)

// HomeScreen is the dashboard: overall progress and the main menu.
type HomeScreen struct {
	coord     *coordinator.Coordinator
	menu      components.Menu
	summary   stats.Summary
	flagged   int
	incorrect int
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(c *coordinator.Coordinator) *HomeScreen {
	h := &HomeScreen{coord: c}
	h.refresh()
	return h
}

// Init refreshes counts; the router calls it whenever home becomes active
// again.
func (h *HomeScreen) Init() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) refresh() {
	st, bank := h.coord.State(), h.coord.Bank()
	h.summary = h.coord.Summary()
	h.flagged = len(session.FlaggedIDs(bank, st))
	h.incorrect = len(session.IncorrectIDs(bank, st))

	var resumeDetail string
	if s := st.ActiveSession; s != nil {
		resumeDetail = fmt.Sprintf("%s · %d/%d answered", s.Mode, s.AnsweredCount(), len(s.QuestionIDs))
		if s.Completed() {
			resumeDetail = "completed · review"
		}
	}

	c := h.coord
	items := []components.MenuItem{
		{Label: "Resume session", Detail: resumeDetail, Disabled: st.ActiveSession == nil, Action: func() tea.Cmd {
			if _, err := c.ResumeSession(); err != nil {
				return nil
			}
			return push(sessionscreen.New(c))
		}},
		{Label: "New session", Action: func() tea.Cmd {
			return push(configure.New(c))
		}},
		{Label: "Review incorrect", Detail: fmt.Sprintf("%d", h.incorrect), Action: func() tea.Cmd {
			if _, err := c.ReviewIncorrect(); err != nil {
				return nil
			}
			return push(sessionscreen.New(c))
		}},
		{Label: "Review flagged", Detail: fmt.Sprintf("%d", h.flagged), Action: func() tea.Cmd {
			if _, err := c.ReviewFlagged(); err != nil {
				return nil
			}
			return push(sessionscreen.New(c))
		}},
		{Label: "Question bank", Detail: fmt.Sprintf("%d", bank.Len()), Action: func() tea.Cmd {
			return push(questions.New(c))
		}},
		{Label: "History", Detail: fmt.Sprintf("%d", len(st.SessionHistory)), Action: func() tea.Cmd {
			return push(history.New(c))
		}},
		{Label: "Performance", Action: func() tea.Cmd {
			return push(performance.New(c))
		}},
		{Label: "Settings", Action: func() tea.Cmd {
			return push(settings.New(c))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(max(width-6, 20), 60)

	title := theme.Title.Width(cw).Render("Question Bank")
	sub := theme.Subtitle.Width(cw).Render(fmt.Sprintf("%d questions", h.summary.Total))

	sections := []string{title + "\n" + sub}
	sections = append(sections, renderStats(h.summary, h.flagged, cw))
	sections = append(sections, theme.Card.Width(cw).Render(strings.TrimRight(h.menu.View(), "\n")))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func renderStats(sum stats.Summary, flagged, cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	cell := func(n int, label string, style lipgloss.Style) string {
		return style.Render(fmt.Sprintf("%d", n)) + " " + dim.Render(label)
	}
	line := strings.Join([]string{
		cell(sum.Correct, "correct", theme.Correct),
		cell(sum.Incorrect, "incorrect", theme.Incorrect),
		cell(sum.Unanswered, "unanswered", theme.Body),
		cell(flagged, "flagged", theme.Flagged),
	}, dim.Render("  ·  "))
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(line)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

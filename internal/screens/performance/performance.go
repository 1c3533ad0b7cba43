package performance

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screen"
	"github.com/abhisek/gasbank/internal/stats"
	"github.com/abhisek/gasbank/internal/ui/components"
	"github.com/abhisek/gasbank/internal/ui/layout"
	"github.com/abhisek/gasbank/internal/ui/theme"
)

// PerformanceScreen shows overall counts and per-category accuracy.
type PerformanceScreen struct {
	summary   stats.Summary
	breakdown []stats.CategoryStat
}

var _ screen.Screen = (*PerformanceScreen)(nil)
var _ screen.KeyHintProvider = (*PerformanceScreen)(nil)

// New snapshots the current statistics.
func New(c *coordinator.Coordinator) *PerformanceScreen {
	return &PerformanceScreen{
		summary:   c.Summary(),
		breakdown: c.Breakdown(),
	}
}

func (s *PerformanceScreen) Init() tea.Cmd {
	return nil
}

func (s *PerformanceScreen) Title() string {
	return "Performance"
}

func (s *PerformanceScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PerformanceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "esc" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *PerformanceScreen) View(width, height int) string {
	cw := min(width-4, 80)
	sum := s.summary
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw).Render("Overall"))
	b.WriteString("\n\n")
	attempted := sum.Correct + sum.Incorrect
	overall := components.NewProgressBar("Accuracy", stats.Ratio(sum.Correct, attempted), cw)
	overall.Caption = fmt.Sprintf("%d/%d", sum.Correct, attempted)
	b.WriteString(overall.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(
		"%d questions · %d correct · %d incorrect · %d unanswered",
		sum.Total, sum.Correct, sum.Incorrect, sum.Unanswered)))
	b.WriteString("\n\n")

	b.WriteString(theme.Title.Width(cw).Render("By category"))
	b.WriteString("\n\n")
	if len(s.breakdown) == 0 {
		b.WriteString(theme.Hint.Render("No questions in the bank."))
	}
	labelWidth := 0
	for _, c := range s.breakdown {
		labelWidth = max(labelWidth, lipgloss.Width(c.Category))
	}
	labelWidth = min(labelWidth, 24)
	for _, c := range s.breakdown {
		bar := components.NewProgressBar(c.Category, c.Ratio, cw)
		bar.LabelWidth = labelWidth
		bar.Caption = fmt.Sprintf("%d/%d", c.Correct, c.Total)
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/ui/theme"
)

// ProgressBar displays a labelled horizontal bar for a whole-number
// percentage.
type ProgressBar struct {
	Label      string
	LabelWidth int
	Percent    int
	Caption    string
	Width      int
}

// NewProgressBar creates a progress bar. percent is clamped to [0,100].
func NewProgressBar(label string, percent int, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: min(max(percent, 0), 100),
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if p.LabelWidth > 0 {
			style = style.Width(p.LabelWidth).MaxWidth(p.LabelWidth)
		}
		result += style.Render(p.Label) + "  "
	}

	tail := fmt.Sprintf("  %3d%%", p.Percent)
	if p.Caption != "" {
		tail += "  " + p.Caption
	}

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(tail)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := barWidth * p.Percent / 100
	empty := barWidth - filled

	result += lipgloss.NewStyle().
		Background(theme.Secondary).
		Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	return result + lipgloss.NewStyle().Foreground(theme.TextDim).Render(tail)
}

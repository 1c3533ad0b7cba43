package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/ui/theme"
)

// MultiChoice renders the answer choices of one question and tracks the
// cursor. It does not score; Reveal switches it into feedback rendering.
type MultiChoice struct {
	Options  []string
	Cursor   int
	Chosen   int // -1 when nothing is chosen
	Correct  int // -1 when the correct answer is hidden
	Locked   bool
	revealed bool
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, Chosen: -1, Correct: -1}
}

// Choose marks index as the chosen option and moves the cursor to it.
func (m *MultiChoice) Choose(index int) {
	m.Chosen = index
	if index >= 0 {
		m.Cursor = index
	}
}

// Reveal shows the correct option alongside the chosen one.
func (m *MultiChoice) Reveal(correct int) {
	m.Correct = correct
	m.revealed = true
}

// Revealed reports whether the correct option is visible.
func (m MultiChoice) Revealed() bool {
	return m.revealed
}

// Update moves the cursor. Selection is left to the owning screen.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.Locked {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	}
	return m, nil
}

// KeyIndex maps the digit keys 1-9 to an option index.
func (m MultiChoice) KeyIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	i := int(key[0] - '1')
	return i, i < len(m.Options)
}

// View renders the options, one per line, wrapped to width.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+rune(i), opt)
		style := lipgloss.NewStyle().Width(width)

		switch {
		case m.revealed && i == m.Correct:
			style = style.Inherit(theme.Correct)
			line += "  ✓"
		case m.revealed && i == m.Chosen:
			style = style.Inherit(theme.Incorrect)
			line += "  ✗"
		case i == m.Chosen:
			style = style.Inherit(theme.Flagged)
			line += "  •"
		case i == m.Cursor && !m.Locked:
			style = style.Inherit(theme.Selected)
		case m.revealed:
			style = style.Foreground(theme.TextDim)
		default:
			style = style.Inherit(theme.Unselected)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

package configure

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screen"
	sessionscreen "github.com/abhisek/gasbank/internal/screens/session"
	"github.com/abhisek/gasbank/internal/ui/layout"
	"github.com/abhisek/gasbank/internal/ui/theme"
	"github.com/abhisek/gasbank/internal/userstate"
)

type field int

const (
	fieldMode field = iota
	fieldCount
	fieldDifficulty
	fieldStatus
	fieldFlags
	fieldRandomize
	fieldIncludeCustom
	fieldOnlyCustom
	fieldCategory // one row per category
)

var (
	statusCycle = []userstate.StatusFilter{userstate.StatusFilterUnanswered, userstate.StatusFilterIncorrect, userstate.StatusFilterAll}
	flagCycle   = []userstate.FlagFilter{userstate.FlagFilterAny, userstate.FlagFilterFlagged, userstate.FlagFilterExcluded}
)

type row struct {
	field    field
	category string
}

// ConfigureScreen edits a session configuration and launches it.
type ConfigureScreen struct {
	coord  *coordinator.Coordinator
	cfg    userstate.SessionConfig
	facets question.Facets
	rows   []row
	cursor int
}

var _ screen.Screen = (*ConfigureScreen)(nil)
var _ screen.KeyHintProvider = (*ConfigureScreen)(nil)

// New creates a ConfigureScreen seeded with the saved defaults.
func New(c *coordinator.Coordinator) *ConfigureScreen {
	s := &ConfigureScreen{
		coord:  c,
		cfg:    c.State().Settings.DefaultSessionConfig.Normalize(),
		facets: c.Facets(),
	}
	for f := fieldMode; f < fieldCategory; f++ {
		s.rows = append(s.rows, row{field: f})
	}
	for _, cat := range s.facets.Categories {
		s.rows = append(s.rows, row{field: fieldCategory, category: cat})
	}
	return s
}

func (s *ConfigureScreen) Init() tea.Cmd {
	return nil
}

func (s *ConfigureScreen) Title() string {
	return "New Session"
}

func (s *ConfigureScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→/Space", Description: "Change"},
		{Key: "Enter", Description: "Start"},
		{Key: "D", Description: "Save defaults"},
		{Key: "Esc", Description: "Back"},
	}
}

// Config returns the configuration being edited.
func (s *ConfigureScreen) Config() userstate.SessionConfig {
	return s.cfg
}

func (s *ConfigureScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j", "tab":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
	case "left", "h":
		s.change(-1)
	case "right", "l", "space", " ":
		s.change(1)
	case "pgup":
		s.cfg.NumQuestions = userstate.ClampQuestionCount(s.cfg.NumQuestions + 10)
	case "pgdown":
		s.cfg.NumQuestions = userstate.ClampQuestionCount(s.cfg.NumQuestions - 10)
	case "d":
		_ = s.coord.UpdateSessionDefaults(s.cfg)
	case "enter":
		if _, err := s.coord.StartSession(s.cfg); err != nil {
			return s, nil
		}
		next := sessionscreen.New(s.coord)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return s, nil
}

// change moves the value of the focused row by delta.
func (s *ConfigureScreen) change(delta int) {
	r := s.rows[s.cursor]
	switch r.field {
	case fieldMode:
		if s.cfg.Mode == userstate.ModeTutor {
			s.cfg.Mode = userstate.ModeExam
		} else {
			s.cfg.Mode = userstate.ModeTutor
		}
	case fieldCount:
		s.cfg.NumQuestions = userstate.ClampQuestionCount(s.cfg.NumQuestions + delta)
	case fieldDifficulty:
		opts := append([]string{userstate.DifficultyAll}, s.facets.Difficulties...)
		s.cfg.Difficulty = cycle(opts, s.cfg.Difficulty, delta)
	case fieldStatus:
		s.cfg.StatusFilter = cycle(statusCycle, s.cfg.StatusFilter, delta)
	case fieldFlags:
		s.cfg.FlagFilter = cycle(flagCycle, s.cfg.FlagFilter, delta)
	case fieldRandomize:
		s.cfg.Randomize = !s.cfg.Randomize
	case fieldIncludeCustom:
		s.cfg.IncludeCustom = !s.cfg.IncludeCustom
	case fieldOnlyCustom:
		s.cfg.OnlyCustom = !s.cfg.OnlyCustom
	case fieldCategory:
		if i := slices.Index(s.cfg.SelectedCategories, r.category); i >= 0 {
			s.cfg.SelectedCategories = slices.Delete(s.cfg.SelectedCategories, i, i+1)
		} else {
			s.cfg.SelectedCategories = append(s.cfg.SelectedCategories, r.category)
		}
	}
}

// cycle returns the value delta steps from cur in opts, wrapping around.
// An unknown cur starts from the first option.
func cycle[T comparable](opts []T, cur T, delta int) T {
	i := slices.Index(opts, cur)
	if i < 0 {
		return opts[0]
	}
	n := len(opts)
	return opts[((i+delta)%n+n)%n]
}

func (s *ConfigureScreen) View(width, height int) string {
	cw := min(width-4, 70)
	var b strings.Builder

	for i, r := range s.rows {
		if r.field == fieldCategory && (i == 0 || s.rows[i-1].field != fieldCategory) {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
				Render("Categories (none selected = all)"))
			b.WriteString("\n")
		}
		label, value := s.describe(r)
		line := fmt.Sprintf("%-22s %s", label, value)
		if i == s.cursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}

	matching := s.coord.MatchingCount(s.cfg)
	b.WriteString("\n")
	countStyle := theme.Correct
	if matching == 0 {
		countStyle = theme.Incorrect
	}
	b.WriteString(countStyle.Render(fmt.Sprintf("%d matching questions", matching)))
	if matching > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  ·  session size %d", min(matching, s.cfg.NumQuestions))))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Width(cw).Render(b.String()))
}

func (s *ConfigureScreen) describe(r row) (string, string) {
	switch r.field {
	case fieldMode:
		return "Mode", string(s.cfg.Mode)
	case fieldCount:
		return "Questions", fmt.Sprintf("%d", s.cfg.NumQuestions)
	case fieldDifficulty:
		return "Difficulty", s.cfg.Difficulty
	case fieldStatus:
		return "Status", string(s.cfg.StatusFilter)
	case fieldFlags:
		return "Flags", string(s.cfg.FlagFilter)
	case fieldRandomize:
		return "Shuffle", onOff(s.cfg.Randomize)
	case fieldIncludeCustom:
		return "Include custom", onOff(s.cfg.IncludeCustom)
	case fieldOnlyCustom:
		return "Only custom", onOff(s.cfg.OnlyCustom)
	default:
		return r.category, check(slices.Contains(s.cfg.SelectedCategories, r.category))
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func check(b bool) string {
	if b {
		return "[x]"
	}
	return "[ ]"
}

package settings

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screen"
	"github.com/abhisek/gasbank/internal/ui/components"
	"github.com/abhisek/gasbank/internal/ui/layout"
	"github.com/abhisek/gasbank/internal/ui/theme"
	"github.com/abhisek/gasbank/internal/userstate"
)

type item int

const (
	itemTheme item = iota
	itemAutoBackup
	itemInterval
	itemBackupDir
	itemBackupNow
	itemImportQuestions
	itemExportQuestions
	itemImportBackup
	itemReset
	itemCount
)

var themes = []userstate.Theme{userstate.ThemeSystem, userstate.ThemeDark, userstate.ThemeLight}

// DoneMsg is sent when a background settings command finishes.
type DoneMsg struct{}

// SettingsScreen edits preferences and runs data management commands.
type SettingsScreen struct {
	coord      *coordinator.Coordinator
	cursor     item
	editing    item
	input      *components.TextInput
	confirming bool
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

// New creates a SettingsScreen.
func New(c *coordinator.Coordinator) *SettingsScreen {
	return &SettingsScreen{coord: c}
}

func (s *SettingsScreen) Init() tea.Cmd {
	return nil
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.input != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Cancel"},
		}
	case s.confirming:
		return []layout.KeyHint{
			{Key: "Y", Description: "Reset everything"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Run"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.input != nil {
		return s.updateInput(msg)
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if s.confirming {
		s.confirming = false
		if key == "y" || key == "Y" {
			c := s.coord
			return s, func() tea.Msg {
				_ = c.ResetAll(context.Background())
				return DoneMsg{}
			}
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
		if s.cursor < itemCount-1 {
			s.cursor++
		}
	case "left", "h":
		s.adjust(-1)
	case "right", "l", "space", " ":
		s.adjust(1)
	case "enter":
		return s.run()
	}
	return s, nil
}

// adjust changes the value of an inline setting.
func (s *SettingsScreen) adjust(delta int) {
	st := s.coord.State()
	prefs := st.Settings.BackupPreferences
	switch s.cursor {
	case itemTheme:
		i := 0
		for j, t := range themes {
			if t == st.Settings.Theme {
				i = j
			}
		}
		next := themes[((i+delta)%len(themes)+len(themes))%len(themes)]
		if t, err := s.coord.SetTheme(string(next)); err == nil {
			theme.Apply(theme.ForName(string(t)))
		}
	case itemAutoBackup:
		on := !prefs.AutoEnabled
		_ = s.coord.SetBackupPreferences(coordinator.BackupPatch{AutoEnabled: &on})
	case itemInterval:
		n := prefs.Interval + delta
		_ = s.coord.SetBackupPreferences(coordinator.BackupPatch{Interval: &n})
	}
}

func (s *SettingsScreen) run() (screen.Screen, tea.Cmd) {
	c := s.coord
	switch s.cursor {
	case itemTheme, itemAutoBackup, itemInterval:
		s.adjust(1)
	case itemBackupDir:
		s.prompt("Backup directory", c.State().Storage.BackupDirectory)
	case itemBackupNow:
		return s, func() tea.Msg {
			_, _ = c.BackupNow(context.Background())
			return DoneMsg{}
		}
	case itemImportQuestions:
		s.prompt("Import questions from (.json, .yaml)", "")
	case itemExportQuestions:
		s.prompt("Export custom questions to", "custom-questions.json")
	case itemImportBackup:
		s.prompt("Import backup from", c.State().Storage.BackupDirectory)
	case itemReset:
		s.confirming = true
	}
	return s, nil
}

func (s *SettingsScreen) prompt(label, value string) {
	in := components.NewTextInput(label, "path", false, 0)
	in.SetValue(value)
	s.input = &in
	s.editing = s.cursor
}

func (s *SettingsScreen) updateInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "esc":
			s.input = nil
			return s, nil
		case "enter":
			value := s.input.Value()
			s.input = nil
			return s, s.submit(value)
		}
	}
	in, cmd := s.input.Update(msg)
	s.input = &in
	return s, cmd
}

// submit runs the command for the edited item with the entered path.
func (s *SettingsScreen) submit(value string) tea.Cmd {
	c := s.coord
	switch s.editing {
	case itemBackupDir:
		if value == "" {
			_ = c.ClearBackupDirectory()
			return nil
		}
		_ = c.ChooseBackupDirectory(value)
	case itemImportQuestions:
		if value == "" {
			return nil
		}
		return func() tea.Msg {
			_, _ = c.ImportQuestions(value)
			return DoneMsg{}
		}
	case itemExportQuestions:
		if value == "" {
			return nil
		}
		return func() tea.Msg {
			_, _ = c.ExportCustom(value)
			return DoneMsg{}
		}
	case itemImportBackup:
		if value == "" {
			return nil
		}
		return func() tea.Msg {
			_ = c.ImportBackup(value)
			return DoneMsg{}
		}
	}
	return nil
}

func (s *SettingsScreen) View(width, height int) string {
	st := s.coord.State()
	prefs := st.Settings.BackupPreferences
	storage := st.Storage
	cw := min(width-4, 80)

	dir := storage.BackupDirectory
	if dir == "" {
		dir = "not set"
	}
	last := "never"
	if storage.LastBackupAt != nil {
		last = storage.LastBackupAt.Local().Format("Jan 02, 2006 15:04")
	}

	rows := []struct{ label, value string }{
		itemTheme:           {"Theme", string(st.Settings.Theme)},
		itemAutoBackup:      {"Auto-backup", onOff(prefs.AutoEnabled)},
		itemInterval:        {"Backup every", fmt.Sprintf("%d attempts", prefs.Interval)},
		itemBackupDir:       {"Backup directory", dir},
		itemBackupNow:       {"Back up now", fmt.Sprintf("last: %s · %d attempts since", last, storage.AttemptsSinceBackup)},
		itemImportQuestions: {"Import questions", ""},
		itemExportQuestions: {"Export custom questions", fmt.Sprintf("%d custom", len(st.CustomQuestions))},
		itemImportBackup:    {"Restore from backup", ""},
		itemReset:           {"Reset all progress", ""},
	}

	var b strings.Builder
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	for i, r := range rows {
		line := fmt.Sprintf("%-24s", r.label)
		if item(i) == s.cursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString(dim.Render(r.value))
		b.WriteString("\n")
	}

	switch {
	case s.input != nil:
		b.WriteString("\n" + s.input.View())
	case s.confirming:
		b.WriteString("\n" + theme.Incorrect.Render("Erase all progress, custom questions and history? [y/N]"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Width(cw).Render(b.String()))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

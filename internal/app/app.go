package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/router"
	"github.com/abhisek/gasbank/internal/screen"
	"github.com/abhisek/gasbank/internal/screens/home"
	sessionscreen "github.com/abhisek/gasbank/internal/screens/session"
	"github.com/abhisek/gasbank/internal/ui/layout"
	"github.com/abhisek/gasbank/internal/ui/theme"
)

// noticeTTL is how long a notice stays on screen.
const noticeTTL = 4 * time.Second

type noticeMsg struct {
	notice coordinator.Notice
}

type clearNoticeMsg struct {
	seq int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	coord   *coordinator.Coordinator
	notices chan coordinator.Notice
	notice  coordinator.Notice
	seq     int
	width   int
	height  int
}

// newAppModel creates a new AppModel with the home screen and subscribes
// to the coordinator's notices.
func newAppModel(c *coordinator.Coordinator) AppModel {
	notices := make(chan coordinator.Notice, 16)
	c.OnNotice(func(n coordinator.Notice) {
		select {
		case notices <- n:
		default:
			// Drop when the UI is behind; a newer notice will follow.
		}
	})
	theme.Apply(theme.ForName(string(c.State().Settings.Theme)))

	return AppModel{
		router:  router.New(home.New(c)),
		coord:   c,
		notices: notices,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.waitForNotice()
}

func (m AppModel) waitForNotice() tea.Cmd {
	ch := m.notices
	return func() tea.Msg {
		return noticeMsg{notice: <-ch}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case noticeMsg:
		m.seq++
		m.notice = msg.notice
		seq := m.seq
		return m, tea.Batch(
			m.waitForNotice(),
			tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} }),
		)

	case clearNoticeMsg:
		if msg.seq == m.seq {
			m.notice = coordinator.Notice{}
		}
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	sum := m.coord.Summary()
	status := fmt.Sprintf("✓ %d/%d  ", sum.Correct, sum.Total)
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)
	if m.notice.Message != "" {
		footer = layout.RenderNotice(m.notice.Message, m.notice.Kind == coordinator.NoticeError, m.width) + "\n" + footer
	}

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program on the home screen and blocks until it
// exits. Pending saves are flushed before it returns.
func Run(c *coordinator.Coordinator) error {
	return run(c, newAppModel(c))
}

// RunSession is Run with the active session opened on top of home.
func RunSession(c *coordinator.Coordinator) error {
	m := newAppModel(c)
	if c.State().ActiveSession != nil {
		m.router.Push(sessionscreen.New(c))
	}
	return run(c, m)
}

func run(c *coordinator.Coordinator, m AppModel) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	c.Wait()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

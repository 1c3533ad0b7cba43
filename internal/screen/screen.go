package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gasbank/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init is called each time the screen becomes active: when it is
	// pushed, and again when the screens above it are popped. Screens
	// reload coordinator state here.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Package screentest builds coordinators backed by an in-memory store for
// screen tests.
package screentest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gasbank/internal/catalog"
	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/logger"
	"github.com/abhisek/gasbank/internal/store"
	"github.com/abhisek/gasbank/internal/userstate"
)

// Coordinator opens a private in-memory database, loads the embedded
// sample catalog and returns a ready coordinator.
func Coordinator(t *testing.T) *coordinator.Coordinator {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:screen_%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	svc := store.NewService(st.SnapshotRepo(), catalog.Loader{}, 5, logger.Nop())
	c := coordinator.New(svc)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() {
		c.Wait()
		st.Close()
	})
	return c
}

// Ordered returns a non-random configuration over the whole catalog.
func Ordered(mode userstate.Mode, n int) userstate.SessionConfig {
	cfg := userstate.DefaultSessionConfig()
	cfg.Mode = mode
	cfg.NumQuestions = n
	cfg.Randomize = false
	cfg.StatusFilter = userstate.StatusFilterAll
	return cfg
}

// Key is a printable key press.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special is a non-printable key press such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Run executes cmd and, for batches, every command in it, returning the
// produced messages.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gasbank/internal/app"
	"github.com/abhisek/gasbank/internal/session"
	"github.com/abhisek/gasbank/internal/userstate"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a session straight away",
	Long: `Start a new session using the saved defaults, adjusted by flags, and
open it in the TUI. With --resume the active session is reopened instead.`,
	RunE: runPlay,
}

func init() {
	addSessionFlags(playCmd)
	playCmd.Flags().Bool("resume", false, "Reopen the active session")
}

func addSessionFlags(c *cobra.Command) {
	c.Flags().String("mode", "", "Session mode: tutor or exam")
	c.Flags().Int("count", 0, "Number of questions (1-100)")
	c.Flags().StringSlice("category", nil, "Restrict to categories (repeatable)")
	c.Flags().String("difficulty", "", "Difficulty or \"all\"")
	c.Flags().String("status", "", "Status filter: all, unanswered or incorrect")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if resume, _ := cmd.Flags().GetBool("resume"); resume {
		return runApp(cmd, true)
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	cfg, err := playConfig(cmd, e.coord.State().Settings.DefaultSessionConfig)
	if err != nil {
		return err
	}
	if _, err := e.coord.StartSession(cfg); err != nil {
		if errors.Is(err, session.ErrEmptyPool) {
			return fmt.Errorf("no questions match these filters")
		}
		return err
	}
	return app.RunSession(e.coord)
}

// playConfig applies the flags that were set on top of base.
func playConfig(cmd *cobra.Command, base userstate.SessionConfig) (userstate.SessionConfig, error) {
	cfg := base
	f := cmd.Flags()
	if f.Changed("mode") {
		m, _ := f.GetString("mode")
		switch strings.ToLower(m) {
		case "tutor":
			cfg.Mode = userstate.ModeTutor
		case "exam":
			cfg.Mode = userstate.ModeExam
		default:
			return cfg, fmt.Errorf("unknown mode %q: use tutor or exam", m)
		}
	}
	if f.Changed("count") {
		cfg.NumQuestions, _ = f.GetInt("count")
	}
	if f.Changed("category") {
		cfg.SelectedCategories, _ = f.GetStringSlice("category")
	}
	if f.Changed("difficulty") {
		cfg.Difficulty, _ = f.GetString("difficulty")
	}
	if f.Changed("status") {
		s, _ := f.GetString("status")
		switch userstate.StatusFilter(s) {
		case userstate.StatusFilterAll, userstate.StatusFilterUnanswered, userstate.StatusFilterIncorrect:
			cfg.StatusFilter = userstate.StatusFilter(s)
		default:
			return cfg, fmt.Errorf("unknown status %q: use all, unanswered or incorrect", s)
		}
	}
	return cfg.Normalize(), nil
}

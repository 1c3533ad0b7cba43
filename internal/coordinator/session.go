package coordinator

import (
	"errors"

	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/session"
	"github.com/abhisek/gasbank/internal/userstate"
)

// StartSession launches a session built from cfg.
func (c *Coordinator) StartSession(cfg userstate.SessionConfig) (*userstate.Session, error) {
	return c.launch(cfg, nil)
}

func (c *Coordinator) launch(cfg userstate.SessionConfig, preselected []string) (*userstate.Session, error) {
	var s *userstate.Session
	err := c.Update(func(d *userstate.State, b *question.Bank) error {
		var err error
		s, err = c.machine.Launch(d, b, cfg, preselected)
		return err
	})
	if errors.Is(err, session.ErrEmptyPool) {
		c.emit(failure("No questions match this configuration."))
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	c.log.Info("session launched", "session", s.ID, "mode", s.Mode, "questions", len(s.QuestionIDs))
	c.emit(success("Session launched with %d questions.", len(s.QuestionIDs)))
	return s, nil
}

// ResumeSession returns the active session, if any.
func (c *Coordinator) ResumeSession() (*userstate.Session, error) {
	s := c.State().ActiveSession
	if s == nil {
		c.emit(failure("No active session to resume."))
		return nil, session.ErrNoSession
	}
	return s, nil
}

// ReviewIncorrect launches a session over every question whose last
// attempt was incorrect.
func (c *Coordinator) ReviewIncorrect() (*userstate.Session, error) {
	st, bank := c.State(), c.Bank()
	ids := session.IncorrectIDs(bank, st)
	if len(ids) == 0 {
		c.emit(success("Fantastic! No incorrect questions remain."))
		return nil, session.ErrEmptyPool
	}
	return c.launch(session.ReviewIncorrectConfig(st.Settings.DefaultSessionConfig, len(ids)), ids)
}

// ReviewFlagged launches a session over the flagged questions.
func (c *Coordinator) ReviewFlagged() (*userstate.Session, error) {
	st, bank := c.State(), c.Bank()
	ids := session.FlaggedIDs(bank, st)
	if len(ids) == 0 {
		c.emit(failure("No flagged questions to review."))
		return nil, session.ErrEmptyPool
	}
	return c.launch(session.ReviewFlaggedConfig(st.Settings.DefaultSessionConfig, len(ids)), ids)
}

// Answer submits choice for the current question. A locked answer is
// returned unchanged with a nil error.
func (c *Coordinator) Answer(choice int) (userstate.Answer, error) {
	var (
		ans  userstate.Answer
		mode userstate.Mode
	)
	err := c.Update(func(d *userstate.State, b *question.Bank) error {
		var err error
		ans, err = c.machine.Submit(d, b, choice)
		if errors.Is(err, session.ErrAnswerLocked) {
			return errNoChange
		}
		if err == nil {
			mode = d.ActiveSession.Mode
		}
		return err
	})
	if err != nil {
		return userstate.Answer{}, err
	}
	if mode == userstate.ModeTutor {
		if ans.IsCorrect {
			c.emit(success("Correct!"))
		} else {
			c.emit(failure("Marked for review."))
		}
	}
	return ans, nil
}

// Navigate moves the active session to index.
func (c *Coordinator) Navigate(index int) error {
	return c.Update(func(d *userstate.State, _ *question.Bank) error {
		if s := d.ActiveSession; s != nil && s.CurrentIndex == min(max(index, 0), len(s.QuestionIDs)-1) {
			return errNoChange
		}
		return c.machine.Navigate(d, index)
	})
}

// Finish completes the active session, or archives it if it is already
// completed. The returned entry is nil when archiving.
func (c *Coordinator) Finish() (*userstate.HistoryEntry, error) {
	var entry *userstate.HistoryEntry
	err := c.Update(func(d *userstate.State, b *question.Bank) error {
		var err error
		entry, err = c.machine.Finish(d, b)
		return err
	})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		c.emit(success("Session archived."))
		return nil, nil
	}
	c.log.Info("session finished", "session", entry.ID, "total", entry.Total, "correct", entry.Correct, "answered", entry.Answered)
	c.emit(success("Session completed. Review your answers."))
	return entry, nil
}

// ReviewHistory reopens a completed session for read-only review.
func (c *Coordinator) ReviewHistory(id string) (*userstate.Session, error) {
	var s *userstate.Session
	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		var err error
		s, err = c.machine.Review(d, id)
		return err
	})
	if err != nil {
		c.emit(failure("Session not found."))
		return nil, err
	}
	return s, nil
}

// DeleteHistory removes a history entry.
func (c *Coordinator) DeleteHistory(id string) error {
	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		return c.machine.DeleteHistory(d, id)
	})
	if err != nil {
		c.emit(failure("Session not found."))
		return err
	}
	c.emit(success("Session deleted."))
	return nil
}

// UpdateSessionDefaults stores cfg as the default configuration.
func (c *Coordinator) UpdateSessionDefaults(cfg userstate.SessionConfig) error {
	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		d.Settings.DefaultSessionConfig = cfg.Normalize()
		return nil
	})
	if err != nil {
		return err
	}
	c.emit(success("Session defaults updated."))
	return nil
}

package coordinator

import (
	"errors"
	"slices"

	"github.com/abhisek/gasbank/internal/importer"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/userstate"
)

// ToggleFlag flips the review flag of id and returns the new value.
func (c *Coordinator) ToggleFlag(id string) (bool, error) {
	var flagged bool
	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		flagged = d.ToggleFlag(id)
		return nil
	})
	if err != nil {
		return false, err
	}
	if flagged {
		c.emit(success("Question flagged for review."))
	} else {
		c.emit(success("Flag removed."))
	}
	return flagged, nil
}

// ResetHistory clears the attempt ledgers of ids and returns how many had
// history.
func (c *Coordinator) ResetHistory(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var cleared int
	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		cleared = d.ResetHistory(unique(ids))
		if cleared == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	switch cleared {
	case 0:
		c.emit(success("No stored history for the selected questions."))
	case 1:
		c.emit(success("History cleared for 1 question."))
	default:
		c.emit(success("History cleared for %d questions.", cleared))
	}
	return cleared, nil
}

// DeleteCustomQuestions removes user-authored questions together with
// their history, flags and active-session entries. Catalog IDs are
// ignored.
func (c *Coordinator) DeleteCustomQuestions(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}
	var deleted int
	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		// Only IDs that name a custom question are cleaned up; catalog
		// questions in the same selection keep their stats and flags.
		drop := make(map[string]bool)
		var removed []string
		d.CustomQuestions = slices.DeleteFunc(d.CustomQuestions, func(q question.Question) bool {
			if !requested[q.ID] || drop[q.ID] {
				return false
			}
			drop[q.ID] = true
			removed = append(removed, q.ID)
			return true
		})
		deleted = len(removed)
		if deleted == 0 {
			return errNoChange
		}
		d.ResetHistory(removed)
		d.FlaggedIDs = slices.DeleteFunc(d.FlaggedIDs, func(id string) bool { return drop[id] })
		c.machine.RemoveQuestions(d, removed)
		return nil
	})
	if err != nil {
		return 0, err
	}
	switch deleted {
	case 0:
		c.emit(success("No custom questions matched the selection."))
	case 1:
		c.emit(success("Custom question deleted."))
	default:
		c.emit(success("%d custom questions deleted.", deleted))
	}
	return deleted, nil
}

// CreateQuestion validates an authored question and adds it. An empty ID
// is replaced with a generated one.
func (c *Coordinator) CreateQuestion(q question.Question) (question.Question, error) {
	q = question.Normalize(q)
	err := c.Update(func(d *userstate.State, b *question.Bank) error {
		if q.ID != "" && b.Has(q.ID) {
			return &question.ValidationError{Field: "id", Message: "Question ID already exists. Choose a unique ID."}
		}
		if err := question.Validate(q); err != nil {
			return err
		}
		if q.ID == "" {
			q.ID = question.NewCustomID(c.now(), b.Has)
		}
		d.CustomQuestions = append(d.CustomQuestions, q)
		return nil
	})
	if err != nil {
		c.emit(failure("%s", validationMessage(err)))
		return question.Question{}, err
	}
	c.emit(success("Custom question added."))
	return q, nil
}

func validationMessage(err error) string {
	var ve *question.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// ImportQuestions reads a question file and appends its valid records as
// custom questions. Records whose ID is already taken are skipped.
func (c *Coordinator) ImportQuestions(path string) (importer.Report, error) {
	recs, err := importer.ReadFile(path)
	if err != nil {
		c.log.Warn("import failed", "path", path, "error", err)
		c.emit(failure("Failed to import: %v", unwrapImport(err)))
		return importer.Report{}, err
	}
	outcomes := importer.Check(recs)

	var report importer.Report
	err = c.Update(func(d *userstate.State, b *question.Bank) error {
		report = importer.Prepare(outcomes, b.Has, c.now())
		if len(report.Questions) == 0 {
			return errNoChange
		}
		d.CustomQuestions = append(d.CustomQuestions, report.Questions...)
		return nil
	})
	if err != nil {
		return report, err
	}
	c.log.Info("import finished", "path", path, "added", len(report.Questions), "skipped", report.Skipped, "invalid", len(report.Invalid))
	if len(report.Questions) == 0 {
		c.emit(failure("%s", report.Summary()))
	} else {
		c.emit(success("%s", report.Summary()))
	}
	return report, nil
}

func unwrapImport(err error) error {
	var ie *importer.ImportError
	if errors.As(err, &ie) {
		return ie.Err
	}
	return err
}

// ExportCustom writes the custom questions to path and returns how many
// were written.
func (c *Coordinator) ExportCustom(path string) (int, error) {
	qs := c.State().CustomQuestions
	if len(qs) == 0 {
		c.emit(failure("No custom questions to export."))
		return 0, nil
	}
	if err := importer.Export(path, qs); err != nil {
		c.emit(failure("Export failed."))
		return 0, err
	}
	c.emit(success("Exported %d questions.", len(qs)))
	return len(qs), nil
}

// SetTheme stores the theme preference. Unknown values become system.
func (c *Coordinator) SetTheme(theme string) (userstate.Theme, error) {
	t := userstate.ParseTheme(theme)
	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		d.Settings.Theme = t
		return nil
	})
	if err != nil {
		return t, err
	}
	if t == userstate.ThemeSystem {
		c.emit(success("Theme set to match system preference."))
	} else {
		c.emit(success("Theme switched to %s mode.", t))
	}
	return t, nil
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

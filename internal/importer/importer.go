// Package importer reads question files supplied by the user and turns them
// into custom questions ready to append to the user state.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/gasbank/internal/question"
)

// Outcome is the result of checking one record: Valid or Invalid.
type Outcome interface {
	outcome()
}

// Valid is a record that passed validation.
type Valid struct {
	Question question.Question
}

// Invalid is a record that failed validation.
type Invalid struct {
	Index  int
	Reason string
}

func (Valid) outcome()   {}
func (Invalid) outcome() {}

// ReadFile decodes the records of a JSON or YAML import file.
func ReadFile(path string) ([]any, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".csv" {
		return nil, &ImportError{Source: path, Err: ErrCSVUnsupported}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ImportError{Source: path, Err: err}
	}
	recs, err := Decode(data, ext)
	if err != nil {
		return nil, &ImportError{Source: path, Err: err}
	}
	return recs, nil
}

// Decode parses data as YAML for .yaml/.yml and JSON otherwise. The top
// level may be a list of records or an object with a "questions" list.
func Decode(data []byte, ext string) ([]any, error) {
	var doc any
	switch ext {
	case ".yaml", ".yml":
		var y any
		if err := yaml.Unmarshal(data, &y); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		// Round-trip through JSON so records have the same types as the
		// JSON path.
		b, err := json.Marshal(y)
		if err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(bytes.TrimSpace(data), &doc); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	}

	var recs []any
	switch v := doc.(type) {
	case []any:
		recs = v
	case map[string]any:
		list, ok := v["questions"].([]any)
		if !ok {
			return nil, ErrNoQuestions
		}
		recs = list
	default:
		return nil, ErrNoQuestions
	}
	if len(recs) == 0 {
		return nil, ErrNoQuestions
	}
	return recs, nil
}

// Check validates each record and normalizes the valid ones.
func Check(recs []any) []Outcome {
	out := make([]Outcome, 0, len(recs))
	for i, rec := range recs {
		out = append(out, checkRecord(i, rec))
	}
	return out
}

func checkRecord(i int, rec any) Outcome {
	if err := validateRecord(rec); err != nil {
		return Invalid{Index: i, Reason: schemaReason(err)}
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return Invalid{Index: i, Reason: err.Error()}
	}
	var q question.Question
	if err := json.Unmarshal(b, &q); err != nil {
		return Invalid{Index: i, Reason: err.Error()}
	}
	q = question.Normalize(q)
	if err := question.Validate(q); err != nil {
		return Invalid{Index: i, Reason: err.Error()}
	}
	return Valid{Question: q}
}

// schemaReason flattens a multi-line schema error into one line, dropping
// the schema URL header.
func schemaReason(err error) string {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	if len(lines) > 1 {
		lines = lines[1:]
	}
	for i, l := range lines {
		lines[i] = strings.TrimLeft(strings.TrimSpace(l), "- ")
	}
	return strings.Join(lines, "; ")
}

// Report summarizes a prepared import.
type Report struct {
	Questions []question.Question
	Skipped   int
	Invalid   []Invalid
}

// Prepare assigns IDs to valid records and drops those whose explicit ID is
// already taken. Records without an ID get CUS-<millis>-<n>.
func Prepare(outcomes []Outcome, taken func(string) bool, now time.Time) Report {
	var r Report
	used := make(map[string]bool)
	isTaken := func(id string) bool { return used[id] || taken(id) }
	counter := 0

	for _, o := range outcomes {
		switch v := o.(type) {
		case Invalid:
			r.Invalid = append(r.Invalid, v)
		case Valid:
			q := v.Question
			if q.ID != "" && isTaken(q.ID) {
				r.Skipped++
				continue
			}
			if q.ID == "" {
				q.ID, counter = question.NewSuffixedID(now, counter, isTaken)
			}
			used[q.ID] = true
			r.Questions = append(r.Questions, q)
		}
	}
	return r
}

// Summary is the user-facing message for a report.
func (r Report) Summary() string {
	n := len(r.Questions)
	if n == 0 {
		if r.Skipped > 0 {
			return fmt.Sprintf("No new questions imported. Skipped %d duplicate IDs.", r.Skipped)
		}
		return "No new questions imported."
	}
	msg := fmt.Sprintf("Imported %d question", n)
	if n != 1 {
		msg += "s"
	}
	if r.Skipped > 0 {
		msg += fmt.Sprintf(" (skipped %d duplicate IDs)", r.Skipped)
	}
	if len(r.Invalid) > 0 {
		msg += fmt.Sprintf(", %d invalid", len(r.Invalid))
	}
	return msg + "."
}

// Export writes questions to path as an indented JSON list.
func Export(path string, qs []question.Question) error {
	if qs == nil {
		qs = []question.Question{}
	}
	data, err := json.MarshalIndent(qs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Package catalog loads the fixed question catalog shipped with the
// application or supplied as a file.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/gasbank/internal/question"
)

//go:embed data/sample.json
var sampleJSON []byte

// document is the on-disk shape. A bare array of questions is accepted too.
type document struct {
	Questions []question.Question `json:"questions" yaml:"questions"`
}

// Loader reads the catalog from Path, or the embedded sample when Path is
// empty.
type Loader struct {
	Path string
}

// Load reads, normalizes and validates the catalog.
func (l Loader) Load() ([]question.Question, error) {
	if l.Path == "" {
		return Parse(sampleJSON, ".json")
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	qs, err := Parse(data, filepath.Ext(l.Path))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", l.Path, err)
	}
	return qs, nil
}

// Parse decodes a catalog in the format named by ext (".json", ".yaml" or
// ".yml"). Every question must validate and IDs must be unique.
func Parse(data []byte, ext string) ([]question.Question, error) {
	var (
		qs  []question.Question
		err error
	)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		qs, err = decodeYAML(data)
	default:
		qs, err = decodeJSON(data)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(qs))
	for i := range qs {
		qs[i] = question.Normalize(qs[i])
		if qs[i].ID == "" {
			return nil, fmt.Errorf("question %d: missing id", i)
		}
		if seen[qs[i].ID] {
			return nil, fmt.Errorf("question %d: duplicate id %q", i, qs[i].ID)
		}
		seen[qs[i].ID] = true
		if err := question.Validate(qs[i]); err != nil {
			return nil, fmt.Errorf("question %q: %w", qs[i].ID, err)
		}
	}
	return qs, nil
}

func decodeJSON(data []byte) ([]question.Question, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var qs []question.Question
		if err := json.Unmarshal(data, &qs); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return qs, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return doc.Questions, nil
}

func decodeYAML(data []byte) ([]question.Question, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var qs []question.Question
		if err := node.Decode(&qs); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return qs, nil
	}
	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return doc.Questions, nil
}

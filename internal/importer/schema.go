package importer

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const recordSchemaURL = "schema://gasbank/question.json"

// recordSchema describes one imported question record. It checks shape and
// types; question.Validate applies the remaining authoring rules.
var recordSchema = map[string]any{
	"type":     "object",
	"required": []any{"questionText", "answers"},
	"properties": map[string]any{
		"id":                   map[string]any{"type": "string"},
		"category":             map[string]any{"type": "string"},
		"subcategory":          map[string]any{"type": "string"},
		"difficulty":           map[string]any{"type": "string"},
		"questionText":         map[string]any{"type": "string", "minLength": 1},
		"image":                map[string]any{"type": "string"},
		"imageAlt":             map[string]any{"type": "string"},
		"didactic":             map[string]any{"type": "string"},
		"educationalObjective": map[string]any{"type": "string"},
		"answers": map[string]any{
			"type":     "array",
			"minItems": 2,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"text"},
				"properties": map[string]any{
					"text":        map[string]any{"type": "string"},
					"isCorrect":   map[string]any{"type": "boolean"},
					"explanation": map[string]any{"type": "string"},
				},
			},
			"contains": map[string]any{
				"type":       "object",
				"required":   []any{"isCorrect"},
				"properties": map[string]any{"isCorrect": map[string]any{"const": true}},
			},
			"minContains": 1,
			"maxContains": 1,
		},
	},
}

var compiledRecordSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The compiler wants a parsed JSON value, not Go literals.
	raw, err := json.Marshal(recordSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var def any
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(recordSchemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	s, err := c.Compile(recordSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return s, nil
})

// validateRecord checks a decoded record against the question schema.
func validateRecord(rec any) error {
	s, err := compiledRecordSchema()
	if err != nil {
		return err
	}
	return s.Validate(rec)
}

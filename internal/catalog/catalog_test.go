package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gasbank/internal/question"
)

func TestLoadEmbedded(t *testing.T) {
	qs, err := Loader{}.Load()
	require.NoError(t, err)
	require.NotEmpty(t, qs)

	for _, q := range qs {
		assert.NoError(t, question.Validate(q), q.ID)
		assert.NotEmpty(t, q.Category, q.ID)
	}
	facets := question.CollectFacets(qs)
	assert.Contains(t, facets.Categories, "Airway")
	assert.Equal(t, []string{"easy", "medium", "hard"}, facets.Difficulties)
}

const yamlCatalog = `
- id: Y1
  category: Airway
  difficulty: Easy
  questionText: "  What?  "
  answers:
    - text: "yes"
      isCorrect: true
    - text: "no"
`

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlCatalog), 0o644))

	qs, err := Loader{Path: path}.Load()
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "easy", qs[0].Difficulty)
	assert.Equal(t, "What?", qs[0].Text)
	assert.Equal(t, 0, qs[0].CorrectIndex())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"questions": [`},
		{"missing id", `[{"questionText":"q","answers":[{"text":"a","isCorrect":true},{"text":"b"}]}]`},
		{"duplicate id", `[
			{"id":"X","questionText":"q","answers":[{"text":"a","isCorrect":true},{"text":"b"}]},
			{"id":"X","questionText":"q","answers":[{"text":"a","isCorrect":true},{"text":"b"}]}]`},
		{"two correct", `[{"id":"X","questionText":"q","answers":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":true}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), ".json")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Loader{Path: filepath.Join(t.TempDir(), "nope.json")}.Load()
	assert.Error(t, err)
}

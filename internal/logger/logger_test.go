package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gasbank.log")
	l, err := New("prod", path)
	require.NoError(t, err)

	l.With("component", "test").Info("saved", "attempts", 3)
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"saved"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("ignored", "k", "v")
	l.Sync()
}

// Package backup writes and reads full user-state backup files.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/gasbank/internal/userstate"
)

// Format identifies gasbank backup files.
const Format = "gasbank-backup"

// FormatVersion is the version written by this build. Files with the same
// major version can be read.
const FormatVersion = "v1.0.0"

// ErrIncompatible is returned for backups written by an incompatible build.
var ErrIncompatible = errors.New("incompatible backup version")

// File is the on-disk layout of a backup.
type File struct {
	Format    string           `json:"format"`
	Version   string           `json:"version"`
	CreatedAt time.Time        `json:"createdAt"`
	UserData  *userstate.State `json:"userData"`
}

// Result describes a written backup.
type Result struct {
	Path      string
	Timestamp time.Time
}

// Writer writes timestamped backup files.
type Writer struct {
	Now func() time.Time
}

// FileName returns the backup file name for t.
func FileName(t time.Time) string {
	return fmt.Sprintf("gasbank-backup-%s.json", t.UTC().Format("20060102-150405.000"))
}

// Write stores st in dir. The file appears atomically.
func (w Writer) Write(ctx context.Context, dir string, st *userstate.State) (Result, error) {
	if dir == "" {
		return Result{}, errors.New("backup directory is not set")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	ts := now()

	data, err := json.MarshalIndent(File{
		Format:    Format,
		Version:   FormatVersion,
		CreatedAt: ts,
		UserData:  st,
	}, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("marshal backup: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create backup dir: %w", err)
	}
	path := filepath.Join(dir, FileName(ts))
	tmp, err := os.CreateTemp(dir, ".gasbank-backup-*")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("close backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Result{}, fmt.Errorf("rename backup: %w", err)
	}
	return Result{Path: path, Timestamp: ts}, nil
}

// Read loads a backup file and returns its normalized user state. A file
// without a format header is read as a bare user-state document.
func Read(path string) (*userstate.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return Decode(data)
}

// Decode parses backup file contents.
func Decode(data []byte) (*userstate.State, error) {
	var head struct {
		Format   string          `json:"format"`
		Version  string          `json:"version"`
		UserData json.RawMessage `json:"userData"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if head.Format == "" {
		return userstate.Decode(data)
	}
	if head.Format != Format {
		return nil, fmt.Errorf("decode backup: unknown format %q", head.Format)
	}
	if err := CheckVersion(head.Version); err != nil {
		return nil, err
	}
	if len(head.UserData) == 0 || string(head.UserData) == "null" {
		return nil, errors.New("decode backup: missing userData")
	}
	return userstate.Decode(head.UserData)
}

// CheckVersion reports whether a backup of version v can be read.
func CheckVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a valid version", ErrIncompatible, v)
	}
	if semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("%w: %s (supported %s.x)", ErrIncompatible, v, semver.Major(FormatVersion))
	}
	return nil
}

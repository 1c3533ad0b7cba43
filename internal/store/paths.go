package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Paths resolves where gasbank keeps its files. The result is cached until
// Refresh is called.
type Paths struct {
	// Override is an explicit database path (flag or GASBANK_DB).
	Override string

	mu     sync.Mutex
	dbPath string
}

// NewPaths returns Paths with an optional override.
func NewPaths(override string) *Paths {
	return &Paths{Override: override}
}

// DB returns the database file path, creating its directory.
func (p *Paths) DB() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dbPath != "" {
		return p.dbPath, nil
	}
	path := p.Override
	if path == "" {
		var err error
		if path, err = DefaultDBPath(); err != nil {
			return "", err
		}
	}
	if err := ensureDir(path); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	p.dbPath = path
	return path, nil
}

// Dir returns the directory holding the database.
func (p *Paths) Dir() (string, error) {
	db, err := p.DB()
	if err != nil {
		return "", err
	}
	return filepath.Dir(db), nil
}

// LogFile returns the default log file path.
func (p *Paths) LogFile() (string, error) {
	dir, err := p.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gasbank.log"), nil
}

// Refresh drops the cached resolution so the next call re-reads the
// environment.
func (p *Paths) Refresh() {
	p.mu.Lock()
	p.dbPath = ""
	p.mu.Unlock()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. $XDG_DATA_HOME/gasbank/gasbank.db
// 2. ~/.local/share/gasbank/gasbank.db
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "gasbank", "gasbank.db"), nil
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

package coordinator

import (
	"errors"
	"fmt"
)

// PersistenceError wraps a failed save, reset or backup call.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// errNoChange aborts a mutation without committing or persisting it.
var errNoChange = errors.New("no change")

// ErrNoBackupDirectory is returned when a backup is requested before a
// directory has been chosen.
var ErrNoBackupDirectory = errors.New("backup directory is not set")

// NoticeKind classifies a Notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a short user-facing message about the outcome of a command or
// of background work.
type Notice struct {
	Kind    NoticeKind
	Message string
}

func success(format string, args ...any) Notice {
	return Notice{Kind: NoticeSuccess, Message: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...any) Notice {
	return Notice{Kind: NoticeError, Message: fmt.Sprintf(format, args...)}
}

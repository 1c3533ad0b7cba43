package importer

import (
	"errors"
	"fmt"
)

// ErrCSVUnsupported is returned for CSV import files.
var ErrCSVUnsupported = errors.New("CSV import is not yet supported. Please import JSON")

// ErrNoQuestions is returned when a file holds no records.
var ErrNoQuestions = errors.New("no questions found in file")

// ImportError reports an unreadable or invalid import file.
type ImportError struct {
	Source string
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Source, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

package domain

import (
	"fmt"
	"io/fs"
)

// FileNotFoundError reports a missing accident data file. It wraps
// fs.ErrNotExist so errors.Is works alongside the type assertion.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %q does not exist", e.Path)
}

func (e *FileNotFoundError) Unwrap() error { return fs.ErrNotExist }

// InvalidStateError reports a state FIPS code that never appears in the
// loaded data's STATE column.
type InvalidStateError struct {
	Code int
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid STATE number: %d", e.Code)
}
